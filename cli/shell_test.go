package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/amonks/musik/data"
	"github.com/amonks/musik/playback"
	"github.com/amonks/musik/playlist"
	"github.com/amonks/musik/query"
	"github.com/amonks/musik/session"
	"github.com/amonks/musik/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	tracks []data.Track
	last   query.Query
}

func (s *stubSearcher) Search(ctx context.Context, q query.Query) ([]data.Track, error) {
	s.last = q
	return s.tracks, nil
}

type recorder struct{ ops []string }

func (r *recorder) do(op string) error {
	r.ops = append(r.ops, op)
	return nil
}

func (r *recorder) Load(url string) error { return r.do("load " + url) }
func (r *recorder) Play() error           { return r.do("play") }
func (r *recorder) Pause() error          { return r.do("pause") }

func fixtures() []data.Track {
	cents := func(n int64) *int64 { return &n }
	newer := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(2001, 3, 7, 0, 0, 0, 0, time.UTC)
	return []data.Track{
		{ID: 11, Title: "Around the World", ArtistName: "Daft Punk", TrackPriceMinor: cents(199), Currency: "USD", ReleaseDate: &older, PreviewURL: "https://audio.example/11"},
		{ID: 22, Title: "Get Lucky", ArtistName: "Daft Punk", TrackPriceMinor: cents(99), Currency: "USD", ReleaseDate: &newer, PreviewURL: "https://audio.example/22"},
		{ID: 33, Title: "Silent", ArtistName: "Nobody"},
	}
}

func newShellSession(tracks []data.Track) (*session.Session, *stubSearcher, *recorder, storage.Store) {
	searcher := &stubSearcher{tracks: tracks}
	out := &recorder{}
	kv := storage.NewMemory()
	pl := playlist.New(kv, "musicPlaylist", nil)
	return session.New(searcher, pl, playback.New(out, nil), nil), searcher, out, kv
}

func runLines(t *testing.T, sess *session.Session, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, runShell(context.Background(), in, &out, sess))
	return out.String()
}

func TestShellSearchSortAdd(t *testing.T) {
	sess, searcher, _, _ := newShellSession(fixtures())

	out := runLines(t, sess,
		"set country=gb limit=10",
		"search daft punk",
		"sort price",
		"add 1",
		"add 1",
		"playlist",
		"quit",
	)

	assert.Equal(t, query.Query{Keyword: "daft punk", MediaType: "music", Country: "GB", Limit: 10, Explicit: "all"}, searcher.last)
	assert.Contains(t, out, "Search Results (3)")
	assert.Contains(t, out, "Added Silent to playlist", "row 1 after sorting by price is the free track")
	assert.Contains(t, out, "This track is already in your playlist!")
	assert.Contains(t, out, "My Playlist (1 tracks)")
	assert.Equal(t, []int64{33}, data.IDs(sess.Playlist.Tracks()))
}

func TestShellEmptySearch(t *testing.T) {
	sess, _, _, _ := newShellSession([]data.Track{})
	out := runLines(t, sess, "search abc")
	assert.Contains(t, out, session.NoResults)
	assert.NotContains(t, out, "Search Results")
}

func TestShellInvalidSearch(t *testing.T) {
	sess, searcher, _, _ := newShellSession(fixtures())
	out := runLines(t, sess, "set limit=500", "search x")
	assert.Contains(t, out, "Keyword must be at least 2 characters")
	assert.Contains(t, out, "Limit must be between 1 and 200")
	assert.Equal(t, query.Query{}, searcher.last)
}

func TestShellSetMultiWord(t *testing.T) {
	sess, searcher, _, _ := newShellSession(fixtures())
	runLines(t, sess, "set keyword=the daft punk media=musicVideo", "search")
	assert.Equal(t, "the daft punk", searcher.last.Keyword)
	assert.Equal(t, "musicVideo", searcher.last.MediaType)
}

func TestShellReset(t *testing.T) {
	sess, searcher, _, _ := newShellSession(fixtures())
	runLines(t, sess, "set country=JP limit=3", "reset", "search abc")
	assert.Equal(t, "US", searcher.last.Country)
	assert.Equal(t, 25, searcher.last.Limit)
}

func TestShellPlay(t *testing.T) {
	sess, _, player, _ := newShellSession(fixtures())
	out := runLines(t, sess,
		"search daft",
		"play 11",
		"play 22",
		"play 22",
		"play 33",
	)
	assert.Equal(t, []string{
		"load https://audio.example/11", "play",
		"pause", "load https://audio.example/22", "play",
		"pause",
	}, player.ops)
	assert.Contains(t, out, "No preview available for this track")
	assert.Equal(t, playback.State{}, sess.Playback.State())
}

func TestShellClear(t *testing.T) {
	sess, _, _, kv := newShellSession(fixtures())
	runLines(t, sess, "search daft", "add 1 2", "clear", "n")
	assert.Equal(t, 2, sess.Playlist.Len())

	out := runLines(t, sess, "clear", "y", "playlist")
	assert.Equal(t, 0, sess.Playlist.Len())
	assert.Contains(t, out, "Your playlist is empty")
	_, found, err := kv.Get("musicPlaylist")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestShellRemove(t *testing.T) {
	sess, _, _, _ := newShellSession(fixtures())
	runLines(t, sess, "search daft", "add 1 2 3", "remove 22 999")
	assert.Equal(t, []int64{11, 33}, data.IDs(sess.Playlist.Tracks()))
}

func TestShellUnknownCommand(t *testing.T) {
	sess, _, _, _ := newShellSession(fixtures())
	out := runLines(t, sess, "dance")
	assert.Contains(t, out, "unknown command 'dance'")
}

func TestShellCanceled(t *testing.T) {
	sess, _, _, _ := newShellSession(fixtures())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runShell(ctx, strings.NewReader("help\n"), &bytes.Buffer{}, sess)
	assert.ErrorIs(t, err, context.Canceled)
}
