// Package session holds the state one user works with: the current search
// results and how they're sorted, the playlist, and the playback
// controller. Every view of the app shares one Session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amonks/musik/data"
	"github.com/amonks/musik/order"
	"github.com/amonks/musik/playback"
	"github.com/amonks/musik/playlist"
	"github.com/amonks/musik/query"
	"go.uber.org/zap"
)

// ErrSearchPending is returned by Submit while another search is running.
var ErrSearchPending = errors.New("a search is already in progress")

// NoResults is the message for a search that found nothing.
const NoResults = "No results found. Try different search terms."

type Searcher interface {
	Search(ctx context.Context, q query.Query) ([]data.Track, error)
}

type Session struct {
	searcher Searcher
	Playlist *playlist.Store
	Playback *playback.Controller
	logger   *zap.Logger

	mu      sync.Mutex
	pending bool
	fetched []data.Track
	sortKey order.Key
	form    query.Raw
}

func New(searcher Searcher, pl *playlist.Store, pb *playback.Controller, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		searcher: searcher,
		Playlist: pl,
		Playback: pb,
		logger:   logger,
		sortKey:  order.None,
		form:     query.Defaults(),
	}
}

// Result is the outcome of one submission, for display. At most one of
// Fields, Err and Empty is set.
type Result struct {
	// Fields is set when the form didn't validate; nothing was fetched.
	Fields query.FieldErrors
	// Err is set when the fetch failed.
	Err error
	// Empty is set when the catalog found nothing.
	Empty  bool
	Tracks []data.Track
}

// Message is the line to show the user, or "" when there are results.
func (r Result) Message() string {
	switch {
	case r.Fields != nil:
		return r.Fields.Error()
	case r.Err != nil:
		return fmt.Sprintf("Failed to fetch data: %s", r.Err)
	case r.Empty:
		return NoResults
	}
	return ""
}

// Submit validates raw and, if it's valid, runs the search. A fresh result
// set starts unsorted. When the fetch fails the previous results are
// cleared. Only ErrSearchPending is returned as an error; everything else
// is reported in the Result.
func (s *Session) Submit(ctx context.Context, raw query.Raw) (Result, error) {
	q, err := query.Validate(raw)
	if err != nil {
		var fields query.FieldErrors
		if errors.As(err, &fields) {
			return Result{Fields: fields}, nil
		}
		return Result{}, err
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return Result{}, ErrSearchPending
	}
	s.pending = true
	s.form = raw
	s.mu.Unlock()

	log := s.logger.With(zap.String("keyword", q.Keyword), zap.String("media", q.MediaType), zap.String("country", q.Country))
	log.Info("searching")

	tracks, err := s.searcher.Search(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.sortKey = order.None

	if err != nil {
		s.fetched = nil
		log.Error("search failed", zap.Error(err))
		return Result{Err: err}, nil
	}

	s.fetched = tracks
	log.Info("search done", zap.Int("results", len(tracks)))
	if len(tracks) == 0 {
		return Result{Empty: true, Tracks: []data.Track{}}, nil
	}
	return Result{Tracks: order.Sort(tracks, s.sortKey)}, nil
}

// Pending reports whether a search is running.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Sort changes how Results are ordered and returns them. order.None
// restores the order the catalog returned.
func (s *Session) Sort(key order.Key) []data.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortKey = key
	return order.Sort(s.fetched, key)
}

func (s *Session) SortKey() order.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortKey
}

// Results are the last search's tracks in the current sort order.
func (s *Session) Results() []data.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return order.Sort(s.fetched, s.sortKey)
}

// Result returns the n'th result (1-based) in the current sort order.
func (s *Session) Result(n int) (data.Track, error) {
	results := s.Results()
	if n < 1 || n > len(results) {
		return data.Track{}, fmt.Errorf("no result %d (have %d)", n, len(results))
	}
	return results[n-1], nil
}

// Form is the most recently submitted search form, or the defaults.
func (s *Session) Form() query.Raw {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Add adds the n'th result to the playlist.
func (s *Session) Add(n int) (data.Track, error) {
	track, err := s.Result(n)
	if err != nil {
		return data.Track{}, err
	}
	return track, s.Playlist.Add(track)
}

// Toggle plays or pauses the track's preview.
func (s *Session) Toggle(track data.Track) (playback.State, error) {
	return s.Playback.Toggle(track.ID, track.PreviewURL)
}
