// Package playlist keeps the user's playlist: an ordered list of tracks with
// no two sharing an ID, saved to a storage.Store after every change.
package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/amonks/musik/data"
	"github.com/amonks/musik/storage"
	"go.uber.org/zap"
)

// ErrAlreadyPresent is returned by Add for a track whose ID is already in
// the playlist.
var ErrAlreadyPresent = errors.New("track is already in the playlist")

// errCorrupt marks stored data that could not be decoded. Restore logs it
// and starts over with an empty playlist.
var errCorrupt = errors.New("stored playlist is corrupt")

// New returns an empty playlist saved under key in kv. Call Restore to load
// what was saved before.
func New(kv storage.Store, key string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:     kv,
		key:    key,
		logger: logger,
	}
}

type Store struct {
	mu     sync.Mutex
	kv     storage.Store
	key    string
	tracks []data.Track
	logger *zap.Logger
}

// Restore replaces the in-memory playlist with the saved one and returns
// it. Missing, empty, unreadable or corrupt data all give an empty
// playlist; none of those are errors for the caller.
func (s *Store) Restore() []data.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks, err := s.load()
	if err != nil {
		s.logger.Warn("starting with an empty playlist", zap.String("key", s.key), zap.Error(err))
		tracks = nil
	}
	s.tracks = tracks

	s.logger.Debug("restored playlist", zap.Int("tracks", len(tracks)))
	return s.snapshot()
}

func (s *Store) load() ([]data.Track, error) {
	value, found, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}
	if !found || value == "" {
		return nil, nil
	}

	var stored []data.Track
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return nil, fmt.Errorf("%w: %s", errCorrupt, err)
	}

	seen := make(map[int64]struct{}, len(stored))
	tracks := make([]data.Track, 0, len(stored))
	for _, track := range stored {
		if _, dup := seen[track.ID]; dup {
			continue
		}
		seen[track.ID] = struct{}{}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// Add appends track, unless a track with the same ID is already there, in
// which case it returns ErrAlreadyPresent and changes nothing. If saving
// fails the playlist is left as it was.
func (s *Store) Add(track data.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(track.ID) >= 0 {
		return ErrAlreadyPresent
	}

	next := make([]data.Track, len(s.tracks), len(s.tracks)+1)
	copy(next, s.tracks)
	next = append(next, track)

	if err := s.save(next); err != nil {
		return err
	}
	s.tracks = next

	s.logger.Info("added track to playlist", zap.Int64("track_id", track.ID), zap.Int("tracks", len(next)))
	return nil
}

// Remove drops the track with the given ID. A missing ID is not an error.
// Removing the last track deletes the saved playlist.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil
	}

	next := make([]data.Track, 0, len(s.tracks)-1)
	next = append(next, s.tracks[:i]...)
	next = append(next, s.tracks[i+1:]...)

	if err := s.save(next); err != nil {
		return err
	}
	s.tracks = next

	s.logger.Info("removed track from playlist", zap.Int64("track_id", id), zap.Int("tracks", len(next)))
	return nil
}

// Clear empties the playlist and deletes the saved copy. Asking the user
// first is up to the caller.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(s.key); err != nil {
		return fmt.Errorf("error clearing playlist: %w", err)
	}
	s.tracks = nil

	s.logger.Info("cleared playlist")
	return nil
}

// save writes tracks under the key, or removes the key when tracks is
// empty: an empty playlist is never stored as "[]".
func (s *Store) save(tracks []data.Track) error {
	if len(tracks) == 0 {
		if err := s.kv.Remove(s.key); err != nil {
			return fmt.Errorf("error removing saved playlist: %w", err)
		}
		return nil
	}

	bs, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("error encoding playlist: %w", err)
	}
	if err := s.kv.Set(s.key, string(bs)); err != nil {
		return fmt.Errorf("error saving playlist: %w", err)
	}
	return nil
}

func (s *Store) index(id int64) int {
	for i, track := range s.tracks {
		if track.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []data.Track {
	tracks := make([]data.Track, len(s.tracks))
	copy(tracks, s.tracks)
	return tracks
}

// Tracks returns a copy of the playlist in insertion order.
func (s *Store) Tracks() []data.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tracks)
}

func (s *Store) Has(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index(id) >= 0
}

// Get returns the track with the given ID, if it's in the playlist.
func (s *Store) Get(id int64) (data.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.tracks[i], true
	}
	return data.Track{}, false
}

// Total is the summed effective price of the playlist's tracks in one
// currency.
type Total struct {
	Currency    string
	AmountMinor int64
}

// Totals sums the effective price of every track, per currency, ordered by
// currency code. Tracks with no currency are summed under "".
func (s *Store) Totals() []Total {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := map[string]int64{}
	for _, track := range s.tracks {
		sums[track.Currency] += track.PriceMinor()
	}

	totals := make([]Total, 0, len(sums))
	for currency, amount := range sums {
		totals = append(totals, Total{Currency: currency, AmountMinor: amount})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Currency < totals[j].Currency })
	return totals
}
