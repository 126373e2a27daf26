// Package order sorts search results for display.
package order

import (
	"fmt"
	"sort"

	"github.com/amonks/musik/choice"
	"github.com/amonks/musik/data"
)

type Key string

const (
	None        Key = "none"
	ReleaseDate Key = "releaseDate"
	Price       Key = "price"
)

var Keys = choice.New(string(None), string(ReleaseDate), string(Price))

// ParseKey accepts "" as None.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return None, nil
	}
	if !Keys.Has(s) {
		return None, fmt.Errorf("unknown sort key '%s' (want one of %s)", s, Keys)
	}
	return Key(s), nil
}

// Sort returns a sorted copy of tracks; tracks itself is left alone. The
// sort is stable, so equal tracks keep their relative order and sorting
// twice gives the same result as sorting once.
//
//   - ReleaseDate: newest first; tracks with no date go last.
//   - Price: cheapest first, by data.Track.PriceMinor.
//   - None (and anything else): the order tracks came in.
func Sort(tracks []data.Track, key Key) []data.Track {
	sorted := make([]data.Track, len(tracks))
	copy(sorted, tracks)

	switch key {
	case ReleaseDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i].ReleaseDate, sorted[j].ReleaseDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.After(*b)
			}
		})
	case Price:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].PriceMinor() < sorted[j].PriceMinor()
		})
	}

	return sorted
}
