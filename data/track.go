package data

import "time"

// Track is one catalog item, as returned by a search or stored in the
// playlist. ID is the only identity: two Tracks with the same ID are the same
// track even when other fields differ.
type Track struct {
	ID int64 `json:"id"`

	// like "Harder, Better, Faster, Stronger"
	Title          string `json:"title,omitempty"`
	ArtistName     string `json:"artistName,omitempty"`
	CollectionName string `json:"collectionName,omitempty"`

	// Prices are in minor currency units (cents for USD). Either may be
	// absent; see PriceMinor.
	TrackPriceMinor      *int64 `json:"trackPriceMinor,omitempty"`
	CollectionPriceMinor *int64 `json:"collectionPriceMinor,omitempty"`

	// like "USD"
	Currency string `json:"currency,omitempty"`

	ReleaseDate *time.Time `json:"releaseDate,omitempty"`

	// An empty PreviewURL means the track can't be previewed.
	PreviewURL string `json:"previewUrl,omitempty"`
	ArtworkURL string `json:"artworkUrl,omitempty"`

	DurationMillis *int64 `json:"durationMillis,omitempty"`
	Genre          string `json:"genre,omitempty"`

	// like "song", "podcast", "feature-movie"
	Kind string `json:"kind,omitempty"`

	// like "explicit", "cleaned", "notExplicit"
	Explicit string `json:"explicit,omitempty"`

	ViewURL     string `json:"viewUrl,omitempty"`
	Description string `json:"description,omitempty"`
}

// PriceMinor is the effective price of the track: the track price if there
// is one, else the collection price, else zero.
func (t *Track) PriceMinor() int64 {
	if t.TrackPriceMinor != nil {
		return *t.TrackPriceMinor
	}
	if t.CollectionPriceMinor != nil {
		return *t.CollectionPriceMinor
	}
	return 0
}

// HasPrice reports whether either price is known.
func (t *Track) HasPrice() bool {
	return t.TrackPriceMinor != nil || t.CollectionPriceMinor != nil
}

func (t *Track) HasPreview() bool {
	return t.PreviewURL != ""
}

// Minor converts a decimal amount like 1.29 into minor units (129).
func Minor(amount float64) int64 {
	if amount < 0 {
		return -Minor(-amount)
	}
	return int64(amount*100 + 0.5)
}

// IDs lists the ids of the given tracks, in order.
func IDs(tracks []Track) []int64 {
	ids := make([]int64, len(tracks))
	for i, track := range tracks {
		ids[i] = track.ID
	}
	return ids
}
