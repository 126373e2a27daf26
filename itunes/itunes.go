// Package itunes searches the public iTunes catalog and turns what it
// returns into data.Tracks.
package itunes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/musik/data"
	"github.com/amonks/musik/limiter"
	"github.com/amonks/musik/query"
	"github.com/amonks/musik/request"
	"go.uber.org/zap"
)

// HTTPError means the catalog answered with a non-2xx status.
type HTTPError struct {
	Status int
	Err    error
}

func (err *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", err.Status)
}

func (err *HTTPError) Unwrap() error { return err.Err }

// NetworkError means we never got a usable answer: the request failed in
// transport, was canceled, or the body could not be decoded.
type NetworkError struct {
	Message string
	Err     error
}

func (err *NetworkError) Error() string { return err.Message }

func (err *NetworkError) Unwrap() error { return err.Err }

// currencies is used when a result doesn't say what currency it's priced in.
var currencies = map[string]string{
	"US": "USD", "GB": "GBP", "CA": "CAD", "AU": "AUD", "JP": "JPY",
	"KR": "KRW", "ID": "IDR", "SG": "SGD", "MY": "MYR", "TH": "THB",
}

// New creates a catalog client for the search endpoint at endpoint. A nil
// httpClient means http.DefaultClient; a nil lim means no pacing.
func New(endpoint string, httpClient *http.Client, lim *limiter.Limiter, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if lim == nil {
		lim = limiter.New("", 0, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		http:     httpClient,
		lim:      lim,
		logger:   logger,
	}
}

type Client struct {
	endpoint string
	http     *http.Client
	lim      *limiter.Limiter
	logger   *zap.Logger
}

// URL builds the GET request for q. Parameters come in a fixed order:
// term, media, country, limit, then explicit (only when q.Explicit is not
// "all").
func (c *Client) URL(q query.Query) string {
	params := [][2]string{
		{"term", q.Keyword},
		{"media", q.MediaType},
		{"country", q.Country},
		{"limit", strconv.Itoa(q.Limit)},
	}
	switch q.Explicit {
	case query.ExplicitYes:
		params = append(params, [2]string{"explicit", "Yes"})
	case query.ExplicitNo:
		params = append(params, [2]string{"explicit", "No"})
	}

	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param[0] + "=" + escape(param[1])
	}

	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + strings.Join(parts, "&")
}

// escape percent-encodes s for a query string, with spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Search runs q against the catalog. It blocks until the catalog answers or
// ctx is done. No results is not an error: the slice is empty and err is
// nil. Failures are *HTTPError or *NetworkError.
func (c *Client) Search(ctx context.Context, q query.Query) ([]data.Track, error) {
	if err := c.lim.Wait(ctx); err != nil {
		return nil, &NetworkError{Message: fmt.Sprintf("request canceled: %s", err), Err: err}
	}

	u := c.URL(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{Message: fmt.Sprintf("request error: %s", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("searching catalog", zap.String("url", u))

	resp, err := c.http.Do(req)
	c.lim.Delay()
	if err != nil {
		c.logger.Warn("catalog request failed", zap.String("url", u), zap.Error(err))
		return nil, &NetworkError{Message: networkMessage(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		if err := c.lim.Backoff(resp.Header.Get("Retry-After")); err != nil {
			c.logger.Warn("error recording backoff", zap.Error(err))
		}
	}
	if err := request.Error(resp); err != nil {
		c.logger.Warn("catalog returned an error", zap.String("url", u), zap.Int("status", resp.StatusCode))
		return nil, &HTTPError{Status: resp.StatusCode, Err: err}
	}

	var results searchResults
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&results); err != nil {
		return nil, &NetworkError{Message: fmt.Sprintf("search decode error: %s", err), Err: err}
	}

	tracks := make([]data.Track, 0, len(results.Results))
	for i, item := range results.Results {
		track, ok := item.track(q.Country)
		if !ok {
			c.logger.Debug("skipping result with no id", zap.Int("index", i), zap.String("kind", item.Kind))
			continue
		}
		tracks = append(tracks, track)
	}

	c.logger.Info("catalog search done",
		zap.String("term", q.Keyword),
		zap.String("media", q.MediaType),
		zap.Int("result_count", results.ResultCount),
		zap.Int("tracks", len(tracks)))

	return tracks, nil
}

func networkMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}

type searchResults struct {
	ResultCount int
	Results     []result
}

// result is one raw catalog item. Every field may be missing.
type result struct {
	WrapperType string
	Kind        string

	TrackID      int64
	CollectionID int64

	TrackName      string
	ArtistName     string
	CollectionName string

	TrackPrice      *float64
	CollectionPrice *float64
	Currency        string

	ReleaseDate string

	PreviewURL    string
	ArtworkURL100 string
	ArtworkURL60  string

	TrackTimeMillis  *int64
	PrimaryGenreName string

	TrackExplicitness      string
	CollectionExplicitness string

	TrackViewURL      string
	CollectionViewURL string

	Description     string
	LongDescription string
}

func (r *result) track(country string) (data.Track, bool) {
	id := r.TrackID
	if id == 0 {
		id = r.CollectionID
	}
	if id == 0 {
		return data.Track{}, false
	}

	track := data.Track{
		ID:             id,
		Title:          firstNonEmpty(r.TrackName, r.CollectionName),
		ArtistName:     r.ArtistName,
		CollectionName: r.CollectionName,
		Currency:       firstNonEmpty(r.Currency, currencies[country]),
		ReleaseDate:    parseDate(r.ReleaseDate),
		PreviewURL:     r.PreviewURL,
		ArtworkURL:     firstNonEmpty(r.ArtworkURL100, r.ArtworkURL60),
		DurationMillis: r.TrackTimeMillis,
		Genre:          r.PrimaryGenreName,
		Kind:           firstNonEmpty(r.Kind, r.WrapperType),
		Explicit:       firstNonEmpty(r.TrackExplicitness, r.CollectionExplicitness),
		ViewURL:        firstNonEmpty(r.TrackViewURL, r.CollectionViewURL),
		Description:    request.Text(firstNonEmpty(r.Description, r.LongDescription)),
	}
	if r.TrackPrice != nil {
		minor := data.Minor(*r.TrackPrice)
		track.TrackPriceMinor = &minor
	}
	if r.CollectionPrice != nil {
		minor := data.Minor(*r.CollectionPrice)
		track.CollectionPriceMinor = &minor
	}
	return track, true
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
