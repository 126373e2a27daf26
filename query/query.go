// Package query validates search form input and turns it into a Query the
// catalog client can send.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/amonks/musik/choice"
)

const (
	MinKeyword = 2
	MaxKeyword = 100
	MinLimit   = 1
	MaxLimit   = 200
)

const (
	ExplicitAll = "all"
	ExplicitYes = "yes"
	ExplicitNo  = "no"
)

var (
	MediaTypes = choice.New("music", "movie", "podcast", "musicVideo", "audiobook", "tvShow", "ebook")
	Countries  = choice.New("US", "GB", "CA", "AU", "JP", "KR", "ID", "SG", "MY", "TH")
	Explicit   = choice.New(ExplicitAll, ExplicitYes, ExplicitNo)
)

// Raw is the search form as the user filled it in: every field is a string.
type Raw struct {
	Keyword   string
	MediaType string
	Country   string
	Limit     string
	Explicit  string
}

// Defaults is the state of a freshly reset form.
func Defaults() Raw {
	return Raw{
		Keyword:   "",
		MediaType: "music",
		Country:   "US",
		Limit:     "25",
		Explicit:  ExplicitAll,
	}
}

// Query is a validated search. It is only built by Validate and is passed
// around by value.
type Query struct {
	Keyword   string
	MediaType string
	Country   string
	Limit     int
	Explicit  string
}

// FieldErrors maps a form field name ("keyword", "mediaType", "country",
// "limit", "explicit") to a message for the user.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	msgs := make([]string, len(fields))
	for i, field := range fields {
		msgs[i] = fmt.Sprintf("%s: %s", field, fe[field])
	}
	return "invalid search: " + strings.Join(msgs, "; ")
}

// Validate checks every field of raw and either returns a Query or a
// FieldErrors holding one message per bad field.
func Validate(raw Raw) (Query, error) {
	errs := FieldErrors{}

	keyword := strings.TrimSpace(raw.Keyword)
	switch n := utf8.RuneCountInString(keyword); {
	case n == 0:
		errs["keyword"] = "Search keyword is required"
	case n < MinKeyword:
		errs["keyword"] = fmt.Sprintf("Keyword must be at least %d characters", MinKeyword)
	case n > MaxKeyword:
		errs["keyword"] = fmt.Sprintf("Keyword must be at most %d characters", MaxKeyword)
	}

	mediaType := strings.TrimSpace(raw.MediaType)
	if !MediaTypes.Has(mediaType) {
		errs["mediaType"] = "Please select a media type"
	}

	country := strings.ToUpper(strings.TrimSpace(raw.Country))
	if !Countries.Has(country) {
		errs["country"] = "Please select a country"
	}

	limit, err := strconv.Atoi(strings.TrimSpace(raw.Limit))
	if err != nil || limit < MinLimit || limit > MaxLimit {
		errs["limit"] = fmt.Sprintf("Limit must be between %d and %d", MinLimit, MaxLimit)
	}

	explicit := strings.ToLower(strings.TrimSpace(raw.Explicit))
	if explicit == "" {
		explicit = ExplicitAll
	}
	if !Explicit.Has(explicit) {
		errs["explicit"] = "Please choose all, yes, or no"
	}

	if len(errs) > 0 {
		return Query{}, errs
	}

	return Query{
		Keyword:   keyword,
		MediaType: mediaType,
		Country:   country,
		Limit:     limit,
		Explicit:  explicit,
	}, nil
}

// Set changes one form field by name, as used by the shell's "name=value"
// arguments. It accepts the field names FieldErrors uses plus the short
// aliases "media" and "q".
func (raw *Raw) Set(field, value string) error {
	switch field {
	case "keyword", "q":
		raw.Keyword = value
	case "mediaType", "media":
		raw.MediaType = value
	case "country":
		raw.Country = value
	case "limit":
		raw.Limit = value
	case "explicit":
		raw.Explicit = value
	default:
		return fmt.Errorf("unknown field '%s'", field)
	}
	return nil
}
