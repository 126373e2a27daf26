package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/amonks/musik/data"
	"github.com/amonks/musik/playback"
	"github.com/amonks/musik/playlist"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var humanPrinter = message.NewPrinter(language.English)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const na = "N/A"

func heading(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, headingStyle.Render(humanPrinter.Sprintf(format, args...)))
}

func failure(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("⚠ "+msg))
}

func notice(w io.Writer, msg string) {
	fmt.Fprintln(w, noticeStyle.Render(msg))
}

func printResults(w io.Writer, tracks []data.Track, state playback.State) {
	heading(w, "Search Results (%d)", len(tracks))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{
		"#", "id", "track", "artist", "album", "price", "release date", "genre", "explicit", "preview",
	}, "\t"))
	for i, track := range tracks {
		fmt.Fprintln(tw, strings.Join([]string{
			fmt.Sprint(i + 1),
			fmt.Sprint(track.ID),
			truncate(track.Title, 40),
			truncate(track.ArtistName, 30),
			truncate(track.CollectionName, 30),
			price(track),
			releaseDate(track.ReleaseDate),
			orNA(track.Genre),
			orNA(track.Explicit),
			previewState(track, state),
		}, "\t"))
	}
	tw.Flush()
}

func printPlaylist(w io.Writer, tracks []data.Track, totals []playlist.Total, state playback.State) {
	if len(tracks) == 0 {
		fmt.Fprintln(w, "Your playlist is empty")
		fmt.Fprintln(w, mutedStyle.Render("Search and add tracks to build your playlist"))
		return
	}

	heading(w, "My Playlist (%d tracks)", len(tracks))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{
		"id", "track", "artist", "album", "genre", "duration", "year", "price", "preview",
	}, "\t"))
	for _, track := range tracks {
		fmt.Fprintln(tw, strings.Join([]string{
			fmt.Sprint(track.ID),
			orDefault(track.Title, "Unknown Track"),
			orDefault(track.ArtistName, "Unknown Artist"),
			orDefault(track.CollectionName, "Unknown Album"),
			orNA(track.Genre),
			duration(track.DurationMillis),
			year(track.ReleaseDate),
			price(track),
			previewState(track, state),
		}, "\t"))
	}
	tw.Flush()

	humanPrinter.Fprintf(w, "\nTotal Tracks: %d\n", len(tracks))
	fmt.Fprintf(w, "Total Price: %s\n", totalPrice(totals))
}

func printTrack(w io.Writer, track data.Track, state playback.State) {
	heading(w, "%s", orDefault(track.Title, "Unknown Track"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"id", fmt.Sprint(track.ID)},
		{"artist", orDefault(track.ArtistName, "Unknown Artist")},
		{"album", orDefault(track.CollectionName, "Unknown Album")},
		{"kind", orNA(track.Kind)},
		{"genre", orNA(track.Genre)},
		{"duration", duration(track.DurationMillis)},
		{"released", releaseDate(track.ReleaseDate)},
		{"price", price(track)},
		{"explicit", orNA(track.Explicit)},
		{"preview", previewState(track, state)},
		{"artwork", orNA(track.ArtworkURL)},
		{"link", orNA(track.ViewURL)},
	} {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	tw.Flush()
	if track.Description != "" {
		fmt.Fprintf(w, "\n%s\n", track.Description)
	}
}

func previewState(track data.Track, state playback.State) string {
	switch {
	case !track.HasPreview():
		return "-"
	case state.Playing && state.ID == track.ID:
		return "⏸ playing"
	default:
		return "▶"
	}
}

func truncate(s string, n int) string {
	if s == "" {
		return na
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func orNA(s string) string {
	return orDefault(s, na)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func releaseDate(t *time.Time) string {
	if t == nil {
		return na
	}
	return t.Format("Jan 2, 2006")
}

func year(t *time.Time) string {
	if t == nil {
		return na
	}
	return fmt.Sprint(t.Year())
}

// duration formats milliseconds as m:ss.
func duration(ms *int64) string {
	if ms == nil || *ms <= 0 {
		return na
	}
	seconds := *ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func price(track data.Track) string {
	if !track.HasPrice() {
		return na
	}
	return money(track.PriceMinor(), track.Currency)
}

// money formats an amount in minor units, using the currency's symbol when
// the code is one x/text knows.
func money(minor int64, code string) string {
	amount := float64(minor) / 100
	unit, err := currency.ParseISO(code)
	if err != nil {
		if code == "" {
			code = "$"
		}
		return humanPrinter.Sprintf("%s%.2f", code, amount)
	}
	return humanPrinter.Sprint(currency.Symbol(unit.Amount(amount)))
}

func totalPrice(totals []playlist.Total) string {
	if len(totals) == 0 {
		return money(0, "")
	}
	parts := make([]string, len(totals))
	for i, total := range totals {
		parts[i] = money(total.AmountMinor, total.Currency)
	}
	return strings.Join(parts, " + ")
}
