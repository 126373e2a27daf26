package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/amonks/musik/order"
	"github.com/amonks/musik/playlist"
	"github.com/amonks/musik/query"
	"github.com/amonks/musik/session"
	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var errInvalidSearch = errors.New("invalid search")

func (a *app) searchCommand() *cli.Command {
	defaults := query.Defaults()
	var (
		media    = query.MediaTypes.Flag(defaults.MediaType)
		country  = query.Countries.Flag(defaults.Country)
		explicit = query.Explicit.Flag(defaults.Explicit)
		sortKey  = order.Keys.Flag(string(order.None))
	)

	return &cli.Command{
		Name:      "search",
		Usage:     "search the catalog",
		ArgsUsage: "<keyword...>",
		Flags: []cli.Flag{
			&cli.GenericFlag{Name: "media", Aliases: []string{"m"}, Value: media, Usage: "media type: " + query.MediaTypes.String()},
			&cli.GenericFlag{Name: "country", Aliases: []string{"c"}, Value: country, Usage: "store country: " + query.Countries.String()},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 25, Usage: fmt.Sprintf("number of results, %d to %d", query.MinLimit, query.MaxLimit)},
			&cli.GenericFlag{Name: "explicit", Value: explicit, Usage: "explicit content: " + query.Explicit.String()},
			&cli.GenericFlag{Name: "sort", Aliases: []string{"s"}, Value: sortKey, Usage: "result order: " + order.Keys.String()},
			&cli.IntSliceFlag{Name: "add", Aliases: []string{"a"}, Usage: "add these result rows to the playlist"},
		},
		Action: func(c *cli.Context) error {
			raw := query.Raw{
				Keyword:   strings.Join(c.Args().Slice(), " "),
				MediaType: media.Value(),
				Country:   country.Value(),
				Limit:     strconv.Itoa(c.Int("limit")),
				Explicit:  explicit.Value(),
			}
			w := c.App.Writer

			res, err := a.submit(c.Context, raw)
			if err != nil {
				return err
			}
			if !report(w, res) {
				if res.Fields != nil {
					return errInvalidSearch
				}
				return nil
			}

			tracks := a.sess.Sort(order.Key(sortKey.Value()))
			printResults(w, tracks, a.sess.Playback.State())

			for _, n := range c.IntSlice("add") {
				addResult(w, a.sess, n)
			}
			return nil
		},
	}
}

// submit runs a search, with a spinner when stdout is a terminal.
func (a *app) submit(ctx context.Context, raw query.Raw) (session.Result, error) {
	var res session.Result
	search := func(ctx context.Context) error {
		var err error
		res, err = a.sess.Submit(ctx, raw)
		return err
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return res, search(ctx)
	}
	err := spinner.New().
		Title("Searching for music...").
		Context(ctx).
		ActionWithErr(search).
		Run()
	return res, err
}

// report prints a submission's message, if any, and says whether there are
// results to show.
func report(w io.Writer, res session.Result) bool {
	switch {
	case res.Fields != nil:
		fields := make([]string, 0, len(res.Fields))
		for _, field := range []string{"keyword", "mediaType", "country", "limit", "explicit"} {
			if msg, ok := res.Fields[field]; ok {
				fields = append(fields, fmt.Sprintf("%s: %s", field, msg))
			}
		}
		for _, f := range fields {
			failure(w, f)
		}
		return false
	case res.Err != nil, res.Empty:
		failure(w, res.Message())
		return false
	}
	return true
}

func addResult(w io.Writer, sess *session.Session, n int) {
	track, err := sess.Add(n)
	switch {
	case errors.Is(err, playlist.ErrAlreadyPresent):
		notice(w, "This track is already in your playlist!")
	case err != nil:
		failure(w, err.Error())
	default:
		notice(w, fmt.Sprintf("Added %s to playlist", orDefault(track.Title, fmt.Sprint(track.ID))))
	}
}
