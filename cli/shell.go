package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/amonks/musik/data"
	"github.com/amonks/musik/order"
	"github.com/amonks/musik/playback"
	"github.com/amonks/musik/query"
	"github.com/amonks/musik/session"
	"github.com/urfave/cli/v2"
)

func (a *app) shellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "search, sort, play and keep a playlist interactively",
		Action: func(c *cli.Context) error {
			return runShell(c.Context, os.Stdin, c.App.Writer, a.sess)
		},
	}
}

var shellHelp = [][2]string{
	{"search [keyword...]", "search with the current form, optionally setting the keyword"},
	{"set field=value...", "change the form: keyword (q), mediaType (media), country, limit, explicit"},
	{"reset", "put the form back to its defaults"},
	{"form", "show the form"},
	{"sort none|releaseDate|price", "reorder the results"},
	{"results", "show the results again"},
	{"info <row>", "show everything about a result"},
	{"add <row...>", "add results to the playlist"},
	{"remove <id...>", "remove tracks from the playlist"},
	{"clear", "empty the playlist"},
	{"playlist", "show the playlist"},
	{"play <id>", "play or pause a preview from the results or playlist"},
	{"stop", "stop the preview"},
	{"help", "show this"},
	{"quit", "leave"},
}

type shell struct {
	sess *session.Session
	form query.Raw
	in   *bufio.Scanner
	out  io.Writer
}

var errQuit = errors.New("quit")

// runShell reads commands from in until it's exhausted, ctx is done, or
// the user quits.
func runShell(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session) error {
	sh := &shell{
		sess: sess,
		form: sess.Form(),
		in:   bufio.NewScanner(in),
		out:  out,
	}

	fmt.Fprintln(out, mutedStyle.Render("type 'help' for commands"))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, "musik> ")
		line, ok := sh.readLine()
		if !ok {
			fmt.Fprintln(out)
			return sh.in.Err()
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		err := sh.exec(ctx, fields[0], fields[1:])
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			failure(out, err.Error())
		}
	}
}

func (sh *shell) readLine() (string, bool) {
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

func (sh *shell) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "search", "s":
		if len(args) > 0 {
			sh.form.Keyword = strings.Join(args, " ")
		}
		return sh.search(ctx)

	case "set":
		return sh.set(args)

	case "reset":
		sh.form = query.Defaults()
		sh.printForm()

	case "form":
		sh.printForm()

	case "sort":
		if len(args) != 1 {
			return fmt.Errorf("usage: sort %s", strings.Join(order.Keys.Options(), "|"))
		}
		key, err := order.ParseKey(args[0])
		if err != nil {
			return err
		}
		sh.printResults(sh.sess.Sort(key))

	case "results", "r":
		sh.printResults(sh.sess.Results())

	case "info":
		rows, err := parseRows(args)
		if err != nil {
			return err
		}
		for _, n := range rows {
			track, err := sh.sess.Result(n)
			if err != nil {
				return err
			}
			printTrack(sh.out, track, sh.sess.Playback.State())
		}

	case "add", "a":
		rows, err := parseRows(args)
		if err != nil {
			return err
		}
		for _, n := range rows {
			addResult(sh.out, sh.sess, n)
		}

	case "remove", "rm":
		if len(args) == 0 {
			return fmt.Errorf("usage: remove <id...>")
		}
		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			if err := sh.sess.Playlist.Remove(id); err != nil {
				return err
			}
		}
		sh.printPlaylist()

	case "clear":
		fmt.Fprintf(sh.out, "%s [y/N] ", clearPrompt)
		answer, _ := sh.readLine()
		switch strings.ToLower(answer) {
		case "y", "yes":
			if err := sh.sess.Playlist.Clear(); err != nil {
				return err
			}
			notice(sh.out, "Playlist cleared")
		}

	case "playlist", "p":
		sh.printPlaylist()

	case "play":
		if len(args) != 1 {
			return fmt.Errorf("usage: play <id>")
		}
		return sh.play(args[0])

	case "stop":
		return sh.sess.Playback.Stop()

	case "help", "?":
		tw := tabwriter.NewWriter(sh.out, 0, 0, 2, ' ', 0)
		for _, row := range shellHelp {
			fmt.Fprintf(tw, "  %s\t%s\n", row[0], row[1])
		}
		tw.Flush()

	case "quit", "exit", "q":
		sh.sess.Playback.Stop()
		return errQuit

	default:
		return fmt.Errorf("unknown command '%s'; try 'help'", cmd)
	}
	return nil
}

func (sh *shell) search(ctx context.Context) error {
	fmt.Fprintln(sh.out, mutedStyle.Render("Searching for music..."))
	res, err := sh.sess.Submit(ctx, sh.form)
	if err != nil {
		return err
	}
	if report(sh.out, res) {
		sh.printResults(res.Tracks)
	}
	return nil
}

// set takes "field=value" arguments. Words without "=" continue the
// previous value, so "set keyword=daft punk" works.
func (sh *shell) set(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: set field=value...")
	}
	form := sh.form
	var field string
	var words []string
	flush := func() error {
		if field == "" {
			return nil
		}
		return form.Set(field, strings.Join(words, " "))
	}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			if field == "" {
				return fmt.Errorf("expected field=value, got '%s'", arg)
			}
			words = append(words, arg)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		field, words = name, []string{value}
	}
	if err := flush(); err != nil {
		return err
	}
	sh.form = form
	sh.printForm()
	return nil
}

func (sh *shell) play(arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	track, ok := sh.find(id)
	if !ok {
		return fmt.Errorf("no track %d in the results or playlist", id)
	}

	state, err := sh.sess.Toggle(track)
	if errors.Is(err, playback.ErrNoPreview) {
		return fmt.Errorf("No preview available for this track")
	} else if err != nil {
		return err
	}

	name := orDefault(track.Title, "Unknown Track")
	if state.Playing {
		notice(sh.out, "▶ "+name)
	} else {
		notice(sh.out, "⏸ "+name)
	}
	return nil
}

func (sh *shell) find(id int64) (data.Track, bool) {
	if track, ok := sh.sess.Playlist.Get(id); ok {
		return track, true
	}
	for _, track := range sh.sess.Results() {
		if track.ID == id {
			return track, true
		}
	}
	return data.Track{}, false
}

func (sh *shell) printForm() {
	tw := tabwriter.NewWriter(sh.out, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"keyword", sh.form.Keyword},
		{"mediaType", sh.form.MediaType},
		{"country", sh.form.Country},
		{"limit", sh.form.Limit},
		{"explicit", sh.form.Explicit},
	} {
		fmt.Fprintf(tw, "  %s\t%s\n", row[0], row[1])
	}
	tw.Flush()
}

func (sh *shell) printResults(tracks []data.Track) {
	if len(tracks) == 0 {
		fmt.Fprintln(sh.out, "no results; try 'search <keyword>'")
		return
	}
	printResults(sh.out, tracks, sh.sess.Playback.State())
}

func (sh *shell) printPlaylist() {
	pl := sh.sess.Playlist
	printPlaylist(sh.out, pl.Tracks(), pl.Totals(), sh.sess.Playback.State())
}

func parseRows(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expected one or more result rows")
	}
	rows := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid row '%s'", arg)
		}
		rows[i] = n
	}
	return rows, nil
}
