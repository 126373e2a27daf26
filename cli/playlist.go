package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"
)

const clearPrompt = "Are you sure you want to clear your entire playlist?"

func (a *app) playlistCommand() *cli.Command {
	list := func(c *cli.Context) error {
		pl := a.sess.Playlist
		printPlaylist(c.App.Writer, pl.Tracks(), pl.Totals(), a.sess.Playback.State())
		return nil
	}

	return &cli.Command{
		Name:   "playlist",
		Usage:  "show or change the playlist",
		Action: list,
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "show the playlist",
				Action: list,
			},
			{
				Name:      "remove",
				Usage:     "remove tracks from the playlist",
				ArgsUsage: "<id...>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("remove needs at least one track id")
					}
					for _, arg := range c.Args().Slice() {
						id, err := parseID(arg)
						if err != nil {
							return err
						}
						if err := a.sess.Playlist.Remove(id); err != nil {
							return err
						}
					}
					return list(c)
				},
			},
			{
				Name:  "clear",
				Usage: "remove every track from the playlist",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "don't ask for confirmation"},
				},
				Action: func(c *cli.Context) error {
					ok := c.Bool("yes")
					if !ok {
						err := huh.NewConfirm().
							Title(clearPrompt).
							Affirmative("Yes").
							Negative("No").
							Value(&ok).
							Run()
						if err != nil {
							return err
						}
					}
					if !ok {
						return nil
					}
					if err := a.sess.Playlist.Clear(); err != nil {
						return err
					}
					notice(c.App.Writer, "Playlist cleared")
					return nil
				},
			},
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid track id '%s'", s)
	}
	return id, nil
}
