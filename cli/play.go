package main

import (
	"errors"
	"fmt"

	"github.com/amonks/musik/playback"
	"github.com/urfave/cli/v2"
)

func (a *app) playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "play a playlist track's preview until it ends",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("play needs exactly one track id")
			}
			id, err := parseID(c.Args().First())
			if err != nil {
				return err
			}
			track, ok := a.sess.Playlist.Get(id)
			if !ok {
				return fmt.Errorf("track %d is not in the playlist", id)
			}

			if _, err := a.sess.Toggle(track); errors.Is(err, playback.ErrNoPreview) {
				failure(c.App.Writer, "No preview available for this track")
				return nil
			} else if err != nil {
				return err
			}
			notice(c.App.Writer, fmt.Sprintf("▶ %s", orDefault(track.Title, "Unknown Track")))

			select {
			case <-a.ended:
				return nil
			case <-c.Context.Done():
				if err := a.sess.Playback.Stop(); err != nil {
					return err
				}
				return c.Context.Err()
			}
		},
	}
}
