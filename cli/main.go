// musik searches the iTunes catalog, keeps a playlist of the tracks you
// pick, and plays their previews.
//
// Settings come from the environment or a .env file; see config.Load.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/amonks/musik/config"
	"github.com/amonks/musik/db"
	"github.com/amonks/musik/filestore"
	"github.com/amonks/musik/itunes"
	"github.com/amonks/musik/limiter"
	"github.com/amonks/musik/logger"
	"github.com/amonks/musik/playback"
	"github.com/amonks/musik/player"
	"github.com/amonks/musik/playlist"
	"github.com/amonks/musik/session"
	"github.com/amonks/musik/sigctx"
	"github.com/amonks/musik/storage"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := sigctx.New()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("error building logger: %w", err)
	}
	defer log.Sync()

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	lim := limiter.New(cfg.LimiterPath(), cfg.RequestDelay, log.Named("limiter"))
	if err := lim.Load(); err != nil {
		return err
	}
	client := itunes.New(cfg.SearchURL, &http.Client{Timeout: cfg.HTTPTimeout}, lim, log.Named("itunes"))

	pl := playlist.New(kv, cfg.PlaylistKey, log.Named("playlist"))
	pl.Restore()

	out := player.New(cfg.Player, cfg.PlayerArgs, log.Named("player"))
	defer out.Close()
	ctrl := playback.New(out, log.Named("playback"))

	a := &app{
		sess:  session.New(client, pl, ctrl, log.Named("session")),
		ended: make(chan struct{}, 1),
		log:   log,
	}
	out.OnEnded(a.previewEnded)

	log.Debug("starting", zap.Strings("args", os.Args[1:]), zap.String("storage", cfg.Storage))
	return a.cli().RunContext(ctx, os.Args)
}

func openStore(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		db, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return nil, nil, fmt.Errorf("error opening database: %w", err)
		}
		return db, func() { db.Close() }, nil
	case config.StorageFile:
		fs, err := filestore.New(cfg.StoreDir(), "musik-")
		if err != nil {
			return nil, nil, fmt.Errorf("error opening store: %w", err)
		}
		return fs, func() {}, nil
	default:
		return storage.NewMemory(), func() {}, nil
	}
}

type app struct {
	sess  *session.Session
	ended chan struct{}
	log   *zap.Logger
}

// previewEnded runs on the player's goroutine when a preview finishes.
func (a *app) previewEnded() {
	a.log.Debug("preview ended")
	a.sess.Playback.Ended()
	select {
	case a.ended <- struct{}{}:
	default:
	}
}

func (a *app) cli() *cli.App {
	return &cli.App{
		Name:  "musik",
		Usage: "search the iTunes catalog and build a playlist",
		Commands: []*cli.Command{
			a.searchCommand(),
			a.playlistCommand(),
			a.playCommand(),
			a.shellCommand(),
		},
	}
}
