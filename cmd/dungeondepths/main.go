// Package main is the entry point for Dungeon Depths.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/dungeondepths/internal/config"
	"github.com/samdwyer/dungeondepths/internal/engine"
	"github.com/samdwyer/dungeondepths/internal/game"
	"github.com/samdwyer/dungeondepths/internal/gamedata"
	"github.com/samdwyer/dungeondepths/internal/logging"
	"github.com/samdwyer/dungeondepths/internal/rng"
	"github.com/samdwyer/dungeondepths/internal/save"
	"github.com/samdwyer/dungeondepths/internal/telemetry"
	"github.com/samdwyer/dungeondepths/internal/ui"
	"github.com/samdwyer/dungeondepths/internal/world"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dungeondepths:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Load .env file for local development. Not fatal: env vars might be set directly.
	envErr := godotenv.Load()

	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logFile := cfg.Log.File
	if cfg.Dump {
		logFile = ""
	}
	log, closer, err := logging.New(logging.Options{File: logFile, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer closer.Close()
	if envErr != nil {
		log.WithError(envErr).Debug(".env file not loaded")
	}

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		telemetry.ConfigureHoneycombEnv()
		shutdown, err := telemetry.Setup(ctx, telemetry.Options{SampleRatio: cfg.Telemetry.SampleRatio})
		if err != nil {
			log.WithError(err).Warn("telemetry setup failed, running without observability")
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.WithError(err).Error("telemetry shutdown failed")
				}
			}()
		}
	}

	content, err := gamedata.LoadContent(cfg.ContentPath)
	if err != nil {
		return err
	}
	procgen, err := gamedata.LoadProcgen(cfg.ProcgenPath)
	if err != nil {
		return err
	}

	engineCfg := engine.Config{
		Registry:    content.EnemyRegistry(),
		Procgen:     procgen,
		MaxAttempts: cfg.Generation.MaxAttempts,
		Logger:      log,
	}
	if cfg.Generation.Cache {
		cache, err := world.NewLevelCache(cfg.Generation.CacheSize)
		if err != nil {
			return err
		}
		defer cache.Close()
		engineCfg.Cache = cache
	}

	seed := cfg.Seed
	if !cfg.SeedSet {
		seed = rng.EntropySeed()
	}

	if cfg.Dump {
		eng, err := engine.New(ctx, seed, engineCfg)
		if err != nil {
			return err
		}
		fmt.Print(ui.RenderText(eng.Snapshot()))
		return nil
	}

	store, err := openStore(ctx, cfg.Save)
	if err != nil {
		return err
	}
	saves := save.NewManager(store, engineCfg, log)
	defer saves.Close()

	var eng *engine.Engine
	if cfg.Load {
		eng, err = saves.Load(ctx, cfg.Save.Slot)
	} else {
		eng, err = engine.New(ctx, seed, engineCfg)
	}
	if err != nil {
		return err
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	g := game.New(screen, eng, saves, cfg.Save.Slot, log)

	log.WithFields(logrus.Fields{
		"seed":    g.Engine().Seed(),
		"session": g.Engine().ID(),
		"slot":    cfg.Save.Slot,
	}).Info("game starting")

	err = g.Run(ctx)
	g.Close()
	if g.State() == game.StateDefeated {
		fmt.Printf("%s\nDefeated at depth %d.\n", g.Message(), g.Engine().Depth())
	}
	return err
}

func openStore(ctx context.Context, cfg config.SaveConfig) (save.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return save.NewPostgresStore(ctx, cfg.DSN)
	default:
		return save.NewFileStore(cfg.Path)
	}
}
