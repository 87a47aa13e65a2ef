package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/customloads/internal/config"
	"github.com/udisondev/customloads/internal/data"
	"github.com/udisondev/customloads/internal/db"
	"github.com/udisondev/customloads/internal/game/ammo"
	"github.com/udisondev/customloads/internal/model"
	"github.com/udisondev/customloads/internal/registry"
	"github.com/udisondev/customloads/internal/settings"
)

const ConfigPath = "config/customloads.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer) error {
	cfgPath := ConfigPath
	if p := os.Getenv("CUSTOMLOADS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("customloads starting", "log_level", cfg.LogLevel, "storage", cfg.Storage.Driver)

	reg := registry.New()
	if cfg.DataDir != "" {
		err = data.LoadCatalogDir(ctx, reg, cfg.DataDir)
	} else {
		err = data.LoadCatalog(ctx, reg, data.DefaultCatalog())
	}
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	mgr := ammo.NewManager(reg, store, cfg.CraftCountOverride)
	if err := mgr.Load(ctx); err != nil {
		return err
	}

	rep := mgr.RegenerateAll()
	slog.Info("custom ammo regenerated",
		"registered", rep.Registered,
		"previewed", rep.Previewed,
		"errored", rep.Errored,
		"failed", rep.Failed)

	printReport(out, mgr.All())
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (ammo.DraftStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn := cfg.Storage.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		database, err := db.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		slog.Info("database connected")
		return database.Drafts(), database.Close, nil
	default:
		store, err := settings.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening draft store: %w", err)
		}
		slog.Info("draft store opened", "path", store.Path())
		return store, func() { _ = store.Close() }, nil
	}
}

func printReport(w io.Writer, loads []*ammo.CustomLoad) {
	if len(loads) == 0 {
		fmt.Fprintln(w, "no custom ammo")
		return
	}
	for _, c := range loads {
		status := "draft"
		switch {
		case c.IsErrored():
			status = "errored"
		case c.IsRegistered():
			status = "registered"
		}
		fmt.Fprintf(w, "%-10s %s\n", status, c.AmmoLabel())
		if c.IsErrored() {
			fmt.Fprintf(w, "           missing: %v\n", c.Unresolved())
			continue
		}
		if b := c.Bullet(); b != nil {
			fmt.Fprintf(w, "           %s %d, %s %s, %s %s\n",
				model.StatDamage.Info().Label, b.Damage,
				model.StatSpeed.Info().Label, model.FormatNumber(b.Speed, "0.##"),
				model.StatAPSharp.Info().Label, model.FormatNumber(b.APSharp, "0.##"))
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
