package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"

	"groundhog/internal/bot"
	"groundhog/internal/config"
	"groundhog/internal/directory"
	"groundhog/internal/dispatch"
	"groundhog/internal/i18n"
	"groundhog/internal/listener"
	"groundhog/internal/metrics"
	"groundhog/internal/rules"
	"groundhog/internal/slackapi"
	"groundhog/internal/storage"
)

func main() {
	app := &cli.App{
		Name:   "groundhog",
		Usage:  "flags links that were already posted in the workspace",
		Flags:  config.Flags(),
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(cctx *cli.Context) error {
	cfg, err := config.FromCLI(cctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	defer func() { _ = store.Close() }()

	ruleSet, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return err
	}
	log.Info("rules loaded", "count", len(ruleSet), "path", cfg.RulesPath)

	texts := i18n.New(cfg.Language)
	log.Info("reply language", "lang", texts.Language())

	ctx, cancel := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := slackapi.New(cfg.SlackBotToken, cfg.SlackAppToken, cfg.BotName, log)
	id, err := client.Connect(ctx)
	if err != nil {
		return err
	}

	synced, err := directory.New(client, store, log).Ensure(ctx, cfg.RefreshDirectory)
	if err != nil {
		return fmt.Errorf("sync directory: %w", err)
	}
	if !synced {
		log.Info("directory snapshot present, skipping sync")
	}

	b := bot.New(bot.Options{
		BotUserID: id.UserID,
		BotID:     id.BotID,
		Reaction:  cfg.ReactionEmoji,
		Rules:     ruleSet,
		Texts:     texts,
	}, store, dispatch.New(client, log), log)

	go func() {
		if err := metrics.Serve(ctx, cfg.MetricsAddr, log); err != nil {
			log.Error("metrics server", "error", err)
		}
	}()

	src := slackapi.NewSource(client, log)
	sourceErr := src.Start(ctx)
	go func() {
		if err := <-sourceErr; err != nil && ctx.Err() == nil {
			log.Error("socket mode stopped", "error", err)
			cancel()
		}
	}()

	log.Info("starting listener", "poll_interval", cfg.PollInterval)
	listener.New(src, b, cfg.PollInterval, log).Run(ctx)
	log.Info("listener stopped")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
