// Package config handles application configuration from flags and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// Config holds the application configuration.
type Config struct {
	SlackBotToken    string
	SlackAppToken    string
	DatabasePath     string
	RulesPath        string
	ReactionEmoji    string
	Language         string
	PollInterval     time.Duration
	BotName          string
	LogLevel         string
	MetricsAddr      string
	RefreshDirectory bool
}

// Flags returns the command-line flags, each bound to its environment variable.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "slack-bot-token",
			Usage:   "bot token (xoxb-...) for the Web API",
			EnvVars: []string{"SLACK_BOT_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "slack-app-token",
			Usage:   "app-level token (xapp-...) for socket mode",
			EnvVars: []string{"SLACK_APP_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "db",
			Usage:   "path to sqlite database",
			Value:   "./data/groundhog.db",
			EnvVars: []string{"DATABASE_PATH"},
		},
		&cli.StringFlag{
			Name:    "rules",
			Usage:   "path to the JSON rules file",
			EnvVars: []string{"RULES_PATH"},
		},
		&cli.StringFlag{
			Name:    "reaction",
			Usage:   "emoji added to messages with an already seen link",
			Value:   "exclamation",
			EnvVars: []string{"REACTION_EMOJI"},
		},
		&cli.StringFlag{
			Name:    "lang",
			Usage:   "reply language (en, pl)",
			Value:   "en",
			EnvVars: []string{"BOT_LANGUAGE"},
		},
		&cli.DurationFlag{
			Name:    "poll-interval",
			Usage:   "delay between event fetch cycles",
			Value:   time.Second,
			EnvVars: []string{"POLL_INTERVAL"},
		},
		&cli.StringFlag{
			Name:    "bot-name",
			Usage:   "username shown on posted replies",
			Value:   "GroundhogBot",
			EnvVars: []string{"BOT_NAME"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn or error",
			Value:   "info",
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "metrics-addr",
			Usage:   "listen address for /metrics, empty to disable",
			EnvVars: []string{"METRICS_ADDR"},
		},
		&cli.BoolFlag{
			Name:    "refresh-directory",
			Usage:   "re-sync members and channels even when a snapshot exists",
			EnvVars: []string{"REFRESH_DIRECTORY"},
		},
	}
}

// FromCLI reads the parsed flags into a validated Config.
func FromCLI(cctx *cli.Context) (*Config, error) {
	cfg := &Config{
		SlackBotToken:    strings.TrimSpace(cctx.String("slack-bot-token")),
		SlackAppToken:    strings.TrimSpace(cctx.String("slack-app-token")),
		DatabasePath:     cctx.String("db"),
		RulesPath:        cctx.String("rules"),
		ReactionEmoji:    strings.Trim(strings.TrimSpace(cctx.String("reaction")), ":"),
		Language:         cctx.String("lang"),
		PollInterval:     cctx.Duration("poll-interval"),
		BotName:          cctx.String("bot-name"),
		LogLevel:         cctx.String("log-level"),
		MetricsAddr:      cctx.String("metrics-addr"),
		RefreshDirectory: cctx.Bool("refresh-directory"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can start the bot.
func (c *Config) Validate() error {
	if c.SlackBotToken == "" {
		return errors.New("SLACK_BOT_TOKEN is required")
	}
	if c.SlackAppToken == "" {
		return errors.New("SLACK_APP_TOKEN is required")
	}
	if !strings.HasPrefix(c.SlackAppToken, "xapp-") {
		return fmt.Errorf("SLACK_APP_TOKEN must start with %q", "xapp-")
	}
	if c.DatabasePath == "" {
		return errors.New("DATABASE_PATH must not be empty")
	}
	if c.ReactionEmoji == "" {
		return errors.New("REACTION_EMOJI must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid POLL_INTERVAL %s: must be positive", c.PollInterval)
	}
	return nil
}
