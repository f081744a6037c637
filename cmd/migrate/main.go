package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"
	_ "modernc.org/sqlite"

	"groundhog/migrations"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the groundhog database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to sqlite database",
				Value:   "./data/groundhog.db",
				EnvVars: []string{"DATABASE_PATH"},
			},
		},
		Commands: []*cli.Command{
			gooseCmd("up", "Migrate to the latest version", goose.Up),
			gooseCmd("up-one", "Migrate one version up", goose.UpByOne),
			gooseCmd("down", "Roll back one version", goose.Down),
			gooseCmd("status", "Show migration status", goose.Status),
			gooseCmd("version", "Show current version", goose.Version),
			gooseCmd("reset", "Roll back all migrations", goose.Reset),
		},
	}
	if err := app.Run(os.Args); err != nil {
		slog.Error("migrate", "error", err)
		os.Exit(1)
	}
}

type gooseFunc func(db *sql.DB, dir string, opts ...goose.OptionsFunc) error

func gooseCmd(name, usage string, fn gooseFunc) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(cctx *cli.Context) error {
			db, err := sql.Open("sqlite", cctx.String("db"))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect("sqlite3"); err != nil {
				return fmt.Errorf("set dialect: %w", err)
			}
			if err := fn(db, "."); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		},
	}
}
