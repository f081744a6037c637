package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"groundhog/internal/model"
	"groundhog/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// InsertSeenURL records the first sighting of a URL. An existing row is never
// overwritten; the returned bool reports whether a row was written.
func (s *SQLite) InsertSeenURL(ctx context.Context, u model.SeenURL) (bool, error) {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen_urls (url, ts, user_id, channel_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.URL, u.TS, u.User, u.Channel, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert seen url: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// GetSeenURL returns the first sighting of url, if any.
func (s *SQLite) GetSeenURL(ctx context.Context, url string) (model.SeenURL, bool, error) {
	var u model.SeenURL
	err := s.db.QueryRowContext(ctx,
		`SELECT url, ts, user_id, channel_id FROM seen_urls WHERE url = ?`, url,
	).Scan(&u.URL, &u.TS, &u.User, &u.Channel)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SeenURL{}, false, nil
	}
	if err != nil {
		return model.SeenURL{}, false, fmt.Errorf("query seen url: %w", err)
	}
	return u, true, nil
}

// CountSeenURLs returns the number of distinct URLs recorded so far.
func (s *SQLite) CountSeenURLs(ctx context.Context) (int, error) {
	return s.count(ctx, "seen_urls")
}

// CountMembers returns the size of the member snapshot.
func (s *SQLite) CountMembers(ctx context.Context) (int, error) {
	return s.count(ctx, "members")
}

// ReplaceMembers swaps the member snapshot for members.
func (s *SQLite) ReplaceMembers(ctx context.Context, members []model.Member) error {
	rows := make([][2]string, len(members))
	for i, m := range members {
		rows[i] = [2]string{m.ID, m.Name}
	}
	return s.replace(ctx, "members", rows)
}

// ReplaceChannels swaps the channel snapshot for channels.
func (s *SQLite) ReplaceChannels(ctx context.Context, channels []model.Channel) error {
	rows := make([][2]string, len(channels))
	for i, c := range channels {
		rows[i] = [2]string{c.ID, c.Name}
	}
	return s.replace(ctx, "channels", rows)
}

// LookupMember resolves a member id to its display name.
func (s *SQLite) LookupMember(ctx context.Context, id string) (string, error) {
	return s.lookup(ctx, "members", id)
}

// LookupChannel resolves a channel id to its name.
func (s *SQLite) LookupChannel(ctx context.Context, id string) (string, error) {
	return s.lookup(ctx, "channels", id)
}

// table is always one of the schema's literal table names.
func (s *SQLite) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (s *SQLite) lookup(ctx context.Context, table, id string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM `+table+` WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s %q: %w", table, id, ErrUnknownEntity)
	}
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", table, err)
	}
	return name, nil
}

func (s *SQLite) replace(ctx context.Context, table string, rows [][2]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO `+table+` (id, name) VALUES (?, ?)`, r[0], r[1],
		); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return tx.Commit()
}
