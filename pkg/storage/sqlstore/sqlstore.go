// Package sqlstore holds the database/sql turn archive shared by the
// sqlite and postgres drivers.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/storage"
)

// Dialect captures the differences between supported databases.
type Dialect struct {
	Name string

	// Numbered placeholders ($1) instead of ?.
	Numbered bool

	// InsertIgnore is the conflict clause appended to the insert.
	InsertIgnore string
}

var (
	SQLite = Dialect{
		Name:         "sqlite",
		InsertIgnore: "ON CONFLICT(id) DO NOTHING",
	}
	Postgres = Dialect{
		Name:         "postgres",
		Numbered:     true,
		InsertIgnore: "ON CONFLICT (id) DO NOTHING",
	}
)

const schema = `CREATE TABLE IF NOT EXISTS turns (
	id             TEXT PRIMARY KEY,
	user_text      TEXT NOT NULL,
	assistant_text TEXT NOT NULL,
	emotion        TEXT NOT NULL,
	autonomous     BOOLEAN NOT NULL,
	started_at     BIGINT NOT NULL,
	completed_at   BIGINT NOT NULL
)`

const index = `CREATE INDEX IF NOT EXISTS turns_completed_at ON turns (completed_at)`

// Driver provides archive operations over a *sql.DB. It is embedded by
// the concrete drivers.
type Driver struct {
	DB      *sql.DB
	Dialect Dialect
}

// Migrate creates the turns table and its index.
func (d *Driver) Migrate(ctx context.Context) error {
	for _, stmt := range []string{schema, index} {
		if _, err := d.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (d *Driver) Put(ctx context.Context, t *storage.Turn) (bool, error) {
	if t == nil {
		return false, storage.ErrNilTurn
	}

	q := d.rebind("INSERT INTO turns (id, user_text, assistant_text, emotion, autonomous, started_at, completed_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?) " + d.Dialect.InsertIgnore)
	res, err := d.DB.ExecContext(ctx, q,
		t.ID, t.UserText, t.AssistantText, t.Emotion, t.Autonomous,
		t.StartedAt.UnixNano(), t.CompletedAt.UnixNano(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert turn: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (d *Driver) Get(ctx context.Context, id string) (*storage.Turn, error) {
	row := d.DB.QueryRowContext(ctx, d.rebind(selectColumns+" WHERE id = ?"), id)
	t, err := scanTurn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get turn: %w", err)
	}
	return t, nil
}

func (d *Driver) List(ctx context.Context, limit int) ([]*storage.Turn, error) {
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	rows, err := d.DB.QueryContext(ctx,
		d.rebind(selectColumns+" ORDER BY completed_at DESC, id DESC LIMIT ?"), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var out []*storage.Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *Driver) Close() error {
	return d.DB.Close()
}

const selectColumns = "SELECT id, user_text, assistant_text, emotion, autonomous, started_at, completed_at FROM turns"

type scanner interface {
	Scan(dest ...any) error
}

func scanTurn(s scanner) (*storage.Turn, error) {
	var (
		t                  storage.Turn
		started, completed int64
	)
	if err := s.Scan(&t.ID, &t.UserText, &t.AssistantText, &t.Emotion, &t.Autonomous, &started, &completed); err != nil {
		return nil, err
	}
	t.StartedAt = time.Unix(0, started).UTC()
	t.CompletedAt = time.Unix(0, completed).UTC()
	return &t, nil
}

// rebind rewrites ? placeholders for dialects with numbered parameters.
func (d *Driver) rebind(q string) string {
	if !d.Dialect.Numbered {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ storage.Driver = (*Driver)(nil)
