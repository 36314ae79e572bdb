package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/renaltrack/backend/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS diary_days (
	user_id  TEXT NOT NULL,
	date     TEXT NOT NULL,
	totals   TEXT NOT NULL,
	entries  TEXT NOT NULL,
	PRIMARY KEY (user_id, date)
);`

// Store persists finalized diary days in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// UpsertDay inserts or replaces a finalized day by (user, date).
func (s *Store) UpsertDay(ctx context.Context, userID string, day domain.DiaryDay) error {
	if day.Date == "" {
		return fmt.Errorf("%w: day must include a date", domain.ErrInvalidRequest)
	}
	totals, err := json.Marshal(day.Totals)
	if err != nil {
		return fmt.Errorf("encode totals: %w", err)
	}
	entries, err := json.Marshal(day.Entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO diary_days (user_id, date, totals, entries)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			totals = excluded.totals,
			entries = excluded.entries`,
		userID, day.Date, string(totals), string(entries))
	if err != nil {
		return fmt.Errorf("upsert day: %w", err)
	}
	return nil
}

// ListDays returns a user's finalized days, newest first.
func (s *Store) ListDays(ctx context.Context, userID string) ([]domain.DiaryDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, totals, entries FROM diary_days
		WHERE user_id = ? ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	defer rows.Close()

	var days []domain.DiaryDay
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	return days, nil
}

// GetDay returns one finalized day, or ErrDayNotFound.
func (s *Store) GetDay(ctx context.Context, userID, date string) (*domain.DiaryDay, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT date, totals, entries FROM diary_days
		WHERE user_id = ? AND date = ?`, userID, date)

	day, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDay(r rowScanner) (domain.DiaryDay, error) {
	var day domain.DiaryDay
	var totals, entries string
	if err := r.Scan(&day.Date, &totals, &entries); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return day, err
		}
		return day, fmt.Errorf("scan day: %w", err)
	}
	if err := json.Unmarshal([]byte(totals), &day.Totals); err != nil {
		return day, fmt.Errorf("decode totals: %w", err)
	}
	if err := json.Unmarshal([]byte(entries), &day.Entries); err != nil {
		return day, fmt.Errorf("decode entries: %w", err)
	}
	return day, nil
}
