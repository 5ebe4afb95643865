package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/boatlog/internal/domain"
)

const logColumns = `id, created_at, title, content, date, location, weather`

type LogStore struct {
	db *sql.DB
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db}
}

func scanLogEntry(sc rowScanner) (*domain.LogEntry, error) {
	l := &domain.LogEntry{}
	if err := sc.Scan(&l.ID, &l.CreatedAt, &l.Title, &l.Content, &l.Date, &l.Location, &l.Weather); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LogStore) Create(ctx context.Context, l *domain.LogEntry) (*domain.LogEntry, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO logs (title, content, date, location, weather) VALUES (?, ?, ?, ?, ?)
	`, l.Title, l.Content, l.Date, nullableString(l.Location), nullableString(l.Weather))
	if err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *LogStore) GetByID(ctx context.Context, id int64) (*domain.LogEntry, error) {
	l, err := scanLogEntry(s.db.QueryRowContext(ctx, `
		SELECT `+logColumns+` FROM logs WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	return l, nil
}

// List returns all entries, newest trip date first.
func (s *LogStore) List(ctx context.Context) ([]*domain.LogEntry, error) {
	logs, err := queryAll(ctx, s.db, scanLogEntry, `
		SELECT `+logColumns+` FROM logs ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return logs, nil
}

func (s *LogStore) Update(ctx context.Context, id int64, patch domain.LogPatch) (*domain.LogEntry, error) {
	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.Content != nil {
		set.add("content", *patch.Content)
	}
	if patch.Date != nil {
		set.add("date", *patch.Date)
	}
	if patch.Location != nil {
		set.add("location", nullableString(patch.Location))
	}
	if patch.Weather != nil {
		set.add("weather", nullableString(patch.Weather))
	}

	if !set.empty() {
		result, err := s.db.ExecContext(ctx, `UPDATE logs SET `+set.String()+` WHERE id = ?`, append(set.args, id)...)
		if err != nil {
			return nil, fmt.Errorf("failed to update log: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return nil, fmt.Errorf("log %d: %w", id, domain.ErrNotFound)
		}
	}

	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("log %d: %w", id, domain.ErrNotFound)
	}
	return l, nil
}

// Delete removes the entry. Deleting a missing id is not an error.
func (s *LogStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM logs WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	return nil
}
