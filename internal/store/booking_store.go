package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vbonduro/boatlog/internal/domain"
)

// overlapAbortMessage is raised by the bookings overlap triggers.
const overlapAbortMessage = "booking overlaps a confirmed booking"

const bookingColumns = `id, created_at, person, start_date, end_date, comment, status`

type BookingStore struct {
	db *sql.DB
}

func NewBookingStore(db *sql.DB) *BookingStore {
	return &BookingStore{db: db}
}

func scanBooking(sc rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	if err := sc.Scan(&b.ID, &b.CreatedAt, &b.Person, &b.StartDate, &b.EndDate, &b.Comment, &b.Status); err != nil {
		return nil, err
	}
	return b, nil
}

// bookingWriteErr translates the overlap trigger abort into ErrBookingConflict.
func bookingWriteErr(op string, err error) error {
	if strings.Contains(err.Error(), overlapAbortMessage) {
		return fmt.Errorf("failed to %s booking: %w", op, domain.ErrBookingConflict)
	}
	return fmt.Errorf("failed to %s booking: %w", op, err)
}

func (s *BookingStore) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (person, start_date, end_date, comment, status) VALUES (?, ?, ?, ?, ?)
	`, b.Person, b.StartDate, b.EndDate, nullableString(b.Comment), b.Status)
	if err != nil {
		return nil, bookingWriteErr("create", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *BookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(s.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

func (s *BookingStore) List(ctx context.Context) ([]*domain.Booking, error) {
	bookings, err := queryAll(ctx, s.db, scanBooking, `
		SELECT `+bookingColumns+` FROM bookings ORDER BY start_date ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingStore) ListByPerson(ctx context.Context, person domain.Person) ([]*domain.Booking, error) {
	bookings, err := queryAll(ctx, s.db, scanBooking, `
		SELECT `+bookingColumns+` FROM bookings WHERE person = ? ORDER BY start_date ASC, id ASC
	`, person)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by person: %w", err)
	}
	return bookings, nil
}

// ListByDateRange returns bookings lying entirely inside [start, end].
func (s *BookingStore) ListByDateRange(ctx context.Context, start, end domain.Date) ([]*domain.Booking, error) {
	bookings, err := queryAll(ctx, s.db, scanBooking, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE start_date >= ? AND end_date <= ?
		ORDER BY start_date ASC, id ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by date range: %w", err)
	}
	return bookings, nil
}

// HasConfirmedOverlap reports whether any confirmed booking other than
// excludeID shares a day with [start, end]. Pass 0 to exclude nothing.
func (s *BookingStore) HasConfirmedOverlap(ctx context.Context, start, end domain.Date, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE status = ? AND id <> ? AND start_date <= ? AND end_date >= ?
		)
	`, domain.StatusConfirmed, excludeID, end, start).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	return exists, nil
}

// Update writes only the non-nil fields of patch and returns the updated row.
func (s *BookingStore) Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	var set setClause
	if patch.Person != nil {
		set.add("person", *patch.Person)
	}
	if patch.StartDate != nil {
		set.add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		set.add("end_date", *patch.EndDate)
	}
	if patch.Comment != nil {
		set.add("comment", nullableString(patch.Comment))
	}
	if patch.Status != nil {
		set.add("status", *patch.Status)
	}

	if !set.empty() {
		result, err := s.db.ExecContext(ctx, `UPDATE bookings SET `+set.String()+` WHERE id = ?`, append(set.args, id)...)
		if err != nil {
			return nil, bookingWriteErr("update", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
		}
	}

	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

// Delete removes the booking. Deleting a missing id is not an error.
func (s *BookingStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM bookings WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}
