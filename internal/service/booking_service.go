package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/boatlog/internal/domain"
)

// bookingRepository is the subset of store.BookingStore that BookingService requires.
type bookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context) ([]*domain.Booking, error)
	ListByPerson(ctx context.Context, person domain.Person) ([]*domain.Booking, error)
	ListByDateRange(ctx context.Context, start, end domain.Date) ([]*domain.Booking, error)
	HasConfirmedOverlap(ctx context.Context, start, end domain.Date, excludeID int64) (bool, error)
	Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

// BookingFilter narrows ListBookings. A valid Person takes precedence over the
// date window; the window applies only when both ends are set.
type BookingFilter struct {
	Person    domain.Person
	StartDate domain.Date
	EndDate   domain.Date
}

type BookingService struct {
	store  bookingRepository
	logger *slog.Logger
}

func NewBookingService(store bookingRepository, logger *slog.Logger) *BookingService {
	return &BookingService{store: store, logger: logger}
}

func (s *BookingService) ListBookings(ctx context.Context, f BookingFilter) ([]*domain.Booking, error) {
	switch {
	case f.Person.Valid():
		return s.store.ListByPerson(ctx, f.Person)
	case !f.StartDate.IsZero() && !f.EndDate.IsZero():
		return s.store.ListByDateRange(ctx, f.StartDate, f.EndDate)
	default:
		return s.store.List(ctx)
	}
}

// GetBooking returns nil, nil when the booking does not exist.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.store.GetByID(ctx, id)
}

// CheckAvailability reports whether no confirmed booking shares a day with
// [start, end].
func (s *BookingService) CheckAvailability(ctx context.Context, start, end domain.Date) (bool, error) {
	if start.IsZero() || end.IsZero() {
		return false, domain.Invalidf("Start date and end date are required")
	}
	if start.After(end) {
		return false, domain.ErrInvertedRange
	}
	overlap, err := s.store.HasConfirmedOverlap(ctx, start, end, 0)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

// CreateBooking validates b and inserts it. Only confirmed bookings are
// checked against the calendar; pending and cancelled ones are always
// accepted.
func (s *BookingService) CreateBooking(ctx context.Context, b domain.Booking) (*domain.Booking, error) {
	if b.Status == "" {
		b.Status = domain.StatusConfirmed
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if b.Status == domain.StatusConfirmed {
		available, err := s.CheckAvailability(ctx, b.StartDate, b.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to check availability: %w", err)
		}
		if !available {
			s.logger.Info("booking rejected: dates taken",
				"person", b.Person, "start_date", b.StartDate.String(), "end_date", b.EndDate.String())
			return nil, domain.ErrBookingConflict
		}
	}

	created, err := s.store.Create(ctx, &b)
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking created", "booking_id", created.ID, "person", created.Person, "status", created.Status)
	return created, nil
}

// UpdateBooking applies patch. The merged booking must satisfy the same rules
// as a new one, and a patch touching dates or status of a booking that ends up
// confirmed is checked against the other confirmed bookings.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	if patch.IsEmpty() {
		return current, nil
	}

	merged := patch.Apply(*current)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	reschedules := patch.StartDate != nil || patch.EndDate != nil || patch.Status != nil
	if reschedules && merged.Status == domain.StatusConfirmed {
		overlap, err := s.store.HasConfirmedOverlap(ctx, merged.StartDate, merged.EndDate, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check availability: %w", err)
		}
		if overlap {
			s.logger.Info("booking update rejected: dates taken", "booking_id", id)
			return nil, domain.ErrBookingConflict
		}
	}

	return s.store.Update(ctx, id, patch)
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
