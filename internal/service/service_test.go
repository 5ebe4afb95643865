package service

import (
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/boatlog/internal/db"
	"github.com/vbonduro/boatlog/internal/domain"
	"github.com/vbonduro/boatlog/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	return d
}

func newTestBookingService(t *testing.T) *BookingService {
	t.Helper()
	return NewBookingService(store.NewBookingStore(openTestDB(t)), slog.Default())
}

func booking(person domain.Person, start, end string, status domain.BookingStatus) domain.Booking {
	return domain.Booking{
		Person:    person,
		StartDate: domain.MustParseDate(start),
		EndDate:   domain.MustParseDate(end),
		Status:    status,
	}
}

func ptr[T any](v T) *T { return &v }
