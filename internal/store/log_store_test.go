package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/boatlog/internal/domain"
)

func TestLogStoreCreate(t *testing.T) {
	logs := NewLogStore(openTestDB(t))

	created, err := logs.Create(context.Background(), &domain.LogEntry{
		Title:    "Sunset sail",
		Content:  "Light breeze, anchored in the bay.",
		Date:     domain.MustParseDate("2024-07-02"),
		Location: strPtr("Mamry"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Sunset sail", created.Title)
	assert.Equal(t, "2024-07-02", created.Date.String())
	assert.Equal(t, "Mamry", *created.Location)
	assert.Nil(t, created.Weather)
}

func TestLogStoreList_NewestFirst(t *testing.T) {
	logs := NewLogStore(openTestDB(t))
	ctx := context.Background()

	for _, date := range []string{"2024-06-01", "2024-08-15", "2024-07-04"} {
		_, err := logs.Create(ctx, &domain.LogEntry{Title: date, Content: "trip", Date: domain.MustParseDate(date)})
		require.NoError(t, err)
	}

	list, err := logs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-08-15", list[0].Date.String())
	assert.Equal(t, "2024-07-04", list[1].Date.String())
	assert.Equal(t, "2024-06-01", list[2].Date.String())
}

func TestLogStoreUpdate(t *testing.T) {
	logs := NewLogStore(openTestDB(t))
	ctx := context.Background()

	created, err := logs.Create(ctx, &domain.LogEntry{Title: "Trip", Content: "Calm", Date: domain.MustParseDate("2024-07-02")})
	require.NoError(t, err)

	updated, err := logs.Update(ctx, created.ID, domain.LogPatch{Weather: strPtr("sunny, 3 Bft")})
	require.NoError(t, err)
	assert.Equal(t, "sunny, 3 Bft", *updated.Weather)
	assert.Equal(t, "Trip", updated.Title)
	assert.Equal(t, "Calm", updated.Content)
	assert.Equal(t, created.Date, updated.Date)
}

func TestLogStoreUpdate_NotFound(t *testing.T) {
	logs := NewLogStore(openTestDB(t))

	_, err := logs.Update(context.Background(), 99999, domain.LogPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogStoreDelete(t *testing.T) {
	logs := NewLogStore(openTestDB(t))
	ctx := context.Background()

	created, err := logs.Create(ctx, &domain.LogEntry{Title: "Trip", Content: "Calm", Date: domain.MustParseDate("2024-07-02")})
	require.NoError(t, err)

	require.NoError(t, logs.Delete(ctx, created.ID))
	got, err := logs.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
