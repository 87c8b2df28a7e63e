package persistence

import (
	"context"
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/calendar"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = valueobject.MustParseDay("2030-03-13")

func newTestDate(t *testing.T, date string, available bool) *calendar.AvailableDate {
	t.Helper()
	d, err := calendar.NewAvailableDate(date, available, testToday)
	require.NoError(t, err)
	return d
}

func TestGormAvailableDateRepository(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormAvailableDateRepository(db.DB)
	ctx := context.Background()

	require.NoError(t, repo.SaveBatch(ctx, []*calendar.AvailableDate{
		newTestDate(t, "2030-03-18", true),
		newTestDate(t, "2030-03-14", true),
		newTestDate(t, "2030-03-15", false),
		newTestDate(t, "2030-03-13", true),
	}))

	t.Run("find by date", func(t *testing.T) {
		d, err := repo.FindByDate(ctx, "2030-03-15")
		require.NoError(t, err)
		assert.False(t, d.IsAvailable)
		assert.True(t, d.IsBooked())

		_, err = repo.FindByDate(ctx, "2030-04-01")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("available from is ascending and skips closed days", func(t *testing.T) {
		dates, err := repo.FindAvailableFrom(ctx, "2030-03-14")
		require.NoError(t, err)
		require.Len(t, dates, 2)
		assert.Equal(t, "2030-03-14", dates[0].Date)
		assert.Equal(t, "2030-03-18", dates[1].Date)
	})

	t.Run("find all", func(t *testing.T) {
		dates, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, dates, 4)
		assert.Equal(t, "2030-03-13", dates[0].Date)
	})

	t.Run("existing dates", func(t *testing.T) {
		existing, err := repo.ExistingDates(ctx, []string{"2030-03-14", "2030-03-16", "2030-03-18"})
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"2030-03-14": true, "2030-03-18": true}, existing)

		ok, err := repo.ExistsByDate(ctx, "2030-03-16")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicate date", func(t *testing.T) {
		err := repo.Save(ctx, newTestDate(t, "2030-03-14", true))
		assert.ErrorIs(t, err, calendar.ErrDateExists)
	})

	t.Run("update availability", func(t *testing.T) {
		d, err := repo.FindByDate(ctx, "2030-03-15")
		require.NoError(t, err)
		d.SetAvailability(true)
		require.NoError(t, repo.Save(ctx, d))

		again, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.True(t, again.IsAvailable)
	})

	t.Run("delete before", func(t *testing.T) {
		n, err := repo.DeleteBefore(ctx, "2030-03-15")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("delete", func(t *testing.T) {
		d, err := repo.FindByDate(ctx, "2030-03-18")
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, d.ID))
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

func TestGormAvailableDateRepository_SaveClosedDate(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormAvailableDateRepository(db.DB)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestDate(t, "2030-03-15", false)))

	stored, err := repo.FindByDate(ctx, "2030-03-15")
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	open, err := repo.FindAvailableFrom(ctx, "2030-03-13")
	require.NoError(t, err)
	assert.Empty(t, open)
}
