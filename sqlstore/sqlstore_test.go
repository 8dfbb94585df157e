package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"slotboard/models"
	"slotboard/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBootstrapSeedsDefaultCatalogOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Bootstrap(ctx))
	catalog, err := s.SlotCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.DefaultTimeSlots, catalog)

	// idempotent: a second run does not duplicate the seed
	require.NoError(t, s.Bootstrap(ctx))
	catalog, err = s.SlotCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, len(store.DefaultTimeSlots))

	// and a curated catalog is left alone
	require.NoError(t, s.RemoveSlot(ctx, store.DefaultTimeSlots[0]))
	require.NoError(t, s.Bootstrap(ctx))
	catalog, err = s.SlotCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, len(store.DefaultTimeSlots)-1)
}

func TestCatalogAddRemoveRename(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddSlot(ctx, "06:40-07:20"))
	require.NoError(t, s.AddSlot(ctx, "07:20-08:00"))
	require.NoError(t, s.AddSlot(ctx, "06:40-07:20")) // duplicate, silent no-op

	catalog, err := s.SlotCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"06:40-07:20", "07:20-08:00"}, catalog)

	// rename keeps position
	require.NoError(t, s.RenameSlot(ctx, "06:40-07:20", "06:45-07:25"))
	catalog, err = s.SlotCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"06:45-07:25", "07:20-08:00"}, catalog)

	// rename onto an existing label is a no-op
	require.NoError(t, s.RenameSlot(ctx, "07:20-08:00", "06:45-07:25"))
	catalog, err = s.SlotCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"06:45-07:25", "07:20-08:00"}, catalog)

	// rename of an absent label is a no-op
	require.NoError(t, s.RenameSlot(ctx, "no-such-slot", "08:00-08:40"))

	require.NoError(t, s.RemoveSlot(ctx, "06:45-07:25"))
	require.NoError(t, s.RemoveSlot(ctx, "06:45-07:25")) // absent, silent no-op
	catalog, err = s.SlotCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"07:20-08:00"}, catalog)

	// a slot added after deletions still lands at the end
	require.NoError(t, s.AddSlot(ctx, "08:00-08:40"))
	catalog, err = s.SlotCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"07:20-08:00", "08:00-08:40"}, catalog)
}

func TestReservationUpsertAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.Reservation(ctx, "2024-06-03", "06:40-07:20")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetReservation(ctx, "2024-06-03", "06:40-07:20", "Alice"))
	holder, ok, err := s.Reservation(ctx, "2024-06-03", "06:40-07:20")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", holder)

	// upsert overwrites
	require.NoError(t, s.SetReservation(ctx, "2024-06-03", "06:40-07:20", "Bob"))
	holder, _, err = s.Reservation(ctx, "2024-06-03", "06:40-07:20")
	require.NoError(t, err)
	assert.Equal(t, "Bob", holder)

	require.NoError(t, s.DeleteReservation(ctx, "2024-06-03", "06:40-07:20"))
	require.NoError(t, s.DeleteReservation(ctx, "2024-06-03", "06:40-07:20")) // absent, no-op
	_, ok, err = s.Reservation(ctx, "2024-06-03", "06:40-07:20")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWeekReservationsExactness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddSlot(ctx, "06:40-07:20"))
	require.NoError(t, s.AddSlot(ctx, "07:20-08:00"))

	week := []string{
		"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06",
		"2024-06-07", "2024-06-08", "2024-06-09",
	}
	require.NoError(t, s.SetReservation(ctx, "2024-06-03", "06:40-07:20", "Alice"))
	require.NoError(t, s.SetReservation(ctx, "2024-06-09", "07:20-08:00", "Bob"))
	// outside the week
	require.NoError(t, s.SetReservation(ctx, "2024-06-10", "06:40-07:20", "Carol"))
	// slot no longer in the catalog
	require.NoError(t, s.SetReservation(ctx, "2024-06-04", "99:00-99:40", "Dave"))

	got, err := s.WeekReservations(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"2024-06-03:06:40-07:20": "Alice",
		"2024-06-09:07:20-08:00": "Bob",
	}, got)
}

func TestLogsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries := []models.LogEntry{
		{Action: "create", Date: "2024-06-03", TimeSlot: "06:40-07:20",
			OldName: "none", NewName: "Alice", Timestamp: "2024-06-03 08:00:00"},
		{Action: "update", Date: "2024-06-03", TimeSlot: "06:40-07:20",
			OldName: "Alice", NewName: "Bob", Timestamp: "2024-06-03 09:00:00"},
		{Action: "delete", Date: "2024-06-03", TimeSlot: "06:40-07:20",
			OldName: "Bob", NewName: "none", Timestamp: "2024-06-03 10:00:00"},
	}
	for _, e := range entries {
		require.NoError(t, s.AppendLog(ctx, e))
	}

	got, err := s.Logs(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "delete", got[0].Action)
	assert.Equal(t, "update", got[1].Action)
	assert.Equal(t, "create", got[2].Action)
	// relational ids auto-increment
	assert.Greater(t, got[0].ID, got[1].ID)
}

func TestSpecialDates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddSpecialDate(ctx, "2024-06-15"))
	require.NoError(t, s.AddSpecialDate(ctx, "2024-06-15")) // duplicate, no-op
	dates, err := s.SpecialDates(ctx)
	require.NoError(t, err)
	assert.Len(t, dates, 1)
	assert.Contains(t, dates, "2024-06-15")

	require.NoError(t, s.RemoveSpecialDate(ctx, "2024-06-15"))
	dates, err = s.SpecialDates(ctx)
	require.NoError(t, err)
	assert.Empty(t, dates)
}
