package reserve

import (
	"context"
	"errors"
	"testing"
	"time"

	"slotboard/models"
	"slotboard/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-06-05 is a Wednesday; the week runs 2024-06-03 through 2024-06-09.
var testNow = time.Date(2024, 6, 5, 10, 30, 0, 0, time.UTC)

func newTestEngine(st *memstore.Store) *Engine {
	e := NewEngine(st)
	e.Now = func() time.Time { return testNow }
	return e
}

func TestSubmitCreate(t *testing.T) {
	st := memstore.New("06:40-07:20")
	e := newTestEngine(st)

	res, err := e.Submit(context.Background(), "2024-06-03", "06:40-07:20", "Alice")
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, res.Action)
	assert.Equal(t, "Alice", res.Name)

	holder, ok, err := st.Reservation(context.Background(), "2024-06-03", "06:40-07:20")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", holder)

	logs, err := st.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "create", logs[0].Action)
	assert.Equal(t, "none", logs[0].OldName)
	assert.Equal(t, "Alice", logs[0].NewName)
	assert.Equal(t, "2024-06-05 10:30:00", logs[0].Timestamp)
}

func TestSubmitEmptyNameOnEmptySlotIsNoop(t *testing.T) {
	st := memstore.New("06:40-07:20")
	e := newTestEngine(st)

	res, err := e.Submit(context.Background(), "2024-06-03", "06:40-07:20", "   ")
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)

	logs, err := st.Logs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestSubmitUpdateEvenWhenNameUnchanged(t *testing.T) {
	st := memstore.New("06:40-07:20")
	e := newTestEngine(st)
	require.NoError(t, st.SetReservation(context.Background(), "2024-06-03", "06:40-07:20", "Alice"))

	res, err := e.Submit(context.Background(), "2024-06-03", "06:40-07:20", "Alice")
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, res.Action)

	logs, err := st.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "update", logs[0].Action)
	assert.Equal(t, "Alice", logs[0].OldName)
	assert.Equal(t, "Alice", logs[0].NewName)
}

func TestSubmitDelete(t *testing.T) {
	st := memstore.New("06:40-07:20")
	e := newTestEngine(st)
	require.NoError(t, st.SetReservation(context.Background(), "2024-06-03", "06:40-07:20", "Alice"))

	res, err := e.Submit(context.Background(), "2024-06-03", "06:40-07:20", "")
	require.NoError(t, err)
	assert.Equal(t, ActionDelete, res.Action)

	_, ok, err := st.Reservation(context.Background(), "2024-06-03", "06:40-07:20")
	require.NoError(t, err)
	assert.False(t, ok)

	logs, err := st.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Alice", logs[0].OldName)
	assert.Equal(t, "none", logs[0].NewName)
}

func TestSubmitTrimsName(t *testing.T) {
	st := memstore.New("06:40-07:20")
	e := newTestEngine(st)

	res, err := e.Submit(context.Background(), "2024-06-03", "06:40-07:20", "  Alice  ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.Name)

	holder, _, err := st.Reservation(context.Background(), "2024-06-03", "06:40-07:20")
	require.NoError(t, err)
	assert.Equal(t, "Alice", holder)
}

func TestSubmitFlowCreateUpdateDelete(t *testing.T) {
	st := memstore.New("06:40-07:20")
	e := newTestEngine(st)
	ctx := context.Background()

	res, err := e.Submit(ctx, "2024-06-03", "06:40-07:20", "Alice")
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, res.Action)

	res, err = e.Submit(ctx, "2024-06-03", "06:40-07:20", "Bob")
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, res.Action)

	res, err = e.Submit(ctx, "2024-06-03", "06:40-07:20", "")
	require.NoError(t, err)
	assert.Equal(t, ActionDelete, res.Action)

	logs, err := st.Logs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	// newest first
	assert.Equal(t, "delete", logs[0].Action)
	assert.Equal(t, "update", logs[1].Action)
	assert.Equal(t, "create", logs[2].Action)
	assert.Equal(t, "Bob", logs[0].OldName)
}

func TestSubmitRejectsPastWeek(t *testing.T) {
	st := memstore.New("06:40-07:20")
	st.SetReservation(context.Background(), "2024-06-02", "06:40-07:20", "Alice")
	e := newTestEngine(st)

	for _, date := range []string{"2024-06-02", "2024-05-27", "2023-12-31"} {
		_, err := e.Submit(context.Background(), date, "06:40-07:20", "Bob")
		assert.ErrorIs(t, err, ErrPastDate, "date %s", date)
	}

	// storage untouched, nothing logged
	holder, ok, err := st.Reservation(context.Background(), "2024-06-02", "06:40-07:20")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", holder)
	logs, err := st.Logs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestSubmitAllowsCurrentAndFutureWeeks(t *testing.T) {
	st := memstore.New("06:40-07:20")
	e := newTestEngine(st)

	for _, date := range []string{"2024-06-03", "2024-06-09", "2024-06-10", "2025-01-01"} {
		res, err := e.Submit(context.Background(), date, "06:40-07:20", "Alice")
		require.NoError(t, err, "date %s", date)
		assert.Equal(t, ActionCreate, res.Action)
	}
}

func TestSubmitRejectsMalformedDate(t *testing.T) {
	st := memstore.New("06:40-07:20")
	e := newTestEngine(st)

	// malformed dates fail before the past-date check runs
	for _, date := range []string{"", "06/03/2024", "2024-13-40", "yesterday", "2023/01/01"} {
		_, err := e.Submit(context.Background(), date, "06:40-07:20", "Alice")
		assert.ErrorIs(t, err, ErrBadDate, "date %q", date)
	}
	logs, err := st.Logs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

type failingLogStore struct {
	*memstore.Store
}

func (f *failingLogStore) AppendLog(ctx context.Context, entry models.LogEntry) error {
	return errors.New("log write failed")
}

func TestSubmitFailsWhenLogAppendFails(t *testing.T) {
	st := memstore.New("06:40-07:20")
	e := NewEngine(&failingLogStore{st})
	e.Now = func() time.Time { return testNow }

	_, err := e.Submit(context.Background(), "2024-06-03", "06:40-07:20", "Alice")
	require.Error(t, err)

	// the mutation itself stands; only the trail entry is missing
	holder, ok, err := st.Reservation(context.Background(), "2024-06-03", "06:40-07:20")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", holder)
}

func TestMondayOf(t *testing.T) {
	cases := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), "2024-06-03"},  // Monday
		{time.Date(2024, 6, 5, 23, 0, 0, 0, time.UTC), "2024-06-03"}, // Wednesday
		{time.Date(2024, 6, 9, 1, 0, 0, 0, time.UTC), "2024-06-03"},  // Sunday
		{time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "2024-06-10"}, // next Monday
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MondayOf(c.day).Format("2006-01-02"), "input %s", c.day)
	}
}

func TestWeekDates(t *testing.T) {
	dates := WeekDates(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	require.Len(t, dates, 7)
	assert.Equal(t, "2024-06-03", dates[0])
	assert.Equal(t, "2024-06-09", dates[6])
}
