package store

import (
	"context"

	"slotboard/models"
)

// DefaultTimeSlots is the catalog seeded on first initialization. Order is
// display order on the weekly grid.
var DefaultTimeSlots = []string{
	"06:00-06:40", "06:40-07:20", "07:20-08:00", "08:00-08:40",
	"08:40-09:20", "09:20-10:00", "10:00-10:40", "10:40-11:20",
	"11:20-12:00", "12:00-12:40", "12:40-13:20", "13:20-14:00",
	"14:00-14:40", "14:40-15:20", "15:20-16:00", "16:00-16:40",
	"16:40-17:20", "17:20-18:00", "18:00-18:40", "18:40-19:20",
	"19:20-20:00", "20:00-20:40", "20:40-21:20", "21:20-22:00",
}

// Key builds the composite reservation key, e.g. "2024-06-03:06:40-07:20".
func Key(date, slot string) string {
	return date + ":" + slot
}

// Store is the persistence contract shared by the key/value and relational
// adapters. Each mutation is atomic with respect to its own key or row; no
// cross-operation transaction is guaranteed (a reservation write followed by
// a log append is two independent writes).
type Store interface {
	// Slot catalog, in display order.
	SlotCatalog(ctx context.Context) ([]string, error)
	// AddSlot appends label at the end of the order; no-op if already present.
	AddSlot(ctx context.Context, label string) error
	// RemoveSlot removes the matching entry; no-op if absent. Existing
	// reservations keyed to the label are left untouched.
	RemoveSlot(ctx context.Context, label string) error
	// RenameSlot relabels in place, preserving position. No-op if oldLabel is
	// absent or newLabel already exists.
	RenameSlot(ctx context.Context, oldLabel, newLabel string) error

	// WeekReservations returns holder by composite key for the 7 given dates
	// crossed with the current catalog, in one batched round trip. Empty
	// slots have no entry.
	WeekReservations(ctx context.Context, weekDates []string) (map[string]string, error)
	Reservation(ctx context.Context, date, slot string) (holder string, ok bool, err error)
	SetReservation(ctx context.Context, date, slot, holder string) error
	DeleteReservation(ctx context.Context, date, slot string) error

	SpecialDates(ctx context.Context) (map[string]struct{}, error)
	AddSpecialDate(ctx context.Context, date string) error
	RemoveSpecialDate(ctx context.Context, date string) error

	// AppendLog writes one audit entry. A failure here fails the enclosing
	// request; it is never swallowed.
	AppendLog(ctx context.Context, entry models.LogEntry) error
	// Logs returns the full audit trail, newest first.
	Logs(ctx context.Context) ([]models.LogEntry, error)

	// Bootstrap creates missing schema and seeds the default catalog when it
	// is empty. Idempotent.
	Bootstrap(ctx context.Context) error
	Close() error
}
