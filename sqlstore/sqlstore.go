package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"slotboard/models"
	"slotboard/store"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS reservations (
	id        TEXT PRIMARY KEY,
	user_name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS special_dates (
	date_str TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS logs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	action        TEXT NOT NULL,
	date          TEXT NOT NULL,
	time_slot     TEXT NOT NULL,
	old_user_name TEXT NOT NULL,
	new_user_name TEXT NOT NULL,
	timestamp     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS time_slots (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	slot_value TEXT NOT NULL UNIQUE,
	slot_order INTEGER NOT NULL
);
`

// Store is the relational backend over a local SQLite file. Catalog order is
// an explicit integer column; log ids auto-increment, so newest-first is
// ORDER BY id DESC.
type Store struct {
	db *sql.DB
}

// New opens (creating the parent directory if needed) and migrates the
// schema. WAL mode keeps readers from blocking the single writer.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Bootstrap seeds the default catalog when the table is empty. Schema
// creation already happens in New; running this twice is harmless.
func (s *Store) Bootstrap(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM time_slots`).Scan(&n); err != nil {
		return fmt.Errorf("count time slots: %w", err)
	}
	if n > 0 {
		return nil
	}
	for i, ts := range store.DefaultTimeSlots {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO time_slots (slot_value, slot_order) VALUES (?, ?)`, ts, i); err != nil {
			return fmt.Errorf("seed time slots: %w", err)
		}
	}
	return nil
}

func (s *Store) SlotCatalog(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot_value FROM time_slots ORDER BY slot_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var catalog []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		catalog = append(catalog, label)
	}
	return catalog, rows.Err()
}

func (s *Store) AddSlot(ctx context.Context, label string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM time_slots WHERE slot_value = ?`, label).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	var maxOrder int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(slot_order), -1) FROM time_slots`).Scan(&maxOrder); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO time_slots (slot_value, slot_order) VALUES (?, ?)`, label, maxOrder+1)
	return err
}

func (s *Store) RemoveSlot(ctx context.Context, label string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM time_slots WHERE slot_value = ?`, label)
	return err
}

func (s *Store) RenameSlot(ctx context.Context, oldLabel, newLabel string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM time_slots WHERE slot_value = ?`, newLabel).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	// keeps slot_order, so the grid position is unchanged
	_, err = s.db.ExecContext(ctx,
		`UPDATE time_slots SET slot_value = ? WHERE slot_value = ?`, newLabel, oldLabel)
	return err
}

func (s *Store) WeekReservations(ctx context.Context, weekDates []string) (map[string]string, error) {
	catalog, err := s.SlotCatalog(ctx)
	if err != nil {
		return nil, err
	}
	inCatalog := make(map[string]struct{}, len(catalog))
	for _, ts := range catalog {
		inCatalog[ts] = struct{}{}
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(weekDates)), ",")
	args := make([]interface{}, len(weekDates))
	for i, d := range weekDates {
		args[i] = d
	}
	// ISO dates are a fixed 10 characters, the slot label follows ":"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_name FROM reservations WHERE substr(id, 1, 10) IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, holder string
		if err := rows.Scan(&id, &holder); err != nil {
			return nil, err
		}
		if len(id) < 11 {
			continue
		}
		if _, ok := inCatalog[id[11:]]; !ok {
			continue
		}
		out[id] = holder
	}
	return out, rows.Err()
}

func (s *Store) Reservation(ctx context.Context, date, slot string) (string, bool, error) {
	var holder string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_name FROM reservations WHERE id = ?`, store.Key(date, slot)).Scan(&holder)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return holder, true, nil
}

func (s *Store) SetReservation(ctx context.Context, date, slot, holder string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reservations (id, user_name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET user_name = excluded.user_name`,
		store.Key(date, slot), holder)
	return err
}

func (s *Store) DeleteReservation(ctx context.Context, date, slot string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM reservations WHERE id = ?`, store.Key(date, slot))
	return err
}

func (s *Store) SpecialDates(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date_str FROM special_dates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dates := make(map[string]struct{})
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates[d] = struct{}{}
	}
	return dates, rows.Err()
}

func (s *Store) AddSpecialDate(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO special_dates (date_str) VALUES (?)`, date)
	return err
}

func (s *Store) RemoveSpecialDate(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM special_dates WHERE date_str = ?`, date)
	return err
}

func (s *Store) AppendLog(ctx context.Context, entry models.LogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO logs (action, date, time_slot, old_user_name, new_user_name, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Action, entry.Date, entry.TimeSlot, entry.OldName, entry.NewName, entry.Timestamp)
	return err
}

func (s *Store) Logs(ctx context.Context) ([]models.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, date, time_slot, old_user_name, new_user_name, timestamp
		 FROM logs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Date, &e.TimeSlot, &e.OldName, &e.NewName, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
