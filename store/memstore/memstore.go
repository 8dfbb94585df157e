// Package memstore is an in-memory Store used by tests.
package memstore

import (
	"context"
	"slices"
	"sync"

	"slotboard/models"
	"slotboard/store"
)

type Store struct {
	mu           sync.Mutex
	catalog      []string
	reservations map[string]string
	specials     map[string]struct{}
	logs         []models.LogEntry // newest first
	nextLogID    int64
}

func New(catalog ...string) *Store {
	return &Store{
		catalog:      catalog,
		reservations: make(map[string]string),
		specials:     make(map[string]struct{}),
		nextLogID:    1,
	}
}

func (s *Store) SlotCatalog(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.catalog), nil
}

func (s *Store) AddSlot(ctx context.Context, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.catalog, label) {
		return nil
	}
	s.catalog = append(s.catalog, label)
	return nil
}

func (s *Store) RemoveSlot(ctx context.Context, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.catalog, label); i >= 0 {
		s.catalog = slices.Delete(s.catalog, i, i+1)
	}
	return nil
}

func (s *Store) RenameSlot(ctx context.Context, oldLabel, newLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.catalog, newLabel) {
		return nil
	}
	if i := slices.Index(s.catalog, oldLabel); i >= 0 {
		s.catalog[i] = newLabel
	}
	return nil
}

func (s *Store) WeekReservations(ctx context.Context, weekDates []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string)
	for _, d := range weekDates {
		for _, ts := range s.catalog {
			k := store.Key(d, ts)
			if holder, ok := s.reservations[k]; ok {
				out[k] = holder
			}
		}
	}
	return out, nil
}

func (s *Store) Reservation(ctx context.Context, date, slot string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	holder, ok := s.reservations[store.Key(date, slot)]
	return holder, ok, nil
}

func (s *Store) SetReservation(ctx context.Context, date, slot, holder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[store.Key(date, slot)] = holder
	return nil
}

func (s *Store) DeleteReservation(ctx context.Context, date, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reservations, store.Key(date, slot))
	return nil
}

func (s *Store) SpecialDates(ctx context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.specials))
	for d := range s.specials {
		out[d] = struct{}{}
	}
	return out, nil
}

func (s *Store) AddSpecialDate(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specials[date] = struct{}{}
	return nil
}

func (s *Store) RemoveSpecialDate(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.specials, date)
	return nil
}

func (s *Store) AppendLog(ctx context.Context, entry models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == 0 {
		entry.ID = s.nextLogID
		s.nextLogID++
	}
	s.logs = append([]models.LogEntry{entry}, s.logs...)
	return nil
}

func (s *Store) Logs(ctx context.Context) ([]models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.logs), nil
}

func (s *Store) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.catalog) == 0 {
		s.catalog = slices.Clone(store.DefaultTimeSlots)
	}
	return nil
}

func (s *Store) Close() error { return nil }
