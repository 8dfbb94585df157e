package rdx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotboard/models"
	"slotboard/store"
	"slotboard/utils"

	"github.com/redis/go-redis/v9"
)

const (
	slotsKey     = "config:time_slots"
	specialsKey  = "special_dates"
	logsKey      = "logs"
	resKeyPrefix = "reservation:"
)

// Store is the key/value backend over Redis. The slot catalog lives in a
// list, special dates in a set, reservations as plain string keys and the
// audit trail as a LPUSH'd list of JSON entries (natively newest-first).
type Store struct {
	client *redis.Client
}

// New connects, pings, and seeds the default catalog when the list is
// missing, mirroring first-boot behavior of the relational backend's init.
func New(ctx context.Context, url string) (*Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse KV url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	s := &Store{client: client}
	if err := s.Bootstrap(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Bootstrap(ctx context.Context) error {
	n, err := s.client.Exists(ctx, slotsKey).Result()
	if err != nil {
		return fmt.Errorf("check slot catalog: %w", err)
	}
	if n > 0 {
		return nil
	}
	slots := make([]interface{}, len(store.DefaultTimeSlots))
	for i, ts := range store.DefaultTimeSlots {
		slots[i] = ts
	}
	return s.client.RPush(ctx, slotsKey, slots...).Err()
}

func (s *Store) SlotCatalog(ctx context.Context) ([]string, error) {
	return s.client.LRange(ctx, slotsKey, 0, -1).Result()
}

func (s *Store) AddSlot(ctx context.Context, label string) error {
	catalog, err := s.SlotCatalog(ctx)
	if err != nil {
		return err
	}
	if utils.Contains(catalog, label) {
		return nil
	}
	return s.client.RPush(ctx, slotsKey, label).Err()
}

func (s *Store) RemoveSlot(ctx context.Context, label string) error {
	// count 1: catalog entries are unique, remove the single match
	return s.client.LRem(ctx, slotsKey, 1, label).Err()
}

func (s *Store) RenameSlot(ctx context.Context, oldLabel, newLabel string) error {
	catalog, err := s.SlotCatalog(ctx)
	if err != nil {
		return err
	}
	if utils.Contains(catalog, newLabel) {
		return nil
	}
	idx := utils.IndexOf(catalog, oldLabel)
	if idx < 0 {
		return nil
	}
	return s.client.LSet(ctx, slotsKey, int64(idx), newLabel).Err()
}

func (s *Store) WeekReservations(ctx context.Context, weekDates []string) (map[string]string, error) {
	catalog, err := s.SlotCatalog(ctx)
	if err != nil {
		return nil, err
	}
	// one pipelined round trip for all 7 x |catalog| keys
	type lookup struct {
		key string
		cmd *redis.StringCmd
	}
	pipe := s.client.Pipeline()
	lookups := make([]lookup, 0, len(weekDates)*len(catalog))
	for _, d := range weekDates {
		for _, ts := range catalog {
			k := store.Key(d, ts)
			lookups = append(lookups, lookup{key: k, cmd: pipe.Get(ctx, resKeyPrefix+k)})
		}
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("week pipeline: %w", err)
	}
	out := make(map[string]string)
	for _, l := range lookups {
		holder, err := l.cmd.Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[l.key] = holder
	}
	return out, nil
}

func (s *Store) Reservation(ctx context.Context, date, slot string) (string, bool, error) {
	holder, err := s.client.Get(ctx, resKeyPrefix+store.Key(date, slot)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return holder, true, nil
}

func (s *Store) SetReservation(ctx context.Context, date, slot, holder string) error {
	return s.client.Set(ctx, resKeyPrefix+store.Key(date, slot), holder, 0).Err()
}

func (s *Store) DeleteReservation(ctx context.Context, date, slot string) error {
	return s.client.Del(ctx, resKeyPrefix+store.Key(date, slot)).Err()
}

func (s *Store) SpecialDates(ctx context.Context) (map[string]struct{}, error) {
	members, err := s.client.SMembers(ctx, specialsKey).Result()
	if err != nil {
		return nil, err
	}
	dates := make(map[string]struct{}, len(members))
	for _, d := range members {
		dates[d] = struct{}{}
	}
	return dates, nil
}

func (s *Store) AddSpecialDate(ctx context.Context, date string) error {
	return s.client.SAdd(ctx, specialsKey, date).Err()
}

func (s *Store) RemoveSpecialDate(ctx context.Context, date string) error {
	return s.client.SRem(ctx, specialsKey, date).Err()
}

func (s *Store) AppendLog(ctx context.Context, entry models.LogEntry) error {
	if entry.ID == 0 {
		// no auto-increment in Redis; wall-clock ids are an accepted
		// limitation under rapid concurrent writes
		entry.ID = time.Now().UnixMilli()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}
	return s.client.LPush(ctx, logsKey, data).Err()
}

func (s *Store) Logs(ctx context.Context) ([]models.LogEntry, error) {
	raw, err := s.client.LRange(ctx, logsKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]models.LogEntry, 0, len(raw))
	for _, item := range raw {
		var e models.LogEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("unmarshal log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
