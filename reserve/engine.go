package reserve

import (
	"context"
	"errors"
	"strings"
	"time"

	"slotboard/models"
	"slotboard/store"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

var (
	// ErrBadDate means the submitted date does not parse as an ISO date.
	ErrBadDate = errors.New("invalid date format")
	// ErrPastDate means the date is before the Monday of the current week.
	ErrPastDate = errors.New("cannot modify or reserve a past time slot")
)

type Action string

const (
	ActionNone   Action = "none"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Result is the outcome of one submission.
type Result struct {
	Action  Action
	Name    string // trimmed holder name
	Message string
}

// Engine holds the backend-agnostic reservation rules. Now is swappable so
// tests can pin the week.
type Engine struct {
	Store store.Store
	Now   func() time.Time
}

func NewEngine(s store.Store) *Engine {
	return &Engine{Store: s, Now: time.Now}
}

// MondayOf returns the Monday of the week containing t, at midnight.
func MondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	t = t.AddDate(0, 0, -offset)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekDates returns the 7 ISO dates of the week starting at monday.
func WeekDates(monday time.Time) []string {
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(dateLayout)
	}
	return dates
}

// Submit applies one reservation submission: validate the date, enforce the
// past-week cutoff, then create/update/delete according to the current
// holder and the trimmed name. Every state change appends exactly one log
// entry before the submission is considered complete.
func (e *Engine) Submit(ctx context.Context, date, slot, rawName string) (Result, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return Result{}, ErrBadDate
	}
	now := e.Now()
	monday := MondayOf(now).Format(dateLayout)
	// ISO dates compare correctly as strings
	if date < monday {
		return Result{}, ErrPastDate
	}

	name := strings.TrimSpace(rawName)
	oldName, occupied, err := e.Store.Reservation(ctx, date, slot)
	if err != nil {
		return Result{}, err
	}

	res := Result{Name: name}
	switch {
	case !occupied && name == "":
		res.Action = ActionNone
		res.Message = "Slot is not reserved; nothing to do"
		return res, nil
	case name == "":
		if err := e.Store.DeleteReservation(ctx, date, slot); err != nil {
			return Result{}, err
		}
		res.Action = ActionDelete
		res.Message = "Reservation deleted"
	case occupied:
		// an unchanged name still counts as an update
		if err := e.Store.SetReservation(ctx, date, slot, name); err != nil {
			return Result{}, err
		}
		res.Action = ActionUpdate
		res.Message = "Reservation updated to: " + name
	default:
		if err := e.Store.SetReservation(ctx, date, slot, name); err != nil {
			return Result{}, err
		}
		res.Action = ActionCreate
		res.Message = "Reservation created"
	}

	entry := models.LogEntry{
		Action:    string(res.Action),
		Date:      date,
		TimeSlot:  slot,
		OldName:   orNone(oldName),
		NewName:   orNone(name),
		Timestamp: now.Format(timestampLayout),
	}
	if err := e.Store.AppendLog(ctx, entry); err != nil {
		return Result{}, err
	}
	return res, nil
}

func orNone(name string) string {
	if name == "" {
		return "none"
	}
	return name
}
