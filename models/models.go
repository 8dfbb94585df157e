package models

// LogEntry is one row of the audit trail. Entries are append-only and never
// edited; OldName/NewName carry the sentinel "none" when a side of the
// transition is empty.
type LogEntry struct {
	ID        int64  `json:"id"`
	Action    string `json:"action"` // create, update, delete
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	OldName   string `json:"old_user_name"`
	NewName   string `json:"new_user_name"`
	Timestamp string `json:"timestamp"`
}

// ScheduleView is the payload rendered for one Monday-to-Sunday week.
type ScheduleView struct {
	WeekDates         []string          `json:"week_dates"`
	TimeSlots         []string          `json:"time_slots"`
	Reservations      map[string]string `json:"reservations"`
	SpecialDates      []string          `json:"special_dates"`
	SpecialDateName   string            `json:"special_date_name"`
	DateRangeStart    string            `json:"date_range_start"`
	DateRangeEnd      string            `json:"date_range_end"`
	PrevWeekStartDate string            `json:"prev_week_start_date"`
	NextWeekStartDate string            `json:"next_week_start_date"`
	TodayStartDate    string            `json:"today_start_date"`
}

type SubmitRequest struct {
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
	Name     string `json:"name"`
}

type SubmitResponse struct {
	Status  string `json:"status"` // success, error, info
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	NewUser string `json:"new_user,omitempty"`
}

// AdminView is the payload for the admin dashboard.
type AdminView struct {
	SpecialDates    []string `json:"special_dates"`
	TimeSlots       []string `json:"time_slots"`
	SpecialDateName string   `json:"special_date_name"`
}
