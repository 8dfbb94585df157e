package reserve

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"slotboard/models"
	"slotboard/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler serves the schedule, reservation and log endpoints.
type Handler struct {
	Engine          *Engine
	SpecialDateName string
}

func NewHandler(e *Engine, specialDateName string) *Handler {
	return &Handler{Engine: e, SpecialDateName: specialDateName}
}

// Schedule renders the week containing start_date (default today),
// normalized to Monday-Sunday.
//
// Endpoint: GET /schedule?start_date=YYYY-MM-DD
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	today := h.Engine.Now()
	start := today
	if s := r.URL.Query().Get("start_date"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		start = parsed
	}
	monday := MondayOf(start)
	weekDates := WeekDates(monday)

	ctx := r.Context()
	catalog, err := h.Engine.Store.SlotCatalog(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load time slots")
		return
	}
	if catalog == nil {
		catalog = []string{}
	}
	reservations, err := h.Engine.Store.WeekReservations(ctx, weekDates)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load reservations")
		return
	}
	specials, err := h.Engine.Store.SpecialDates(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load special dates")
		return
	}
	specialDates := make([]string, 0, len(specials))
	for d := range specials {
		specialDates = append(specialDates, d)
	}
	sort.Strings(specialDates)

	utils.RespondWithJSON(w, http.StatusOK, models.ScheduleView{
		WeekDates:         weekDates,
		TimeSlots:         catalog,
		Reservations:      reservations,
		SpecialDates:      specialDates,
		SpecialDateName:   h.SpecialDateName,
		DateRangeStart:    weekDates[0],
		DateRangeEnd:      weekDates[6],
		PrevWeekStartDate: monday.AddDate(0, 0, -7).Format(dateLayout),
		NextWeekStartDate: monday.AddDate(0, 0, 7).Format(dateLayout),
		TodayStartDate:    today.Format(dateLayout),
	})
}

// SubmitReservation applies one submission and reports the action taken.
//
// Endpoint: POST /submit_reservation
// Body: {"date": "...", "time_slot": "...", "name": "..."}
func (h *Handler) SubmitReservation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, models.SubmitResponse{
			Status: "error", Message: "invalid JSON body",
		})
		return
	}
	if req.Date == "" || req.TimeSlot == "" {
		utils.RespondWithJSON(w, http.StatusBadRequest, models.SubmitResponse{
			Status: "error", Message: "date and time_slot are required",
		})
		return
	}

	res, err := h.Engine.Submit(r.Context(), req.Date, req.TimeSlot, req.Name)
	switch {
	case errors.Is(err, ErrBadDate):
		utils.RespondWithJSON(w, http.StatusBadRequest, models.SubmitResponse{
			Status: "error", Message: err.Error(),
		})
		return
	case errors.Is(err, ErrPastDate):
		utils.RespondWithJSON(w, http.StatusForbidden, models.SubmitResponse{
			Status: "error", Message: err.Error(),
		})
		return
	case err != nil:
		utils.RespondWithJSON(w, http.StatusInternalServerError, models.SubmitResponse{
			Status: "error", Message: "storage error",
		})
		return
	}

	if res.Action == ActionNone {
		utils.RespondWithJSON(w, http.StatusOK, models.SubmitResponse{
			Status: "info", Message: res.Message, Action: string(res.Action),
		})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.SubmitResponse{
		Status: "success", Message: res.Message, Action: string(res.Action), NewUser: res.Name,
	})
}

// Logs returns the full audit trail, newest first.
//
// Endpoint: GET /logs
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := h.Engine.Store.Logs(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load logs")
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"logs": entries})
}
