package admin

import (
	"net/http"
	"sort"

	"slotboard/config"
	"slotboard/models"
	"slotboard/store"
	"slotboard/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler serves the admin dashboard: special-date and time-slot curation.
type Handler struct {
	Store store.Store
	Cfg   *config.Config
}

func NewHandler(s store.Store, cfg *config.Config) *Handler {
	return &Handler{Store: s, Cfg: cfg}
}

// Dashboard returns the current special dates (sorted) and slot catalog.
//
// Endpoint: GET /admin
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	specials, err := h.Store.SpecialDates(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load special dates")
		return
	}
	dates := make([]string, 0, len(specials))
	for d := range specials {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	catalog, err := h.Store.SlotCatalog(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load time slots")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.AdminView{
		SpecialDates:    dates,
		TimeSlots:       catalog,
		SpecialDateName: h.Cfg.SpecialDateName,
	})
}

// Update applies one curation action per request and redirects back to the
// dashboard. Invalid input (absent label, duplicate add) is a silent no-op.
//
// Endpoint: POST /admin
// Form fields: add_date | delete_date | add_timeslot_value |
// delete_timeslot_value | edit_timeslot_original + edit_timeslot_new
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	ctx := r.Context()

	if d := r.FormValue("add_date"); d != "" {
		if err := h.Store.AddSpecialDate(ctx, d); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to add special date")
			return
		}
	}
	if d := r.FormValue("delete_date"); d != "" {
		if err := h.Store.RemoveSpecialDate(ctx, d); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete special date")
			return
		}
	}
	if ts := r.FormValue("add_timeslot_value"); ts != "" {
		if err := h.Store.AddSlot(ctx, ts); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to add time slot")
			return
		}
	}
	if ts := r.FormValue("delete_timeslot_value"); ts != "" {
		if err := h.Store.RemoveSlot(ctx, ts); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete time slot")
			return
		}
	}
	oldLabel := r.FormValue("edit_timeslot_original")
	newLabel := r.FormValue("edit_timeslot_new")
	if oldLabel != "" && newLabel != "" {
		// existing reservations keep the old label in their keys
		if err := h.Store.RenameSlot(ctx, oldLabel, newLabel); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to rename time slot")
			return
		}
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
