package admin

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"slotboard/middleware"
	"slotboard/utils"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

// LoginForm reports whether a login is still required.
//
// Endpoint: GET /admin/login
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"login_required": true})
}

// Login checks the shared admin secret and issues the admin token cookie.
// The secret may be configured as plaintext or as a bcrypt hash.
//
// Endpoint: POST /admin/login, form field "password"
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.Cfg.AdminPassword == "" {
		utils.RespondWithError(w, http.StatusInternalServerError,
			"admin password is not configured on the server")
		return
	}
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	if !secretMatches(h.Cfg.AdminPassword, r.FormValue("password")) {
		utils.RespondWithError(w, http.StatusUnauthorized, "wrong password")
		return
	}
	token, err := middleware.NewAdminToken(h.Cfg.JWTSecret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	middleware.SetAdminCookie(w, token)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success"})
}

// Logout clears the admin token.
//
// Endpoint: GET /admin/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	middleware.ClearAdminCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func secretMatches(configured, submitted string) bool {
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) == 1
}
