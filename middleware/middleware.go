package middleware

import (
	"net/http"
	"time"

	"slotboard/store"
	"slotboard/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

const adminCookie = "admin_token"

// JWT claims for the admin capability token
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAdminToken issues a short-lived signed token asserting the admin
// capability. There is no server-side session to go with it.
func NewAdminToken(secret []byte) (string, error) {
	claims := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        utils.GetUUID(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// SetAdminCookie attaches the token as an HttpOnly cookie.
func SetAdminCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((12 * time.Hour).Seconds()),
	})
}

// ClearAdminCookie expires the cookie.
func ClearAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// AdminRequired lets the request through only with a valid admin token;
// otherwise it redirects to the login page.
func AdminRequired(secret []byte, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		cookie, err := r.Cookie(adminCookie)
		if err != nil {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil || !token.Valid || claims.Role != "admin" {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r, ps)
	}
}

// RequireBackend fails fast with 503 when the storage backend never came up
// at startup, before any handler logic runs.
func RequireBackend(s store.Store, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if s == nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable,
				"database connection failed, check server configuration")
			return
		}
		next(w, r, ps)
	}
}
