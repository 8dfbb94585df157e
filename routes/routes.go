package routes

import (
	"slotboard/admin"
	"slotboard/middleware"
	"slotboard/ratelim"
	"slotboard/reserve"
	"slotboard/store"

	"github.com/julienschmidt/httprouter"
)

func AddScheduleRoutes(router *httprouter.Router, h *reserve.Handler, s store.Store, rateLimiter *ratelim.RateLimiter) {
	router.GET("/schedule", middleware.RequireBackend(s, h.Schedule))
	router.POST("/submit_reservation", rateLimiter.Limit(middleware.RequireBackend(s, h.SubmitReservation)))
	router.GET("/logs", middleware.RequireBackend(s, h.Logs))
}

func AddAdminRoutes(router *httprouter.Router, a *admin.Handler, s store.Store, rateLimiter *ratelim.RateLimiter) {
	secret := a.Cfg.JWTSecret
	router.GET("/admin", middleware.RequireBackend(s, middleware.AdminRequired(secret, a.Dashboard)))
	router.POST("/admin", middleware.RequireBackend(s, middleware.AdminRequired(secret, a.Update)))
	router.GET("/admin/login", a.LoginForm)
	router.POST("/admin/login", rateLimiter.Limit(a.Login))
	router.GET("/admin/logout", a.Logout)
}
