package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/palclasses/site-api/internal/handler"
	"github.com/palclasses/site-api/internal/middleware"
	"github.com/palclasses/site-api/internal/model"
)

// Deps collects the handlers and route middleware that Register wires.
// RateLimit and PageCache may be nil.
type Deps struct {
	DB        handler.Pinger
	Auth      *handler.AuthHandler
	Leads     *handler.LeadHandler
	CMS       *handler.CMSHandler
	JWTSecret string
	RateLimit echo.MiddlewareFunc
	PageCache echo.MiddlewareFunc
}

// Register mounts every route of the API on e.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e, d.DB)
	RegisterAuth(e, d.Auth, d.JWTSecret)
	RegisterLeads(e, d.Leads, d.JWTSecret, d.RateLimit)
	RegisterCMS(e, d.CMS, d.JWTSecret, d.PageCache)
}

// RegisterRoutes registers routes that do not require authentication and
// belong to no feature.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// adminOnly is the middleware chain of every admin route.
func adminOnly(jwtSecret string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	}
}

// optional returns m as a chain, or an empty chain when m is nil.
func optional(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}

// RegisterAuth registers the login endpoint and the admin's own profile
// routes.  Only login is public.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/api/auth/login", a.Login)

	admin := adminOnly(jwtSecret)
	e.PUT("/api/auth/update-profile", a.UpdateProfile, admin...)
	e.GET("/api/auth/me", a.Me, admin...)
}

// RegisterLeads registers one public submit route and one admin listing per
// lead kind, plus the admission status transition.  limiter, when set,
// guards the submit routes only.
func RegisterLeads(e *echo.Echo, h *handler.LeadHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	admin := adminOnly(jwtSecret)
	public := optional(limiter)

	for _, kind := range model.LeadKinds() {
		base := "/api/" + string(kind)
		e.POST(base+"/submit", h.Submit(kind), public...)
		e.GET(base, h.List(kind), admin...)
	}
	e.PATCH("/api/admission/:id/status", h.UpdateAdmissionStatus, admin...)
}

// RegisterCMS registers the public page read and the admin editor routes.
// cache, when set, wraps the page read only.
func RegisterCMS(e *echo.Echo, h *handler.CMSHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/api/cms/pages/:page", h.GetPage, optional(cache)...)

	g := e.Group("/api/cms", adminOnly(jwtSecret)...)
	g.GET("/schema", h.Schema)

	// ---- Flat content and images ----
	g.PUT("/content", h.UpsertContent)
	g.POST("/content/batch", h.BatchUpsertContent)
	g.DELETE("/content/:id", h.DeleteContent)
	g.PUT("/images", h.UpsertImage)
	g.DELETE("/images/:id", h.DeleteImage)

	// ---- Structured lists ----
	g.POST("/lists/:page/:listKey", h.AddListItem)
	g.PUT("/lists/items/:id", h.UpdateListItem)
	g.DELETE("/lists/items/:id", h.DeleteListItem)
	g.PUT("/lists/:page/:listKey/order", h.ReorderList)
	g.POST("/lists/:page/:listKey/import", h.ImportLegacyList)
}
