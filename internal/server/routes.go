package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/cybersim/horacero/internal/game"
)

// Options carries the handler tunables that come from configuration.
type Options struct {
	AdminPasswordHash string
	PollIntervalMs    int
	SPADir            string
}

func addRoutes(r chi.Router, logger *slog.Logger, store Store, admin AdminSessions, games *game.Manager, db *sql.DB, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Hora Cero API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Get("/ws/echo", handleWSEcho(logger))

	// Player routes — scoped by access code, no further auth.
	r.Route("/api/sessions/{code}", func(r chi.Router) {
		r.Get("/", handleSessionLookup(store, opts.PollIntervalMs))
		r.Post("/join", handleJoinSession(store, opts.PollIntervalMs))
		r.Get("/state", handleGameState(store, games))
		r.Post("/decision", handleDecision(games))
	})

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(admin, opts.AdminPasswordHash))
	r.Post("/api/admin/logout", handleAdminLogout(admin))
	r.Get("/api/admin/me", handleAdminMe(admin))

	// Admin sessions and reports — cookie required.
	r.Route("/api/admin/sessions", func(r chi.Router) {
		r.Use(adminAuthMiddleware(admin))
		r.Get("/", handleAdminListSessions(store))
		r.Post("/", handleAdminCreateSession(store))
		r.Get("/{code}", handleAdminGetSession(store))
		r.Post("/{code}/start", handleAdminStartSession(store, games))
		r.Post("/{code}/end", handleAdminEndSession(games))
	})
	r.Route("/api/admin/reports", func(r chi.Router) {
		r.Use(adminAuthMiddleware(admin))
		r.Get("/", handleAdminListReports(store))
		r.Get("/{sessionID}", handleAdminGetReport(store))
	})

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}
