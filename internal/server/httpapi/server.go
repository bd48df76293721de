// Package httpapi exposes the timesheet service over REST. Handlers stay
// thin: decode, call a service with the authenticated Actor, encode. All
// policy lives in the services.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/hourkeep/hourkeep/internal/logging"
	"github.com/hourkeep/hourkeep/internal/server/services"
)

type Server struct {
	address   string
	logger    logging.Logger
	users     *services.UserService
	entries   *services.EntryService
	approvals *services.ApprovalService
	resolver  *services.ResolverService
	reports   *services.ReportService
	exports   *services.ExportService
	notify    *services.NotifyService
	catalog   *services.CatalogService
	jwtSecret []byte
}

func NewServer(
	address string,
	l logging.Logger,
	us *services.UserService,
	es *services.EntryService,
	as *services.ApprovalService,
	rs *services.ResolverService,
	reps *services.ReportService,
	xs *services.ExportService,
	ns *services.NotifyService,
	cs *services.CatalogService,
	secretKey string,
) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		entries:   es,
		approvals: as,
		resolver:  rs,
		reports:   reps,
		exports:   xs,
		notify:    ns,
		catalog:   cs,
		jwtSecret: []byte(secretKey),
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	mux.HandleFunc("GET /api/timeentries", s.requireAuth(s.handleListEntries))
	mux.HandleFunc("POST /api/timeentries", s.requireAuth(s.handleSaveEntry))
	mux.HandleFunc("GET /api/timeentries/range", s.requireAuth(s.handleEntriesRange))
	mux.HandleFunc("GET /api/timeentries/statistics", s.requireAuth(s.handleStatistics))
	mux.HandleFunc("GET /api/timeentries/export", s.requireAuth(s.handleExport))
	mux.HandleFunc("POST /api/timeentries/bulk-approve", s.requireAuth(s.handleBulkApprove))
	mux.HandleFunc("GET /api/timeentries/{id}", s.requireAuth(s.handleGetEntry))
	mux.HandleFunc("PUT /api/timeentries/{id}", s.requireAuth(s.handleSaveEntry))
	mux.HandleFunc("DELETE /api/timeentries/{id}", s.requireAuth(s.handleDeleteEntry))
	mux.HandleFunc("POST /api/timeentries/{id}/approve", s.requireAuth(s.handleApprove))
	mux.HandleFunc("POST /api/timeentries/{id}/reject", s.requireAuth(s.handleReject))
	mux.HandleFunc("GET /api/timeentries/{id}/history", s.requireAuth(s.handleHistory))

	mux.HandleFunc("GET /api/targets", s.requireAuth(s.handleListTargets))
	mux.HandleFunc("POST /api/targets", s.requireAuth(s.handleCreateTarget))
	// legacy aliases kept for the old per-category screens
	mux.HandleFunc("GET /api/projects", s.requireAuth(s.categoryAlias("project")))
	mux.HandleFunc("GET /api/products", s.requireAuth(s.categoryAlias("product")))
	mux.HandleFunc("GET /api/departments", s.requireAuth(s.categoryAlias("department")))

	mux.HandleFunc("GET /api/teams", s.requireAuth(s.handleListTeams))
	mux.HandleFunc("POST /api/teams", s.requireAuth(s.handleCreateTeam))
	mux.HandleFunc("GET /api/teams/{id}/summary", s.requireAuth(s.handleTeamSummary))

	mux.HandleFunc("GET /api/users", s.requireAuth(s.handleListUsers))
	mux.HandleFunc("GET /api/users/{id}/targets", s.requireAuth(s.handleUserTargets))

	mux.HandleFunc("GET /api/notifications", s.requireAuth(s.handleListNotifications))
	mux.HandleFunc("POST /api/notifications/{id}/read", s.requireAuth(s.handleMarkNotificationRead))
	mux.HandleFunc("POST /api/reminders", s.requireAuth(s.handleRemind))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
