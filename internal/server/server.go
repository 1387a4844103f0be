package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/habitgrid/internal/config"
	"github.com/dukerupert/habitgrid/internal/habit"
	"github.com/dukerupert/habitgrid/internal/handler"
	"github.com/dukerupert/habitgrid/internal/metrics"
	"github.com/dukerupert/habitgrid/internal/middleware"
	"github.com/dukerupert/habitgrid/internal/store"
	ws "github.com/dukerupert/habitgrid/internal/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	engine       *habit.Engine
	authH        *handler.AuthHandler
	habitH       *handler.HabitHandler
	checklistH   *handler.ChecklistHandler
	calendarH    *handler.CalendarHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

// New wires stores, the habit engine, and handlers. loc decides which
// calendar day "today" is.
func New(db *sql.DB, cfg *config.Config, loc *time.Location, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	habitStore := store.NewHabitStore(db)
	eventStore := store.NewHabitEventStore(db)
	checklistStore := store.NewChecklistStore(db)

	engine := habit.NewEngine(eventStore, habitStore, loc)
	views := habit.NewViewCache(cfg.ViewCacheSize, cfg.ViewCacheTTL)

	return &Server{
		db:           db,
		hub:          hub,
		engine:       engine,
		authH:        handler.NewAuthHandler(userStore, sessionStore, views, cfg.SessionTTL, cfg.SecureCookies, logger.With("component", "auth")),
		habitH:       handler.NewHabitHandler(habitStore, engine, hub, logger.With("component", "habit")),
		checklistH:   handler.NewChecklistHandler(checklistStore, hub, logger.With("component", "checklist")),
		calendarH:    handler.NewCalendarHandler(engine, views, logger.With("component", "calendar")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Cleanup purges expired sessions and stale rate-limit windows. It is run
// periodically from main.
func (s *Server) Cleanup() {
	n, err := s.sessionStore.DeleteExpired()
	if err != nil {
		s.logger.Error("purge expired sessions", "error", err)
	} else if n > 0 {
		metrics.SessionsPurged.Add(float64(n))
		s.logger.Info("purged expired sessions", "count", n)
	}
	s.rateLimiter.Cleanup()
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", promhttp.Handler())

	// Protected routes, wrapped with RequireAuth
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, authRateLimit, authRateWindow)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Account
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)

	// Habits
	mux.HandleFunc("GET /api/habits", s.habitH.List)
	mux.HandleFunc("POST /api/habits", s.habitH.Create)
	mux.HandleFunc("PUT /api/habits/{id}", s.habitH.Update)
	mux.HandleFunc("DELETE /api/habits/{id}", s.habitH.Delete)
	mux.HandleFunc("POST /api/habits/{id}/increment", s.habitH.Increment)
	mux.HandleFunc("POST /api/habits/{id}/decrement", s.habitH.Decrement)
	mux.HandleFunc("GET /api/today", s.habitH.Today)
	mux.HandleFunc("GET /api/days/{date}", s.habitH.Day)

	// Calendar
	mux.HandleFunc("GET /api/calendar", s.calendarH.Show)
	mux.HandleFunc("POST /api/calendar/prev", s.calendarH.Prev)
	mux.HandleFunc("POST /api/calendar/next", s.calendarH.Next)
	mux.HandleFunc("POST /api/calendar/today", s.calendarH.Today)
	mux.HandleFunc("POST /api/calendar/select", s.calendarH.Select)

	// Checklist
	mux.HandleFunc("GET /api/checklist", s.checklistH.List)
	mux.HandleFunc("POST /api/checklist", s.checklistH.Create)
	mux.HandleFunc("POST /api/checklist/{id}/toggle", s.checklistH.Toggle)
	mux.HandleFunc("DELETE /api/checklist/{id}", s.checklistH.Delete)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
