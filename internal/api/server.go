package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/codewithboateng/lracheck/internal/metrics"
	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/reporting"
	"github.com/codewithboateng/lracheck/internal/storage"
)

// Store is the minimal contract the API needs.
type Store interface {
	ListRuns(limit, offset int) ([]storage.RunRow, error)
	LoadRun(id string) (model.Run, error)
	LoadLatestRun() (model.Run, error)
	ListFindings(runID, code string) ([]model.Finding, error)

	ListWaivers(activeOnly bool) ([]storage.Waiver, error)
	CreateWaiver(code, class, method, pattern, reason, createdBy string, expires time.Time) (int64, error)
	RevokeWaiver(id int64) error
}

// UserStore is the auth/audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	DB              Store
	UserStore       UserStore
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
	AllowedOrigins  []string
	SessionDuration time.Duration
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", withCORS(s, s.handleHealth))

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", withCORS(s, s.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/logout", withCORS(s, withAuth(s, s.handleLogout, "auth:logout")))
	mux.HandleFunc("GET /api/v1/me", withCORS(s, withAuth(s, s.handleMe, "me")))

	// Runs
	mux.HandleFunc("GET /api/v1/runs", withCORS(s, s.handleListRuns))
	mux.HandleFunc("GET /api/v1/runs/latest", withCORS(s, s.handleGetLatest))
	mux.HandleFunc("GET /api/v1/runs/{id}", withCORS(s, s.handleGetRun))
	mux.HandleFunc("GET /api/v1/runs/{id}/findings", withCORS(s, s.handleListFindings))
	mux.HandleFunc("GET /api/v1/diff", withCORS(s, s.handleDiff))

	// Check inventory
	mux.HandleFunc("GET /api/v1/rules", withCORS(s, s.handleRules))

	// Waivers
	mux.HandleFunc("GET /api/v1/waivers", withCORS(s, withAuth(s, s.handleListWaivers, "waivers:list")))
	mux.HandleFunc("POST /api/v1/waivers", withCORS(s, withAdmin(s, s.handleCreateWaiver, "waivers:create")))
	mux.HandleFunc("POST /api/v1/waivers/{id}/revoke", withCORS(s, withAdmin(s, s.handleRevokeWaiver, "waivers:revoke")))

	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}

	mux.HandleFunc("/", withCORS(s, http.NotFound))
	return withLogging(s, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"model_version": model.Version,
		"timestamp":     time.Now().UTC(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 20), 1, 200)
	offset := max(parseInt(q.Get("offset"), 0), 0)

	rows, err := s.DB.ListRuns(limit, offset)
	if err != nil {
		s.dbErr(w, err)
		return
	}
	if rows == nil {
		rows = []storage.RunRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadLatestRun()
	if err != nil {
		s.runErr(w, err, "no runs")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadRun(r.PathValue("id"))
	if err != nil {
		s.runErr(w, err, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListFindings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.DB.LoadRun(id); err != nil {
		s.runErr(w, err, "run not found")
		return
	}
	code := r.URL.Query().Get("code")
	items, err := s.DB.ListFindings(id, code)
	if err != nil {
		s.dbErr(w, err)
		return
	}
	if items == nil {
		items = []model.Finding{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": id, "code": code, "items": items, "count": len(items),
	})
}

// GET /api/v1/diff?base=<id>&head=<id>
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	baseID, headID := q.Get("base"), q.Get("head")
	if baseID == "" || headID == "" {
		s.err(w, http.StatusBadRequest, "base and head required")
		return
	}
	base, err := s.DB.LoadRun(baseID)
	if err != nil {
		s.runErr(w, err, "base run not found")
		return
	}
	head, err := s.DB.LoadRun(headID)
	if err != nil {
		s.runErr(w, err, "head run not found")
		return
	}
	writeJSON(w, http.StatusOK, reporting.Diff(baseID, headID, &base, &head))
}

func (s *Server) runErr(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, storage.ErrNotFound) {
		s.err(w, http.StatusNotFound, notFound)
		return
	}
	s.dbErr(w, err)
}

func (s *Server) dbErr(w http.ResponseWriter, err error) {
	s.logger().Error("store failure", "err", err)
	s.err(w, http.StatusInternalServerError, "db error")
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
