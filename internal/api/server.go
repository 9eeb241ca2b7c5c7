package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Nash0810/docktor/internal/ir"
	"github.com/Nash0810/docktor/internal/optimizer"
	"github.com/Nash0810/docktor/internal/parser"
	"github.com/Nash0810/docktor/internal/rules"
	"github.com/Nash0810/docktor/internal/storage"
)

// Store is the minimal persistence contract the API needs.
type Store interface {
	ListRuns(limit, offset int) ([]storage.RunRow, error)
	LoadRun(id string) (ir.Run, error)
	LoadLatestRun() (ir.Run, error)
	ListIssues(runID, minSeverity string) ([]ir.Issue, error)

	ListIgnores(activeOnly bool) ([]storage.Ignore, error)
	CreateIgnore(ruleID string, line int, pattern, reason, createdBy string, expires time.Time) (int64, error)
	RevokeIgnore(id int64) error
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
	Logger          *slog.Logger
	SessionDuration time.Duration
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	withCORS := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			h(w, r)
		}
	}

	// Health
	mux.HandleFunc("GET /api/v1/health", withCORS(s.handleHealth))

	// Ad-hoc analysis
	mux.HandleFunc("POST /api/v1/lint", withCORS(s.handleLint))

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", withCORS(s.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/logout", withCORS(withAuth(s, s.handleLogout, "auth:logout")))
	mux.HandleFunc("GET /api/v1/me", withCORS(withAuth(s, s.handleMe, "me")))

	// Run history
	mux.HandleFunc("GET /api/v1/runs", withCORS(s.handleListRuns))
	mux.HandleFunc("GET /api/v1/runs/latest", withCORS(s.handleGetLatest))
	mux.HandleFunc("GET /api/v1/runs/{id}", withCORS(s.handleGetRun))
	mux.HandleFunc("GET /api/v1/runs/{id}/issues", withCORS(s.handleListIssues))

	// Rules inventory
	mux.HandleFunc("GET /api/v1/rules", withCORS(s.handleRules))

	// Ignores
	mux.HandleFunc("GET /api/v1/ignores", withCORS(withAuth(s, s.handleListIgnores, "ignores:list")))
	mux.HandleFunc("POST /api/v1/ignores", withCORS(withAdmin(s, s.handleCreateIgnore, "ignores:create")))
	mux.HandleFunc("POST /api/v1/ignores/{id}/revoke", withCORS(withAdmin(s, s.handleRevokeIgnore, "ignores:revoke")))

	mux.HandleFunc("/", withCORS(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC(),
	})
}

type lintReq struct {
	Dockerfile string `json:"dockerfile"`
	Optimize   bool   `json:"optimize,omitempty"`
}

// handleLint analyzes posted Dockerfile text without persisting a run.
func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	var in lintReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.err(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Dockerfile) == "" {
		s.err(w, http.StatusBadRequest, "dockerfile is required")
		return
	}
	ins := parser.Parse(in.Dockerfile)
	issues := rules.Evaluate(ins)

	resp := map[string]any{
		"instructions": len(ins),
		"issues":       issues,
	}
	if in.Optimize {
		result := optimizer.Optimize(ins)
		resp["optimized_dockerfile"] = optimizer.Render(result.Instructions)
		resp["applied_optimizations"] = result.Applied
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 20), 1, 200)
	offset := parseInt(q.Get("offset"), 0)

	rows, err := s.DB.ListRuns(limit, offset)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadLatestRun()
	if err != nil {
		s.err(w, http.StatusNotFound, "no runs")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadRun(r.PathValue("id"))
	if err != nil {
		s.err(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	min := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("min_severity")))
	if min == "" {
		min = ir.SeverityInfo
	}
	items, err := s.DB.ListIssues(id, min)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": id, "min_severity": min, "items": items,
	})
}

// handleRules lists the active rule catalog (no auth needed for read-only).
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	type R struct {
		ID              string `json:"id"`
		Summary         string `json:"summary"`
		Type            string `json:"type"`
		DefaultSeverity string `json:"default_severity"`
		Docs            string `json:"docs,omitempty"`
	}
	var out []R
	for _, rr := range rules.List() {
		out = append(out, R{
			ID: rr.ID, Summary: rr.Summary, Type: rr.Type,
			DefaultSeverity: rr.DefaultSeverity, Docs: rr.Docs,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
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
