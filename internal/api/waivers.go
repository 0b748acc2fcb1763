package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/codewithboateng/lracheck/internal/rules"
	"github.com/codewithboateng/lracheck/internal/storage"
)

type waiverCreateReq struct {
	Code       string `json:"code"`
	Class      string `json:"class,omitempty"`
	Method     string `json:"method,omitempty"`
	PatternSub string `json:"pattern_sub,omitempty"`
	Reason     string `json:"reason"`
	ExpiresAt  string `json:"expires_at"` // RFC3339
}

func (s *Server) handleListWaivers(w http.ResponseWriter, r *http.Request) {
	active := r.URL.Query().Get("active")
	only := active == "1" || active == "true" || active == "yes"
	ws, err := s.DB.ListWaivers(only)
	if err != nil {
		s.dbErr(w, err)
		return
	}
	if ws == nil {
		ws = []storage.Waiver{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": ws, "active_only": only})
}

func (s *Server) handleCreateWaiver(w http.ResponseWriter, r *http.Request) {
	var in waiverCreateReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.err(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Code == "" || in.Reason == "" || in.ExpiresAt == "" {
		s.err(w, http.StatusBadRequest, "code, reason, expires_at required")
		return
	}
	if _, ok := rules.Get(in.Code); !ok {
		s.err(w, http.StatusBadRequest, "unknown code")
		return
	}
	exp, err := time.Parse(time.RFC3339Nano, in.ExpiresAt)
	if err != nil {
		s.err(w, http.StatusBadRequest, "bad expires_at (use RFC3339)")
		return
	}
	u, _ := userFromCtx(r.Context())
	id, err := s.DB.CreateWaiver(in.Code, in.Class, in.Method, in.PatternSub, in.Reason, u.Username, exp)
	if err != nil {
		s.dbErr(w, err)
		return
	}
	_ = s.UserStore.LogAudit(u.Username, "waiver:create", "waiver:"+strconv.FormatInt(id, 10),
		map[string]any{"code": in.Code, "class": in.Class})
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleRevokeWaiver(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.err(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.DB.RevokeWaiver(id); err != nil {
		s.err(w, http.StatusNotFound, "waiver not found or already revoked")
		return
	}
	u, _ := userFromCtx(r.Context())
	_ = s.UserStore.LogAudit(u.Username, "waiver:revoke", "waiver:"+strconv.FormatInt(id, 10), nil)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
