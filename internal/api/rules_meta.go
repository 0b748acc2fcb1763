package api

import (
	"net/http"

	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/rules"
)

// GET /api/v1/rules: registered checks plus the expected plain signatures.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	type R struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
		Order   int    `json:"order"`
	}
	var out []R
	for _, rr := range rules.List() {
		out = append(out, R{ID: string(rr.ID), Summary: rr.Summary, Order: rr.Order})
	}
	sigs := make(map[model.MarkerKind]string, len(model.AllKinds))
	for _, k := range model.AllKinds {
		sigs[k] = rules.Signature(k)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out), "signatures": sigs})
}
