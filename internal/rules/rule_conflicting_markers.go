package rules

import (
	"fmt"

	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/model"
)

func init() {
	Register(Rule{
		ID:      model.ConflictingMarkers,
		Summary: "A single method carries two different LRA callback annotations.",
		Order:   3,
		Eval:    evalConflictingMarkers,
	})
}

func evalConflictingMarkers(md *metadata.Metadata) []model.Finding {
	var out []model.Finding
	c := md.Class()
	for _, m := range c.Methods {
		// pairs are taken in AllKinds order so the finding does not depend on
		// the order the markers were attached in
		for i, k1 := range model.AllKinds {
			if !m.Has(k1) {
				continue
			}
			for _, k2 := range model.AllKinds[i+1:] {
				if !m.Has(k2) {
					continue
				}
				out = append(out, model.Finding{
					Code:   model.ConflictingMarkers,
					Class:  c.Name,
					Method: m.Name,
					Kind:   k1,
					Message: fmt.Sprintf("Method '%s' of class '%s' carries both '%s' and '%s' annotations.",
						m.Name, m.DeclaringType, k1, k2),
				})
			}
		}
	}
	return out
}
