package rules

import (
	"fmt"

	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/model"
)

func init() {
	Register(Rule{
		ID:      model.MissingComplementaryAttribute,
		Summary: "Resource callback misses the path or HTTP verb annotation its kind requires.",
		Order:   5,
		Eval:    evalComplementary,
	})
}

// PathAttribute names the path requirement in findings.
const PathAttribute = "Path"

type requirement struct {
	path bool
	verb model.Verb
}

var requirements = map[model.MarkerKind]requirement{
	model.Compensate: {path: true, verb: model.PUT},
	model.Complete:   {path: true, verb: model.PUT},
	model.AfterLRA:   {path: true, verb: model.PUT},
	model.Status:     {path: true, verb: model.GET},
	model.Leave:      {verb: model.PUT},
	model.Forget:     {verb: model.DELETE},
}

func evalComplementary(md *metadata.Metadata) []model.Finding {
	var out []model.Finding
	name := md.Class().Name
	for _, k := range model.AllKinds {
		resource, _ := md.ResourceMethods(k)
		if len(resource) == 0 {
			continue
		}
		// only the first one; duplicates are reported by DUPLICATE-MARKER
		m := resource[0]
		req := requirements[k]
		var missing []string
		if req.path && !m.HasPath {
			missing = append(missing, PathAttribute)
		}
		if !m.HasVerb(req.verb) {
			missing = append(missing, string(req.verb))
		}
		for _, attr := range missing {
			out = append(out, model.Finding{
				Code:   model.MissingComplementaryAttribute,
				Class:  name,
				Method: m.Name,
				Kind:   k,
				Message: fmt.Sprintf("Method '%s' of class '%s' annotated with '%s' misses complementary annotation '%s'.",
					m.Name, m.DeclaringType, k, attr),
			})
		}
	}
	return out
}
