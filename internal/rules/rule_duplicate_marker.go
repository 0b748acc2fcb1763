package rules

import (
	"fmt"

	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/model"
)

func init() {
	Register(Rule{
		ID:      model.DuplicateMarker,
		Summary: "More than one method of the class carries the same LRA callback annotation.",
		Order:   2,
		Eval:    evalDuplicateMarker,
	})
}

// Status and Leave are held to the same limit as the other kinds.
func evalDuplicateMarker(md *metadata.Metadata) []model.Finding {
	var out []model.Finding
	name := md.Class().Name
	for _, k := range model.AllKinds {
		ms := md.DeclaredMethods(k)
		if len(ms) <= 1 {
			continue
		}
		out = append(out, model.Finding{
			Code:    model.DuplicateMarker,
			Class:   name,
			Kind:    k,
			Method:  ms[0].Name,
			Message: fmt.Sprintf("Multiple annotations '%s' in the class '%s' on methods [%s].", k, name, methodNames(ms)),
		})
	}
	return out
}
