package rules

import (
	"fmt"

	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/model"
)

func init() {
	Register(Rule{
		ID:      model.IncompleteAsyncHandling,
		Summary: "Asynchronous Compensate/Complete resource requires Status and Forget callbacks.",
		Order:   6,
		Eval:    evalAsyncHandling,
	})
}

func evalAsyncHandling(md *metadata.Metadata) []model.Finding {
	if len(md.DeclaredMethods(model.Status)) > 0 && len(md.DeclaredMethods(model.Forget)) > 0 {
		return nil
	}
	var out []model.Finding
	name := md.Class().Name
	for _, k := range []model.MarkerKind{model.Compensate, model.Complete} {
		resource, _ := md.ResourceMethods(k)
		if len(resource) == 0 || !resource[0].HasSuspendedParam() {
			continue
		}
		m := resource[0]
		out = append(out, model.Finding{
			Code:   model.IncompleteAsyncHandling,
			Class:  name,
			Method: m.Name,
			Kind:   k,
			Message: fmt.Sprintf("Method '%s' of class '%s' annotated with '%s' is asynchronous via a suspended parameter. "+
				"The LRA class has to contain '%s' and '%s' methods to activate such handling.",
				m.Name, m.DeclaringType, k, model.Status, model.Forget),
		})
	}
	return out
}
