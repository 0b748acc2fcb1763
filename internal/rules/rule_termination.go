package rules

import (
	"fmt"

	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/model"
)

func init() {
	Register(Rule{
		ID:      model.MissingTerminationCallback,
		Summary: "LRA participant declares neither a Compensate nor an AfterLRA callback.",
		Order:   1,
		Eval:    evalTermination,
	})
}

func evalTermination(md *metadata.Metadata) []model.Finding {
	if len(md.DeclaredMethods(model.Compensate)) > 0 || len(md.DeclaredMethods(model.AfterLRA)) > 0 {
		return nil
	}
	name := md.Class().Name
	return []model.Finding{{
		Code:    model.MissingTerminationCallback,
		Class:   name,
		Message: fmt.Sprintf("Class '%s' has no method annotated with '%s' or '%s'.", name, model.Compensate, model.AfterLRA),
	}}
}
