package rules

import (
	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/model"
)

// Rule is a single structural check executed over one participant class.
type Rule struct {
	ID      model.ErrorCode
	Summary string
	// Order fixes the position of the rule's findings in a class's output.
	Order int
	// Eval inspects the class through its metadata and returns findings.
	Eval func(md *metadata.Metadata) []model.Finding
}
