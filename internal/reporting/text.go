package reporting

import (
	"fmt"
	"io"

	"github.com/codewithboateng/lracheck/internal/catalog"
	"github.com/codewithboateng/lracheck/internal/model"
)

// WriteText prints the human report: a one-line summary followed by one
// "[CODE] message" line per finding.
func WriteText(w io.Writer, run *model.Run) error {
	if run.Passed() {
		_, err := fmt.Fprintf(w, "OK: %d LRA participant class(es) checked, no findings\n", len(run.Classes))
		return err
	}
	if _, err := fmt.Fprintf(w, "FAILED: %d finding(s) in %d class(es)", len(run.Findings), failingClasses(run)); err != nil {
		return err
	}
	if run.Waived > 0 {
		if _, err := fmt.Fprintf(w, ", %d waived", run.Waived); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", catalog.Format(run.Findings))
	return err
}

func failingClasses(run *model.Run) int {
	seen := map[model.TypeRef]struct{}{}
	for _, f := range run.Findings {
		seen[f.Class] = struct{}{}
	}
	return len(seen)
}
