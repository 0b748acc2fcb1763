package rules

import (
	"strings"

	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/storage"
)

// ApplyWaivers filters out findings that match any active waiver.
// Returns (kept, waivedCount)
func ApplyWaivers(in []model.Finding, waivers []storage.Waiver) ([]model.Finding, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []model.Finding
	waived := 0
nextFinding:
	for _, f := range in {
		for _, w := range waivers {
			if !eqCI(string(f.Code), w.Code) {
				continue
			}
			if w.Class != "" && !eqCI(string(f.Class), w.Class) {
				continue
			}
			if w.Method != "" && !eqCI(f.Method, w.Method) {
				continue
			}
			if w.PatternSub != "" &&
				!strings.Contains(strings.ToUpper(f.Message), strings.ToUpper(w.PatternSub)) {
				continue
			}
			waived++
			continue nextFinding
		}
		out = append(out, f)
	}
	return out, waived
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
