package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codewithboateng/lracheck/internal/model"
)

// WriteHTML writes a standalone summary page to <outDir>/<runID>.html.
func WriteHTML(runID, outDir string, run *model.Run) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .ok{color:#1a7f37} .bad{color:#cf222e}</style>")
	fmt.Fprint(f, "</head><body>")

	fmt.Fprintf(f, "<h1>lracheck report - <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	status := "<span class='ok'>PASSED</span>"
	if !run.Passed() {
		status = "<span class='bad'>FAILED</span>"
	}
	fmt.Fprintf(f, "<p>%s &nbsp; Classes: %d &nbsp; Findings: %d", status, len(run.Classes), len(run.Findings))
	if run.Waived > 0 {
		fmt.Fprintf(f, " &nbsp; Waived: %d", run.Waived)
	}
	fmt.Fprint(f, "</p>")
	if len(run.Sources) > 0 {
		fmt.Fprintf(f, "<p class='dim'>Sources: <span class='mono'>%s</span></p>", html.EscapeString(strings.Join(run.Sources, ", ")))
	}
	if n := len(run.Context.DisabledRules); n > 0 {
		fmt.Fprintf(f, "<p class='dim'>Disabled checks: %s</p>", html.EscapeString(strings.Join(run.Context.DisabledRules, ", ")))
	}

	// counts per code, in check order
	counts := map[model.ErrorCode]int{}
	for _, fd := range run.Findings {
		counts[fd.Code]++
	}
	if len(counts) > 0 {
		fmt.Fprint(f, "<h2>By Code</h2><table><tr><th>Code</th><th>Count</th></tr>")
		for _, code := range model.AllCodes {
			if n := counts[code]; n > 0 {
				fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%d</td></tr>", html.EscapeString(string(code)), n)
			}
		}
		fmt.Fprint(f, "</table>")
	}

	if len(run.Classes) > 0 {
		fmt.Fprint(f, "<h2>Classes</h2><table><tr><th>Class</th><th>Findings</th><th>Active callbacks</th></tr>")
		for _, c := range run.Classes {
			fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%d</td><td class='mono'>%s</td></tr>",
				html.EscapeString(string(c.Name)), c.Findings, html.EscapeString(activeList(c.Active)))
		}
		fmt.Fprint(f, "</table>")
	}

	if len(run.Findings) > 0 {
		fmt.Fprint(f, "<h2>All Findings</h2><table><tr><th>Code</th><th>Class</th><th>Method</th><th>Message</th></tr>")
		for _, fd := range run.Findings {
			fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td class='mono'>%s</td><td class='mono'>%s</td><td>%s</td></tr>",
				html.EscapeString(string(fd.Code)),
				html.EscapeString(string(fd.Class)),
				html.EscapeString(fd.Method),
				html.EscapeString(fd.Message),
			)
		}
		fmt.Fprint(f, "</table>")
	} else {
		fmt.Fprint(f, "<h2>All Findings</h2><p class='dim'>No findings.</p>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}

func activeList(active map[model.MarkerKind]string) string {
	parts := make([]string, 0, len(active))
	for k, m := range active {
		parts = append(parts, string(k)+"="+m)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
