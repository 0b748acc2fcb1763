package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/codewithboateng/lracheck/internal/model"
)

// DiffReport lists findings added, removed and reworded between two runs.
type DiffReport struct {
	BaseID  string        `json:"base_id"`
	HeadID  string        `json:"head_id"`
	Summary DiffSummary   `json:"summary"`
	New     []DiffFinding `json:"new"`
	Removed []DiffFinding `json:"removed"`
	Changed []DiffChanged `json:"changed"`
}

type DiffSummary struct {
	NewCount     int `json:"new"`
	RemovedCount int `json:"removed"`
	ChangedCount int `json:"changed"`
}

type DiffFinding struct {
	Code    string `json:"code"`
	Class   string `json:"class"`
	Method  string `json:"method,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

type DiffChanged struct {
	Key  string      `json:"key"`
	Base DiffFinding `json:"base"`
	Head DiffFinding `json:"head"`
}

// WriteDiffJSON compares two runs and writes <outDir>/diff_<base>__<head>.json.
// Findings are matched on code, class, method and kind; a matched pair whose
// message differs is reported as changed.
func WriteDiffJSON(baseID, headID, outDir string, base, head *model.Run) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(Diff(baseID, headID, base, head), "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

// Diff computes the comparison without writing it.
func Diff(baseID, headID string, base, head *model.Run) DiffReport {
	bm := index(base.Findings)
	hm := index(head.Findings)

	added, removed, changed := []DiffFinding{}, []DiffFinding{}, []DiffChanged{}
	for k, hf := range hm {
		bf, ok := bm[k]
		if !ok {
			added = append(added, asDiff(hf))
			continue
		}
		if strings.TrimSpace(bf.Message) != strings.TrimSpace(hf.Message) {
			changed = append(changed, DiffChanged{Key: k, Base: asDiff(bf), Head: asDiff(hf)})
		}
	}
	for k, bf := range bm {
		if _, ok := hm[k]; !ok {
			removed = append(removed, asDiff(bf))
		}
	}

	sortDiff(added)
	sortDiff(removed)
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	return DiffReport{
		BaseID: baseID, HeadID: headID,
		Summary: DiffSummary{
			NewCount:     len(added),
			RemovedCount: len(removed),
			ChangedCount: len(changed),
		},
		New:     added,
		Removed: removed,
		Changed: changed,
	}
}

// index keys findings; repeated keys (e.g. several conflicting pairs on one
// method) get an ordinal suffix so none is lost.
func index(fs []model.Finding) map[string]model.Finding {
	out := make(map[string]model.Finding, len(fs))
	for _, f := range fs {
		k := keyOf(f)
		for n := 2; ; n++ {
			if _, dup := out[k]; !dup {
				break
			}
			k = keyOf(f) + "#" + strconv.Itoa(n)
		}
		out[k] = f
	}
	return out
}

func keyOf(f model.Finding) string {
	return strings.Join([]string{
		norm(string(f.Code)), string(f.Class), f.Method, norm(string(f.Kind)),
	}, "|")
}

func asDiff(f model.Finding) DiffFinding {
	return DiffFinding{
		Code:    string(f.Code),
		Class:   string(f.Class),
		Method:  f.Method,
		Kind:    string(f.Kind),
		Message: f.Message,
	}
}

func sortDiff(ds []DiffFinding) {
	sort.Slice(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.Message < b.Message
	})
}

func norm(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
