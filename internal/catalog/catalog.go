// Package catalog accumulates findings for one checking run.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/codewithboateng/lracheck/internal/model"
)

// Catalog is an append-only, concurrency-safe list of findings. Create one
// per run; there is no shared instance.
type Catalog struct {
	mu       sync.Mutex
	findings []model.Finding
	seen     map[string]struct{}
	seq      int
}

func New() *Catalog {
	return &Catalog{seen: map[string]struct{}{}}
}

// Add appends f. Findings are never deduplicated; a repeated ID is replaced
// by a fresh run-local one so stored rows stay distinct.
func (c *Catalog) Add(f model.Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f.ID == "" || !c.put(f.ID) {
		for {
			c.seq++
			candidate := fmt.Sprintf("%s-%06d", f.Code, c.seq)
			if c.put(candidate) {
				f.ID = candidate
				break
			}
		}
	}
	c.findings = append(c.findings, f)
}

func (c *Catalog) put(id string) bool {
	if _, ok := c.seen[id]; ok {
		return false
	}
	c.seen[id] = struct{}{}
	return true
}

func (c *Catalog) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.findings) == 0
}

func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.findings)
}

// Findings returns a copy in insertion order.
func (c *Catalog) Findings() []model.Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Finding, len(c.findings))
	copy(out, c.findings)
	return out
}

// Sorted returns a copy ordered by class, code, then method.
func (c *Catalog) Sorted() []model.Finding {
	out := c.Findings()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// FormatReport renders findings in insertion order, one per line.
func (c *Catalog) FormatReport() string {
	return Format(c.Findings())
}

// Format renders fs one per line, each prefixed by its error code.
func Format(fs []model.Finding) string {
	var sb strings.Builder
	for i, f := range fs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "[%s] %s", f.Code, f.Message)
	}
	return sb.String()
}
