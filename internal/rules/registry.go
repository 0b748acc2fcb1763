package rules

import (
	"errors"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"

	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/model"
)

// ErrNilClass is returned when the host hands the engine no class model.
var ErrNilClass = errors.New("rules: nil class model")

var (
	registry  []Rule
	ruleIndex = map[string]int{} // UPPER(ruleID) -> index
)

func Register(r Rule) {
	registry = append(registry, r)
	ruleIndex[normID(string(r.ID))] = len(registry) - 1
}

// List returns every registered rule in evaluation order.
func List() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Get returns a rule by ID if registered.
func Get(id string) (Rule, bool) {
	idx, ok := ruleIndex[normID(id)]
	if !ok || idx < 0 || idx >= len(registry) {
		return Rule{}, false
	}
	return registry[idx], true
}

// Sink receives findings; catalog.Catalog satisfies it.
type Sink interface {
	Add(model.Finding)
}

// Engine applies the enabled rules to class models. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	rules []Rule
}

func NewEngine(s Settings) *Engine {
	e := &Engine{}
	for _, r := range List() {
		if s.IsDisabled(string(r.ID)) {
			continue
		}
		e.rules = append(e.rules, r)
	}
	return e
}

// Rules returns the enabled rules.
func (e *Engine) Rules() []Rule { return e.rules }

// Evaluate runs every enabled rule over md. Rules never short-circuit each
// other; findings are returned in rule order.
func (e *Engine) Evaluate(md *metadata.Metadata) []model.Finding {
	var all []model.Finding
	for _, rule := range e.rules {
		fs := rule.Eval(md)
		for k := range fs {
			if fs[k].Class == "" {
				fs[k].Class = md.Class().Name
			}
			if fs[k].ID == "" {
				fs[k].ID = makeID(fs[k])
			}
		}
		all = append(all, fs...)
	}
	return all
}

// Validate loads metadata for c and evaluates it.
func (e *Engine) Validate(c *model.ClassModel) ([]model.Finding, error) {
	if c == nil {
		return nil, ErrNilClass
	}
	if len(c.AncestorChain) == 0 {
		return nil, fmt.Errorf("rules: class %q has an empty ancestor chain", c.Name)
	}
	return e.Evaluate(metadata.Load(c)), nil
}

// Check validates c and appends the findings to sink.
func (e *Engine) Check(c *model.ClassModel, sink Sink) error {
	fs, err := e.Validate(c)
	if err != nil {
		return err
	}
	for _, f := range fs {
		sink.Add(f)
	}
	return nil
}

func makeID(f model.Finding) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s", f.Code, f.Class, f.Method, f.Kind, f.Message)
	sum := crc32.ChecksumIEEE([]byte(data))
	return fmt.Sprintf("%s-%08x", f.Code, sum)
}

func methodNames(ms []model.MethodModel) string {
	names := make([]string, 0, len(ms))
	for _, m := range ms {
		names = append(names, m.Name)
	}
	return strings.Join(names, ", ")
}
