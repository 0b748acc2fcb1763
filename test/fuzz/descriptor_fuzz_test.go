package fuzz

import (
	"testing"

	"github.com/codewithboateng/lracheck/internal/discovery"
	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/rules"
)

// Fuzz the descriptor decoder with arbitrary content to ensure we never panic.
func FuzzDecodeNoPanic(f *testing.F) {
	seeds := []string{
		"types:\n  - name: A\n    annotations: [LRA]\n",
		`{"types": [{"name": "A", "methods": [{"name": "m", "params": [{"type": "URI"}]}]}]}`,
		"types: [",
		"garbage-but-should-not-panic\n",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = discovery.Decode(data, "fuzz.yaml") // we only assert "no panic"
	})
}

// Any well-formed method mix must evaluate without panicking.
func FuzzEngineNoPanic(f *testing.F) {
	f.Add(uint8(0b000011), uint8(2), true, false)
	f.Add(uint8(0b111111), uint8(0), false, true)
	f.Fuzz(func(t *testing.T, kinds, params uint8, path, suspended bool) {
		m := model.MethodModel{Name: "m", DeclaringType: "F", HasPath: path, Public: true}
		for i, k := range model.AllKinds {
			if kinds&(1<<i) != 0 {
				m.Markers = append(m.Markers, k)
			}
		}
		for i := 0; i < int(params%4); i++ {
			m.Parameters = append(m.Parameters, model.ParameterModel{Type: model.ParamURI})
		}
		if suspended {
			m.Parameters = append(m.Parameters, model.ParameterModel{Type: model.ParamOther, Suspended: true})
		}
		c := &model.ClassModel{Name: "F", AncestorChain: []model.TypeRef{"F"}, Methods: []model.MethodModel{m, m}}
		fs := rules.NewEngine(rules.DefaultSettings()).Evaluate(metadata.Load(c))
		for _, x := range fs {
			if x.Message == "" || x.Class != "F" {
				t.Fatalf("malformed finding %+v", x)
			}
		}
	})
}
