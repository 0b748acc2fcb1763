package perf

import (
	"context"
	"fmt"
	"testing"

	"github.com/codewithboateng/lracheck/internal/catalog"
	"github.com/codewithboateng/lracheck/internal/checker"
	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/rules"
)

func benchClasses(n int) []model.ClassModel {
	out := make([]model.ClassModel, 0, n)
	for i := 0; i < n; i++ {
		name := model.TypeRef(fmt.Sprintf("com.acme.bench.P%04d", i))
		uri := []model.ParameterModel{{Type: model.ParamURI}}
		out = append(out, model.ClassModel{
			Name:          name,
			AncestorChain: []model.TypeRef{name, "java.lang.Object"},
			Methods: []model.MethodModel{
				{Name: "compensate", DeclaringType: name, Markers: []model.MarkerKind{model.Compensate},
					HasPath: true, Verbs: []model.Verb{model.PUT}, Parameters: uri, Return: model.ReturnHTTPResponse, Public: true},
				{Name: "complete", DeclaringType: name, Markers: []model.MarkerKind{model.Complete},
					HasPath: true, Verbs: []model.Verb{model.POST}, Parameters: uri, Return: model.ReturnHTTPResponse, Public: true},
				{Name: "status", DeclaringType: name, Markers: []model.MarkerKind{model.Status, model.Forget},
					Parameters: uri, Return: model.ReturnParticipantStatus, Public: true},
			},
		})
	}
	return out
}

func benchmarkCheck(b *testing.B, parallelism int) {
	classes := benchClasses(500)
	engine := rules.NewEngine(rules.DefaultSettings())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cat := catalog.New()
		if _, err := checker.Check(context.Background(), classes, engine, cat, checker.Options{Parallelism: parallelism}); err != nil {
			b.Fatal(err)
		}
		if cat.IsEmpty() {
			b.Fatal("expected findings")
		}
	}
}

func BenchmarkCheck_Sequential(b *testing.B) { benchmarkCheck(b, 1) }
func BenchmarkCheck_Parallel(b *testing.B)   { benchmarkCheck(b, 8) }
