package rules

import (
	"fmt"
	"strings"

	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/model"
)

func init() {
	Register(Rule{
		ID:      model.WrongPlainSignature,
		Summary: "Non-resource callback does not match the required method signature.",
		Order:   4,
		Eval:    evalPlainSignature,
	})
}

var allowedReturns = map[model.ReturnCategory]bool{
	model.ReturnVoid:              true,
	model.ReturnAsyncHandle:       true,
	model.ReturnParticipantStatus: true,
	model.ReturnHTTPResponse:      true,
}

// expectedParams is the positional parameter shape of a plain callback.
func expectedParams(k model.MarkerKind) []model.ParamCategory {
	switch k {
	case model.AfterLRA:
		return []model.ParamCategory{model.ParamURI, model.ParamLRAStatus}
	default:
		return []model.ParamCategory{model.ParamURI, model.ParamURI}
	}
}

// Signature renders the expected shape for k.
func Signature(k model.MarkerKind) string {
	second := "java.net.URI parentId"
	if k == model.AfterLRA {
		second = "org.eclipse.microprofile.lra.annotation.LRAStatus status"
	}
	return fmt.Sprintf("public void/CompletionStage/ParticipantStatus/Response %s(java.net.URI lraId, %s)",
		strings.ToLower(string(k)), second)
}

func evalPlainSignature(md *metadata.Metadata) []model.Finding {
	var out []model.Finding
	name := md.Class().Name
	for _, k := range model.AllKinds {
		_, plain := md.ResourceMethods(k)
		want := expectedParams(k)
		for _, m := range plain {
			if signatureMatches(m, want) {
				continue
			}
			out = append(out, model.Finding{
				Code:   model.WrongPlainSignature,
				Class:  name,
				Method: m.Name,
				Kind:   k,
				Message: fmt.Sprintf("Signature for annotation '%s' in the class '%s' on method '%s'. It should be '%s'.",
					k, m.DeclaringType, m.Name, Signature(k)),
			})
		}
	}
	return out
}

// signatureMatches allows fewer parameters than expected, but every declared
// one must match its position.
func signatureMatches(m model.MethodModel, want []model.ParamCategory) bool {
	if !m.Public {
		return false
	}
	if len(m.Parameters) > len(want) {
		return false
	}
	for i, p := range m.Parameters {
		if p.Type != want[i] {
			return false
		}
	}
	return allowedReturns[m.Return]
}
