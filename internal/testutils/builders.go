package testutils

import "github.com/codewithboateng/lracheck/internal/model"

// Class builds a single-type ClassModel whose chain is name -> java.lang.Object.
func Class(name string, methods ...model.MethodModel) *model.ClassModel {
	ref := model.TypeRef(name)
	for i := range methods {
		if methods[i].DeclaringType == "" {
			methods[i].DeclaringType = ref
		}
	}
	return &model.ClassModel{
		Name:          ref,
		AncestorChain: []model.TypeRef{ref, "java.lang.Object"},
		Methods:       methods,
	}
}

// Plain is a public plain-style callback with the (URI, URI) -> void shape.
func Plain(name string, kinds ...model.MarkerKind) model.MethodModel {
	return model.MethodModel{
		Name:       name,
		Markers:    kinds,
		Parameters: []model.ParameterModel{{Type: model.ParamURI}, {Type: model.ParamURI}},
		Return:     model.ReturnVoid,
		Public:     true,
	}
}

// Resource is a public resource method carrying a path and the given verbs.
func Resource(name string, kind model.MarkerKind, verbs ...model.Verb) model.MethodModel {
	return model.MethodModel{
		Name:       name,
		Markers:    []model.MarkerKind{kind},
		HasPath:    true,
		Verbs:      verbs,
		Parameters: []model.ParameterModel{{Type: model.ParamURI}},
		Return:     model.ReturnHTTPResponse,
		Public:     true,
	}
}

// Suspended appends an asynchronous response parameter to m.
func Suspended(m model.MethodModel) model.MethodModel {
	m.Parameters = append(append([]model.ParameterModel(nil), m.Parameters...),
		model.ParameterModel{Type: model.ParamOther, Suspended: true})
	return m
}

// Codes returns the codes of fs in order.
func Codes(fs []model.Finding) []model.ErrorCode {
	out := make([]model.ErrorCode, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Code)
	}
	return out
}

// OfCode filters fs by code.
func OfCode(fs []model.Finding, code model.ErrorCode) []model.Finding {
	var out []model.Finding
	for _, f := range fs {
		if f.Code == code {
			out = append(out, f)
		}
	}
	return out
}
