package model

import (
	"slices"
	"strings"
)

const Version = "1.0"

// MarkerKind is one of the six LRA lifecycle callback roles.
type MarkerKind string

const (
	Compensate MarkerKind = "Compensate"
	Complete   MarkerKind = "Complete"
	AfterLRA   MarkerKind = "AfterLRA"
	Forget     MarkerKind = "Forget"
	Status     MarkerKind = "Status"
	Leave      MarkerKind = "Leave"
)

// AllKinds lists every marker kind in evaluation order.
var AllKinds = []MarkerKind{Compensate, Complete, AfterLRA, Forget, Status, Leave}

// ParseMarkerKind accepts a simple or fully-qualified annotation name
// (e.g. "Compensate" or "org.eclipse.microprofile.lra.annotation.Compensate").
func ParseMarkerKind(name string) (MarkerKind, bool) {
	simple := SimpleName(name)
	for _, k := range AllKinds {
		if strings.EqualFold(simple, string(k)) {
			return k, true
		}
	}
	return "", false
}

// Verb is an HTTP verb attribute attached to a resource method.
type Verb string

const (
	GET     Verb = "GET"
	PUT     Verb = "PUT"
	POST    Verb = "POST"
	DELETE  Verb = "DELETE"
	HEAD    Verb = "HEAD"
	PATCH   Verb = "PATCH"
	OPTIONS Verb = "OPTIONS"
)

var allVerbs = []Verb{GET, PUT, POST, DELETE, HEAD, PATCH, OPTIONS}

func ParseVerb(name string) (Verb, bool) {
	simple := strings.ToUpper(SimpleName(name))
	for _, v := range allVerbs {
		if simple == string(v) {
			return v, true
		}
	}
	return "", false
}

// ParamCategory classifies a parameter type for signature matching.
type ParamCategory string

const (
	ParamURI       ParamCategory = "URI"
	ParamLRAStatus ParamCategory = "LRAStatus"
	ParamOther     ParamCategory = "Other"
)

// ReturnCategory classifies a method's return type.
type ReturnCategory string

const (
	ReturnVoid              ReturnCategory = "Void"
	ReturnAsyncHandle       ReturnCategory = "AsyncHandle"
	ReturnParticipantStatus ReturnCategory = "ParticipantStatus"
	ReturnHTTPResponse      ReturnCategory = "HttpResponse"
	ReturnOther             ReturnCategory = "Other"
)

// TypeRef is the fully-qualified name of a type.
type TypeRef string

func (t TypeRef) String() string { return string(t) }

// ClassModel is the structural description of one LRA participant type.
//
// AncestorChain runs most-derived first and ends at the root type. Methods
// is the flattened view with overridden ancestor declarations already
// removed. Declared holds the methods declared directly on each type of the
// chain, including declarations shadowed out of Methods.
type ClassModel struct {
	Name          TypeRef                   `json:"name"`
	AncestorChain []TypeRef                 `json:"ancestor_chain"`
	Methods       []MethodModel             `json:"methods"`
	Declared      map[TypeRef][]MethodModel `json:"declared,omitempty"`
}

// DeclaredOn returns the methods declared directly on t. Types missing from
// Declared fall back to the flattened methods whose declaring type is t.
func (c *ClassModel) DeclaredOn(t TypeRef) []MethodModel {
	if ms, ok := c.Declared[t]; ok {
		return ms
	}
	var out []MethodModel
	for _, m := range c.Methods {
		if m.DeclaringType == t {
			out = append(out, m)
		}
	}
	return out
}

type MethodModel struct {
	Name          string           `json:"name"`
	DeclaringType TypeRef          `json:"declaring_type"`
	Markers       []MarkerKind     `json:"markers,omitempty"`
	HasPath       bool             `json:"has_path,omitempty"`
	Verbs         []Verb           `json:"verbs,omitempty"`
	Parameters    []ParameterModel `json:"parameters,omitempty"`
	Return        ReturnCategory   `json:"return"`
	Public        bool             `json:"public"`
}

func (m MethodModel) Has(k MarkerKind) bool { return slices.Contains(m.Markers, k) }

func (m MethodModel) HasVerb(v Verb) bool { return slices.Contains(m.Verbs, v) }

// IsResource reports whether the method is exposed as an HTTP endpoint.
func (m MethodModel) IsResource() bool { return m.HasPath }

// HasSuspendedParam reports whether any parameter completes asynchronously.
func (m MethodModel) HasSuspendedParam() bool {
	for _, p := range m.Parameters {
		if p.Suspended {
			return true
		}
	}
	return false
}

type ParameterModel struct {
	Type      ParamCategory `json:"type"`
	Suspended bool          `json:"suspended,omitempty"`
}

// SimpleName strips any package qualifier and a leading '@'.
func SimpleName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	if i := strings.LastIndexAny(name, ".$"); i != -1 {
		return name[i+1:]
	}
	return name
}
