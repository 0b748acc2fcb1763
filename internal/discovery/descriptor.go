package discovery

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/lracheck/internal/model"
)

// descriptorFile is the on-disk shape of a class descriptor file. JSON files
// decode through the same path since JSON is valid YAML.
type descriptorFile struct {
	Types []TypeDescriptor `yaml:"types"`
}

type TypeDescriptor struct {
	Name        string             `yaml:"name"`
	Kind        string             `yaml:"kind"` // class|interface|enum|annotation
	Abstract    bool               `yaml:"abstract"`
	Superclass  string             `yaml:"superclass"`
	Annotations []string           `yaml:"annotations"`
	Methods     []MethodDescriptor `yaml:"methods"`

	source string
}

type MethodDescriptor struct {
	Name        string            `yaml:"name"`
	Public      *bool             `yaml:"public"` // nil = public
	Annotations []string          `yaml:"annotations"`
	Params      []ParamDescriptor `yaml:"params"`
	Returns     string            `yaml:"returns"`
}

type ParamDescriptor struct {
	Type        string   `yaml:"type"`
	Annotations []string `yaml:"annotations"`
}

// Decode parses one descriptor document.
func Decode(b []byte, source string) ([]TypeDescriptor, error) {
	var f descriptorFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	for i := range f.Types {
		if strings.TrimSpace(f.Types[i].Name) == "" {
			return nil, fmt.Errorf("parse %s: type #%d has no name", source, i+1)
		}
		f.Types[i].Name = strings.TrimSpace(f.Types[i].Name)
		f.Types[i].source = source
	}
	return f.Types, nil
}

func hasAnnotation(as []string, name string) bool {
	for _, a := range as {
		if strings.EqualFold(model.SimpleName(a), name) {
			return true
		}
	}
	return false
}

// instantiable excludes annotations, enums, interfaces and abstract types.
func (t TypeDescriptor) instantiable() bool {
	switch strings.ToLower(strings.TrimSpace(t.Kind)) {
	case "", "class":
		return !t.Abstract
	default:
		return false
	}
}

func (t TypeDescriptor) isParticipant() bool { return hasAnnotation(t.Annotations, "LRA") }

// signature identifies a method for override resolution. Parameter types are
// compared by erased simple name, so URI and java.net.URI match.
func (m MethodDescriptor) signature() string {
	parts := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		parts = append(parts, model.SimpleName(stripGenerics(p.Type)))
	}
	return m.Name + "(" + strings.Join(parts, ",") + ")"
}

func (m MethodDescriptor) toModel(declaring model.TypeRef) model.MethodModel {
	mm := model.MethodModel{
		Name:          m.Name,
		DeclaringType: declaring,
		Return:        returnCategory(m.Returns),
		Public:        m.Public == nil || *m.Public,
	}
	for _, a := range m.Annotations {
		if k, ok := model.ParseMarkerKind(a); ok {
			if !mm.Has(k) {
				mm.Markers = append(mm.Markers, k)
			}
			continue
		}
		if v, ok := model.ParseVerb(a); ok {
			if !mm.HasVerb(v) {
				mm.Verbs = append(mm.Verbs, v)
			}
			continue
		}
		if strings.EqualFold(model.SimpleName(a), "Path") {
			mm.HasPath = true
		}
	}
	for _, p := range m.Params {
		mm.Parameters = append(mm.Parameters, model.ParameterModel{
			Type:      paramCategory(p.Type),
			Suspended: hasAnnotation(p.Annotations, "Suspended"),
		})
	}
	return mm
}

func paramCategory(typ string) model.ParamCategory {
	switch model.SimpleName(stripGenerics(typ)) {
	case "URI":
		return model.ParamURI
	case "LRAStatus":
		return model.ParamLRAStatus
	default:
		return model.ParamOther
	}
}

func returnCategory(typ string) model.ReturnCategory {
	t := strings.TrimSpace(typ)
	if t == "" {
		return model.ReturnVoid
	}
	switch model.SimpleName(stripGenerics(t)) {
	case "void", "Void":
		return model.ReturnVoid
	case "CompletionStage", "CompletableFuture":
		return model.ReturnAsyncHandle
	case "ParticipantStatus":
		return model.ReturnParticipantStatus
	case "Response":
		return model.ReturnHTTPResponse
	default:
		return model.ReturnOther
	}
}

func stripGenerics(t string) string {
	t = strings.TrimSpace(t)
	if i := strings.IndexByte(t, '<'); i != -1 {
		return t[:i]
	}
	return t
}
