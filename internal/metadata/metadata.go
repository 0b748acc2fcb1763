// Package metadata derives the per-kind callback view of a class model.
package metadata

import (
	"github.com/codewithboateng/lracheck/internal/model"
)

// Metadata is a read-only lookup over one ClassModel, computed once.
type Metadata struct {
	class     *model.ClassModel
	declared  map[model.MarkerKind][]model.MethodModel
	winners   map[model.MarkerKind]model.TypeRef
	ambiguous map[model.MarkerKind]bool
}

func Load(c *model.ClassModel) *Metadata {
	md := &Metadata{
		class:     c,
		declared:  make(map[model.MarkerKind][]model.MethodModel, len(model.AllKinds)),
		winners:   make(map[model.MarkerKind]model.TypeRef, len(model.AllKinds)),
		ambiguous: make(map[model.MarkerKind]bool),
	}
	for _, k := range model.AllKinds {
		for _, m := range c.Methods {
			if m.Has(k) {
				md.declared[k] = append(md.declared[k], m)
			}
		}
		if t, ok := winningType(c, k); ok {
			md.winners[k] = t
		}
	}
	for _, k := range model.AllKinds {
		t, ok := md.winners[k]
		if !ok {
			continue
		}
		n := 0
		for _, m := range md.declared[k] {
			if m.DeclaringType == t {
				n++
			}
		}
		md.ambiguous[k] = n > 1
	}
	return md
}

// winningType walks the chain most-derived first and returns the first type
// that directly declares a method carrying k.
func winningType(c *model.ClassModel, k model.MarkerKind) (model.TypeRef, bool) {
	for _, t := range c.AncestorChain {
		for _, m := range c.DeclaredOn(t) {
			if m.Has(k) {
				return t, true
			}
		}
	}
	return "", false
}

func (md *Metadata) Class() *model.ClassModel { return md.class }

// DeclaredMethods returns the flattened methods carrying k.
func (md *Metadata) DeclaredMethods(k model.MarkerKind) []model.MethodModel {
	return md.declared[k]
}

// ResourceMethods splits DeclaredMethods(k) into resource and plain methods.
func (md *Metadata) ResourceMethods(k model.MarkerKind) (resource, plain []model.MethodModel) {
	for _, m := range md.declared[k] {
		if m.IsResource() {
			resource = append(resource, m)
		} else {
			plain = append(plain, m)
		}
	}
	return resource, plain
}

// WinningType is the most-derived type of the chain declaring a k method.
func (md *Metadata) WinningType(k model.MarkerKind) (model.TypeRef, bool) {
	t, ok := md.winners[k]
	return t, ok
}

// Ambiguous reports whether the winning type exposes more than one k method.
func (md *Metadata) Ambiguous(k model.MarkerKind) bool { return md.ambiguous[k] }

// ActiveMethod returns the authoritative k method after override shadowing.
// ok is false when no type declares k, when the winning declaration was
// overridden without the marker, or when the winner is ambiguous.
func (md *Metadata) ActiveMethod(k model.MarkerKind) (model.MethodModel, bool) {
	t, ok := md.winners[k]
	if !ok || md.ambiguous[k] {
		return model.MethodModel{}, false
	}
	for _, m := range md.declared[k] {
		if m.DeclaringType == t {
			return m, true
		}
	}
	return model.MethodModel{}, false
}

// ActiveMethods maps every kind with an active method to its name.
func (md *Metadata) ActiveMethods() map[model.MarkerKind]string {
	out := map[model.MarkerKind]string{}
	for _, k := range model.AllKinds {
		if m, ok := md.ActiveMethod(k); ok {
			out[k] = m.Name
		}
	}
	return out
}
