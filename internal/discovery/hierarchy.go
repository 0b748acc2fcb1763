package discovery

import (
	"fmt"

	"github.com/codewithboateng/lracheck/internal/model"
)

// RootType terminates chains whose top type names no superclass.
const RootType model.TypeRef = "java.lang.Object"

// buildClass resolves t's ancestor chain across index and flattens its
// methods so that a descendant's declaration shadows any ancestor method
// with the same signature.
func buildClass(t TypeDescriptor, index map[string]TypeDescriptor) (model.ClassModel, error) {
	c := model.ClassModel{
		Name:     model.TypeRef(t.Name),
		Declared: map[model.TypeRef][]model.MethodModel{},
	}

	var known []TypeDescriptor
	visited := map[string]bool{}
	cur := t
	for {
		if visited[cur.Name] {
			return model.ClassModel{}, fmt.Errorf("%w: %s revisits %s", ErrCyclicHierarchy, t.Name, cur.Name)
		}
		visited[cur.Name] = true
		ref := model.TypeRef(cur.Name)
		c.AncestorChain = append(c.AncestorChain, ref)
		known = append(known, cur)

		sup := cur.Superclass
		if sup == "" {
			if ref != RootType {
				c.AncestorChain = append(c.AncestorChain, RootType)
			}
			break
		}
		next, ok := index[sup]
		if !ok {
			// outside the scanned set; it becomes the root
			c.AncestorChain = append(c.AncestorChain, model.TypeRef(sup))
			break
		}
		cur = next
	}

	seen := map[string]bool{}
	for _, td := range known {
		ref := model.TypeRef(td.Name)
		declared := make([]model.MethodModel, 0, len(td.Methods))
		for _, md := range td.Methods {
			mm := md.toModel(ref)
			declared = append(declared, mm)
			sig := md.signature()
			if seen[sig] {
				continue
			}
			seen[sig] = true
			c.Methods = append(c.Methods, mm)
		}
		c.Declared[ref] = declared
	}
	return c, nil
}
