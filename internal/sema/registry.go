package sema

import "scenec/internal/ast"

// idRegistry maps id values to every attribute declaring them, in document
// order. One registry lives for exactly one Validate call.
type idRegistry struct {
	order []string
	byID  map[string][]*ast.Attribute
}

func newIDRegistry() *idRegistry {
	return &idRegistry{byID: make(map[string][]*ast.Attribute)}
}

func (r *idRegistry) register(a *ast.Attribute) {
	if _, seen := r.byID[a.Value]; !seen {
		r.order = append(r.order, a.Value)
	}
	r.byID[a.Value] = append(r.byID[a.Value], a)
}

// first returns the earliest declaration of id.
func (r *idRegistry) first(id string) (*ast.Attribute, bool) {
	decls := r.byID[id]
	if len(decls) == 0 {
		return nil, false
	}
	return decls[0], true
}

// duplicates calls fn for every id declared more than once, in order of first sight.
func (r *idRegistry) duplicates(fn func(id string, decls []*ast.Attribute)) {
	for _, id := range r.order {
		if decls := r.byID[id]; len(decls) > 1 {
			fn(id, decls)
		}
	}
}

// owners returns id -> first owning tag.
func (r *idRegistry) owners() map[string]*ast.Tag {
	out := make(map[string]*ast.Tag, len(r.order))
	for _, id := range r.order {
		out[id] = r.byID[id][0].OwnerTag()
	}
	return out
}
