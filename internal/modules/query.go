package modules

import "officegw/internal/domain"

// NewQuery backs the catalog's synthetic query tool. It is dispatched by
// name but never registered, so the catalog does not derive a second tool
// from it.
func NewQuery(deps Deps) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		ID:           "query",
		DisplayName:  "Query",
		Requires:     []string{"graph"},
		Capabilities: []string{"processQuery"},
		Handlers: map[string]domain.HandlerFunc{
			"processQuery": handler(deps, "query", "query", "processQuery", nil),
		},
	}
}
