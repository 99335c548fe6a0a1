package modules

import "officegw/internal/domain"

// NewSearch is the unified search surface across mail, events, files,
// and people.
func NewSearch(deps Deps) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		ID:           "search",
		DisplayName:  "Search",
		Requires:     []string{"graph"},
		Capabilities: []string{"search"},
		Handlers: map[string]domain.HandlerFunc{
			"search": handler(deps, "search", "search", "search", normalizeSearchHits),
		},
	}
}

func normalizeSearchHits(resp map[string]any) any {
	hits := []map[string]any{}
	for _, container := range items(resp) {
		for _, entry := range asList(field(asMap(container), "hitsContainers")) {
			hc := asMap(entry)
			for _, hit := range asList(field(hc, "hits")) {
				h := asMap(hit)
				resource := asMap(field(h, "resource"))
				hits = append(hits, map[string]any{
					"id":      strField(h, "hitId"),
					"type":    strField(resource, "@odata.type"),
					"summary": strField(h, "summary"),
					"rank":    field(h, "rank"),
					"name":    strField(resource, "name", "subject", "displayName"),
					"webUrl":  strField(resource, "webUrl", "webLink"),
				})
			}
		}
	}
	return map[string]any{"hits": hits, "count": len(hits)}
}

func asList(value any) []any {
	if list, ok := value.([]any); ok {
		return list
	}
	return nil
}
