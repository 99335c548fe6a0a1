package modules

import "officegw/internal/domain"

// NewPeople resolves names and address fragments to directory entries.
// findPeople is what recipient coercion leans on, so it sorts first in
// the published catalog.
func NewPeople(deps Deps) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		ID:           "people",
		DisplayName:  "People",
		Requires:     []string{"graph"},
		Capabilities: []string{"findPeople", "getPerson", "getRelevantPeople"},
		Handlers: map[string]domain.HandlerFunc{
			"findPeople":        handler(deps, "people", "findPeople", "find", normalizePersonList),
			"getPerson":         handler(deps, "people", "getPerson", "get", normalizePerson),
			"getRelevantPeople": handler(deps, "people", "getRelevantPeople", "relevant", normalizePersonList),
		},
	}
}

func normalizePersonList(resp map[string]any) any {
	people := []map[string]any{}
	for _, item := range items(resp) {
		people = append(people, personShape(asMap(item)))
	}
	return map[string]any{"people": people, "count": len(people)}
}

func normalizePerson(resp map[string]any) any {
	return personShape(resp)
}

func personShape(m map[string]any) map[string]any {
	address := strField(m, "userPrincipalName", "mail")
	if address == "" {
		if list, ok := field(m, "scoredEmailAddresses").([]any); ok && len(list) > 0 {
			address = strField(asMap(list[0]), "address")
		}
	}
	return map[string]any{
		"id":          strField(m, "id"),
		"displayName": strField(m, "displayName"),
		"address":     address,
		"jobTitle":    strField(m, "jobTitle"),
		"department":  strField(m, "department"),
	}
}
