package modules

import "officegw/internal/domain"

// NewContacts is CRUD over the user's personal contact folder.
func NewContacts(deps Deps) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		ID:           "contacts",
		DisplayName:  "Contacts",
		Requires:     []string{"graph"},
		Capabilities: []string{"listContacts", "getContact", "createContact", "updateContact", "deleteContact"},
		Handlers: map[string]domain.HandlerFunc{
			"listContacts":  handler(deps, "contacts", "listContacts", "list", normalizeContactList),
			"getContact":    handler(deps, "contacts", "getContact", "get", normalizeContact),
			"createContact": handler(deps, "contacts", "createContact", "create", normalizeContact),
			"updateContact": handler(deps, "contacts", "updateContact", "update", normalizeContact),
			"deleteContact": handler(deps, "contacts", "deleteContact", "delete", nil),
		},
	}
}

func normalizeContactList(resp map[string]any) any {
	contacts := []map[string]any{}
	for _, item := range items(resp) {
		contacts = append(contacts, contactShape(asMap(item)))
	}
	return map[string]any{"contacts": contacts, "count": len(contacts)}
}

func normalizeContact(resp map[string]any) any {
	return contactShape(resp)
}

func contactShape(m map[string]any) map[string]any {
	addresses := []string{}
	if list, ok := field(m, "emailAddresses").([]any); ok {
		for _, entry := range list {
			if address := strField(asMap(entry), "address"); address != "" {
				addresses = append(addresses, address)
			}
		}
	}
	return map[string]any{
		"id":             strField(m, "id"),
		"displayName":    strField(m, "displayName"),
		"emailAddresses": addresses,
		"phones":         field(m, "businessPhones"),
		"company":        strField(m, "companyName"),
	}
}
