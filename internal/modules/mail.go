package modules

import "officegw/internal/domain"

// NewMail exposes the user's mailbox: listing, reading, searching, and
// sending messages plus flag, move, delete, folders, and drafts.
func NewMail(deps Deps) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		ID:          "mail",
		DisplayName: "Mail",
		Requires:    []string{"graph"},
		Capabilities: []string{
			"listEmails", "getEmail", "sendEmail", "searchEmails",
			"flagEmail", "moveEmail", "deleteEmail", "listFolders", "createDraft",
		},
		Handlers: map[string]domain.HandlerFunc{
			"listEmails":   handler(deps, "mail", "listEmails", "list", normalizeMessageList),
			"getEmail":     handler(deps, "mail", "getEmail", "get", normalizeMessage),
			"sendEmail":    handler(deps, "mail", "sendEmail", "send", nil),
			"searchEmails": handler(deps, "mail", "searchEmails", "search", normalizeMessageList),
			"flagEmail":    handler(deps, "mail", "flagEmail", "flag", nil),
			"moveEmail":    handler(deps, "mail", "moveEmail", "move", nil),
			"deleteEmail":  handler(deps, "mail", "deleteEmail", "delete", nil),
			"listFolders":  handler(deps, "mail", "listFolders", "listFolders", normalizeFolderList),
			"createDraft":  handler(deps, "mail", "createDraft", "createDraft", normalizeMessage),
		},
	}
}

func normalizeMessageList(resp map[string]any) any {
	messages := []map[string]any{}
	for _, item := range items(resp) {
		messages = append(messages, messageShape(asMap(item)))
	}
	return map[string]any{"messages": messages, "count": len(messages)}
}

func normalizeMessage(resp map[string]any) any {
	return messageShape(resp)
}

func messageShape(m map[string]any) map[string]any {
	from := asMap(field(m, "from"))
	sender := asMap(field(from, "emailAddress"))
	return map[string]any{
		"id":             strField(m, "id"),
		"subject":        strField(m, "subject"),
		"from":           strField(sender, "address"),
		"fromName":       strField(sender, "name"),
		"receivedAt":     strField(m, "receivedDateTime"),
		"preview":        strField(m, "bodyPreview"),
		"isRead":         field(m, "isRead"),
		"hasAttachments": field(m, "hasAttachments"),
		"webLink":        strField(m, "webLink"),
	}
}

func normalizeFolderList(resp map[string]any) any {
	folders := []map[string]any{}
	for _, item := range items(resp) {
		f := asMap(item)
		folders = append(folders, map[string]any{
			"id":          strField(f, "id"),
			"displayName": strField(f, "displayName"),
			"unreadCount": field(f, "unreadItemCount"),
			"totalCount":  field(f, "totalItemCount"),
		})
	}
	return map[string]any{"folders": folders, "count": len(folders)}
}
