package modules

import "officegw/internal/domain"

// NewTeams covers team and channel browsing plus posting to channels and
// one-on-one chats.
func NewTeams(deps Deps) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		ID:          "teams",
		DisplayName: "Teams",
		Requires:    []string{"graph"},
		Capabilities: []string{
			"listTeams", "listChannels", "listChannelMessages",
			"sendChannelMessage", "listChats", "sendChatMessage",
		},
		Handlers: map[string]domain.HandlerFunc{
			"listTeams":           handler(deps, "teams", "listTeams", "listTeams", normalizeTeamList),
			"listChannels":        handler(deps, "teams", "listChannels", "listChannels", normalizeChannelList),
			"listChannelMessages": handler(deps, "teams", "listChannelMessages", "listMessages", normalizeChatMessages),
			"sendChannelMessage":  handler(deps, "teams", "sendChannelMessage", "sendMessage", normalizeChatMessage),
			"listChats":           handler(deps, "teams", "listChats", "listChats", normalizeChatList),
			"sendChatMessage":     handler(deps, "teams", "sendChatMessage", "sendChat", normalizeChatMessage),
		},
	}
}

func normalizeTeamList(resp map[string]any) any {
	teams := []map[string]any{}
	for _, item := range items(resp) {
		t := asMap(item)
		teams = append(teams, map[string]any{
			"id":          strField(t, "id"),
			"displayName": strField(t, "displayName"),
			"description": strField(t, "description"),
		})
	}
	return map[string]any{"teams": teams, "count": len(teams)}
}

func normalizeChannelList(resp map[string]any) any {
	channels := []map[string]any{}
	for _, item := range items(resp) {
		c := asMap(item)
		channels = append(channels, map[string]any{
			"id":          strField(c, "id"),
			"displayName": strField(c, "displayName"),
			"description": strField(c, "description"),
		})
	}
	return map[string]any{"channels": channels, "count": len(channels)}
}

func normalizeChatList(resp map[string]any) any {
	chats := []map[string]any{}
	for _, item := range items(resp) {
		c := asMap(item)
		chats = append(chats, map[string]any{
			"id":        strField(c, "id"),
			"topic":     strField(c, "topic"),
			"chatType":  strField(c, "chatType"),
			"updatedAt": strField(c, "lastUpdatedDateTime"),
		})
	}
	return map[string]any{"chats": chats, "count": len(chats)}
}

func normalizeChatMessages(resp map[string]any) any {
	messages := []map[string]any{}
	for _, item := range items(resp) {
		messages = append(messages, chatMessageShape(asMap(item)))
	}
	return map[string]any{"messages": messages, "count": len(messages)}
}

func normalizeChatMessage(resp map[string]any) any {
	return chatMessageShape(resp)
}

func chatMessageShape(m map[string]any) map[string]any {
	sender := asMap(field(asMap(field(m, "from")), "user"))
	return map[string]any{
		"id":        strField(m, "id"),
		"from":      strField(sender, "displayName"),
		"body":      strField(asMap(field(m, "body")), "content"),
		"createdAt": strField(m, "createdDateTime"),
	}
}
