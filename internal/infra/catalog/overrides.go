package catalog

import "officegw/internal/domain"

// ToolOverride pins down the descriptor for a known capability. Anything
// not listed here falls back to the derivation rules in catalog.go. The
// override table is the single source of truth for endpoint templates;
// route registration derives from it.
type ToolOverride struct {
	Description string
	Endpoint    string
	Method      domain.HTTPMethod
	Parameters  map[string]domain.ParamSchema
	Mapping     map[string]domain.Placement
}

func str(description string) domain.ParamSchema {
	return domain.ParamSchema{Type: "string", Description: description}
}

func reqStr(description string) domain.ParamSchema {
	return domain.ParamSchema{Type: "string", Description: description, Required: true}
}

func num(description string) domain.ParamSchema {
	return domain.ParamSchema{Type: "number", Description: description}
}

func boolean(description string) domain.ParamSchema {
	return domain.ParamSchema{Type: "boolean", Description: description}
}

func recipients(description string) domain.ParamSchema {
	return domain.ParamSchema{
		Type:        "array",
		Description: description,
		Items:       &domain.ParamSchema{Type: "string"},
		Aliases:     nil,
	}
}

func dateTime(description string) domain.ParamSchema {
	return domain.ParamSchema{
		Type:        "object",
		Description: description,
		Properties: map[string]domain.ParamSchema{
			"dateTime": {Type: "string", Description: "ISO 8601 local date-time"},
			"timeZone": {Type: "string", Description: "IANA time zone name", Default: "UTC"},
		},
	}
}

func reqDateTime(description string) domain.ParamSchema {
	schema := dateTime(description)
	schema.Required = true
	return schema
}

// capabilityOverrides is keyed by lowercased capability name.
var capabilityOverrides = map[string]ToolOverride{
	// ---- mail ----
	"listemails": {
		Description: "List messages in a mail folder, newest first.",
		Endpoint:    "/mail/messages",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"folderId": str("Folder id; defaults to the inbox"),
			"limit":    num("Maximum number of messages to return"),
			"skip":     num("Number of messages to skip for paging"),
		},
	},
	"getemail": {
		Description: "Fetch a single message including its body.",
		Endpoint:    "/mail/messages/:id",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("Message id"),
		},
	},
	"sendemail": {
		Description: "Send a message. Recipients accept arrays or comma-separated strings.",
		Endpoint:    "/mail/send",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"to":          {Type: "array", Description: "Primary recipients", Required: true, Items: &domain.ParamSchema{Type: "string"}},
			"cc":          recipients("Carbon-copy recipients"),
			"bcc":         recipients("Blind-carbon-copy recipients"),
			"subject":     reqStr("Message subject"),
			"body":        reqStr("Message body"),
			"contentType": {Type: "string", Description: "Body content type", Enum: []string{"text", "html"}, Default: "text"},
			"attachments": {Type: "array", Description: "Attachments as {name, contentBytes} objects", Items: &domain.ParamSchema{Type: "object"}},
		},
	},
	"searchemails": {
		Description: "Search messages with a KQL query string.",
		Endpoint:    "/mail/search",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"q":     {Type: "string", Description: "KQL search query", Required: true, Aliases: []string{"query"}},
			"limit": num("Maximum number of results"),
		},
	},
	"flagemail": {
		Description: "Flag or unflag a message.",
		Endpoint:    "/mail/messages/:id/flag",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"id":      reqStr("Message id"),
			"flagged": boolean("Desired flag state; defaults to true"),
		},
	},
	"moveemail": {
		Description: "Move a message to another folder.",
		Endpoint:    "/mail/messages/:id/move",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"id":            reqStr("Message id"),
			"destinationId": reqStr("Target folder id"),
		},
	},
	"deleteemail": {
		Description: "Delete a message.",
		Endpoint:    "/mail/messages/:id",
		Method:      domain.MethodDelete,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("Message id"),
		},
	},
	"listfolders": {
		Description: "List mail folders with unread and total counts.",
		Endpoint:    "/mail/folders",
		Method:      domain.MethodGet,
		Parameters:  map[string]domain.ParamSchema{},
	},
	"createdraft": {
		Description: "Create a draft message without sending it.",
		Endpoint:    "/mail/drafts",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"to":      recipients("Primary recipients"),
			"subject": str("Message subject"),
			"body":    str("Message body"),
		},
	},

	// ---- calendar ----
	"listevents": {
		Description: "List calendar events in a date range.",
		Endpoint:    "/calendar/events",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"startDate": str("Range start (ISO 8601 date)"),
			"endDate":   str("Range end (ISO 8601 date)"),
			"limit":     num("Maximum number of events"),
		},
	},
	"getevent": {
		Description: "Fetch a single calendar event.",
		Endpoint:    "/calendar/events/:id",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("Event id"),
		},
	},
	"createevent": {
		Description: "Create a calendar event. Start and end accept bare ISO strings or {dateTime, timeZone} objects.",
		Endpoint:    "/calendar/events",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"subject":         reqStr("Event subject"),
			"start":           reqDateTime("Event start"),
			"end":             reqDateTime("Event end"),
			"attendees":       recipients("Attendee addresses"),
			"location":        str("Event location"),
			"body":            str("Event description"),
			"timeZone":        {Type: "string", Description: "Default time zone for bare date-times", Default: "UTC"},
			"isOnlineMeeting": boolean("Create an online meeting link"),
		},
	},
	"updateevent": {
		Description: "Update an event. Unset fields are left untouched (semantic patch).",
		Endpoint:    "/calendar/events/:id",
		Method:      domain.MethodPut,
		Parameters: map[string]domain.ParamSchema{
			"id":        reqStr("Event id"),
			"subject":   str("Event subject"),
			"start":     dateTime("Event start"),
			"end":       dateTime("Event end"),
			"attendees": recipients("Attendee addresses"),
			"location":  str("Event location"),
			"body":      str("Event description"),
			"timeZone":  str("Default time zone for bare date-times"),
		},
	},
	"deleteevent": {
		Description: "Delete an event.",
		Endpoint:    "/calendar/events/:id",
		Method:      domain.MethodDelete,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("Event id"),
		},
	},
	"respondtoevent": {
		Description: "Accept, tentatively accept, or decline an invitation.",
		Endpoint:    "/calendar/events/:id/respond",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"id":       reqStr("Event id"),
			"response": {Type: "string", Description: "Response to send", Required: true, Enum: []string{"accept", "tentativelyAccept", "decline"}},
			"comment":  str("Optional note for the organizer"),
		},
	},
	"getavailability": {
		Description: "Check free/busy for users over one or more time slots.",
		Endpoint:    "/calendar/availability",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"users":     recipients("Addresses to check; falls back to attendees"),
			"attendees": recipients("Alias for users"),
			"timeSlots": {Type: "array", Description: "Slots as {start, end} pairs", Items: &domain.ParamSchema{Type: "object"}},
			"start":     dateTime("Single-slot start, alternative to timeSlots"),
			"end":       dateTime("Single-slot end, alternative to timeSlots"),
			"timeZone":  {Type: "string", Description: "Default time zone for bare date-times", Default: "UTC"},
		},
	},
	"findmeetingtimes": {
		Description: "Suggest meeting times for a set of attendees.",
		Endpoint:    "/calendar/findMeetingTimes",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"attendees":                 recipients("Attendee addresses"),
			"timeConstraints":           {Type: "object", Description: "Explicit time constraint object"},
			"startTime":                 dateTime("Loose constraint start"),
			"endTime":                   dateTime("Loose constraint end"),
			"meetingDuration":           {Type: "number", Description: "Meeting length in minutes", Default: 60},
			"maxCandidates":             {Type: "number", Description: "Maximum suggestions", Default: 10},
			"minimumAttendeePercentage": {Type: "number", Description: "Required attendee availability", Default: 100},
			"isOrganizerOptional":       boolean("Whether the organizer must attend"),
		},
	},

	// ---- files ----
	"listfiles": {
		Description: "List files and folders under a drive path.",
		Endpoint:    "/files",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"path":  str("Folder path; defaults to the drive root"),
			"limit": num("Maximum number of entries"),
		},
	},
	"getfile": {
		Description: "Fetch file metadata.",
		Endpoint:    "/files/:id",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("File id"),
		},
	},
	"searchfiles": {
		Description: "Search files by name or content.",
		Endpoint:    "/files/search",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"q":     {Type: "string", Description: "Search query", Required: true, Aliases: []string{"query"}},
			"limit": num("Maximum number of results"),
		},
	},
	"downloadfile": {
		Description: "Fetch the content of a file.",
		Endpoint:    "/files/:id/content",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("File id"),
		},
	},
	"uploadfile": {
		Description: "Upload a file to a drive path.",
		Endpoint:    "/files/upload",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"path":         reqStr("Destination path including file name"),
			"contentBytes": reqStr("Base64-encoded file content"),
			"overwrite":    boolean("Replace an existing file"),
		},
	},
	"deletefile": {
		Description: "Delete a file.",
		Endpoint:    "/files/:id",
		Method:      domain.MethodDelete,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("File id"),
		},
	},
	"sharefile": {
		Description: "Create a sharing link for a file.",
		Endpoint:    "/files/:id/share",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"id":    reqStr("File id"),
			"type":  {Type: "string", Description: "Link type", Enum: []string{"view", "edit"}, Default: "view"},
			"scope": {Type: "string", Description: "Link scope", Enum: []string{"anonymous", "organization"}, Default: "organization"},
		},
	},

	// ---- people ----
	"findpeople": {
		Description: "Resolve people by name or address. Use before any operation that needs an exact address.",
		Endpoint:    "/people/find",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"query": {Type: "string", Description: "Name or address fragment", Required: true, Aliases: []string{"q"}},
			"limit": num("Maximum number of matches"),
		},
	},
	"getperson": {
		Description: "Fetch a person's profile.",
		Endpoint:    "/people/:id",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("Person id or address"),
		},
	},
	"getrelevantpeople": {
		Description: "List the people most relevant to the signed-in user.",
		Endpoint:    "/people/relevant",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"limit": num("Maximum number of people"),
		},
	},

	// ---- contacts ----
	"listcontacts": {
		Description: "List personal contacts.",
		Endpoint:    "/contacts",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"limit": num("Maximum number of contacts"),
			"skip":  num("Number of contacts to skip for paging"),
		},
	},
	"getcontact": {
		Description: "Fetch a single contact.",
		Endpoint:    "/contacts/:id",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("Contact id"),
		},
	},
	"createcontact": {
		Description: "Create a contact.",
		Endpoint:    "/contacts",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"givenName":      reqStr("First name"),
			"surname":        str("Last name"),
			"emailAddresses": recipients("Email addresses"),
			"phones":         recipients("Phone numbers"),
			"company":        str("Company name"),
		},
	},
	"updatecontact": {
		Description: "Update a contact. Unset fields are left untouched.",
		Endpoint:    "/contacts/:id",
		Method:      domain.MethodPut,
		Parameters: map[string]domain.ParamSchema{
			"id":             reqStr("Contact id"),
			"givenName":      str("First name"),
			"surname":        str("Last name"),
			"emailAddresses": recipients("Email addresses"),
			"phones":         recipients("Phone numbers"),
			"company":        str("Company name"),
		},
	},
	"deletecontact": {
		Description: "Delete a contact.",
		Endpoint:    "/contacts/:id",
		Method:      domain.MethodDelete,
		Parameters: map[string]domain.ParamSchema{
			"id": reqStr("Contact id"),
		},
	},

	// ---- todo ----
	"listtasklists": {
		Description: "List task lists.",
		Endpoint:    "/todo/lists",
		Method:      domain.MethodGet,
		Parameters:  map[string]domain.ParamSchema{},
	},
	"listtasks": {
		Description: "List tasks in a list.",
		Endpoint:    "/todo/lists/:listId/tasks",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"listId": reqStr("Task list id"),
			"status": {Type: "string", Description: "Filter by status", Enum: []string{"notStarted", "inProgress", "completed"}},
			"limit":  num("Maximum number of tasks"),
		},
	},
	"createtask": {
		Description: "Create a task.",
		Endpoint:    "/todo/lists/:listId/tasks",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"listId":      reqStr("Task list id"),
			"title":       reqStr("Task title"),
			"body":        str("Task notes"),
			"dueDateTime": dateTime("Due date"),
			"importance":  {Type: "string", Description: "Task importance", Enum: []string{"low", "normal", "high"}},
		},
	},
	"updatetask": {
		Description: "Update a task. Unset fields are left untouched.",
		Endpoint:    "/todo/lists/:listId/tasks/:id",
		Method:      domain.MethodPut,
		Parameters: map[string]domain.ParamSchema{
			"listId":      reqStr("Task list id"),
			"id":          reqStr("Task id"),
			"title":       str("Task title"),
			"body":        str("Task notes"),
			"dueDateTime": dateTime("Due date"),
			"status":      {Type: "string", Description: "Task status", Enum: []string{"notStarted", "inProgress", "completed"}},
		},
	},
	"completetask": {
		Description: "Mark a task completed.",
		Endpoint:    "/todo/lists/:listId/tasks/:id/complete",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"listId": reqStr("Task list id"),
			"id":     reqStr("Task id"),
		},
	},
	"deletetask": {
		Description: "Delete a task.",
		Endpoint:    "/todo/lists/:listId/tasks/:id",
		Method:      domain.MethodDelete,
		Parameters: map[string]domain.ParamSchema{
			"listId": reqStr("Task list id"),
			"id":     reqStr("Task id"),
		},
	},

	// ---- teams ----
	"listteams": {
		Description: "List teams the user belongs to.",
		Endpoint:    "/teams",
		Method:      domain.MethodGet,
		Parameters:  map[string]domain.ParamSchema{},
	},
	"listchannels": {
		Description: "List channels of a team.",
		Endpoint:    "/teams/:teamId/channels",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"teamId": reqStr("Team id"),
		},
	},
	"listchannelmessages": {
		Description: "List recent messages in a channel.",
		Endpoint:    "/teams/:teamId/channels/:channelId/messages",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"teamId":    reqStr("Team id"),
			"channelId": reqStr("Channel id"),
			"limit":     num("Maximum number of messages"),
		},
	},
	"sendchannelmessage": {
		Description: "Post a message to a channel.",
		Endpoint:    "/teams/:teamId/channels/:channelId/messages",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"teamId":    reqStr("Team id"),
			"channelId": reqStr("Channel id"),
			"content":   reqStr("Message content"),
			"important": boolean("Mark the message important"),
		},
	},
	"listchats": {
		Description: "List one-on-one and group chats.",
		Endpoint:    "/chats",
		Method:      domain.MethodGet,
		Parameters: map[string]domain.ParamSchema{
			"limit": num("Maximum number of chats"),
		},
	},
	"sendchatmessage": {
		Description: "Send a message in a chat.",
		Endpoint:    "/chats/:chatId/messages",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"chatId":  reqStr("Chat id"),
			"content": reqStr("Message content"),
		},
	},

	// ---- search ----
	"search": {
		Description: "Unified search across mail, files, events, and people.",
		Endpoint:    "/search/query",
		Method:      domain.MethodPost,
		Parameters: map[string]domain.ParamSchema{
			"q":           {Type: "string", Description: "Search query", Required: true, Aliases: []string{"query"}},
			"entityTypes": {Type: "array", Description: "Entity kinds to search", Items: &domain.ParamSchema{Type: "string"}},
			"limit":       num("Maximum number of results"),
		},
	},
}

// queryTool is the synthetic descriptor always appended to the catalog.
var queryTool = domain.ToolDescriptor{
	Name:        "query",
	Description: "Free-form natural language query over the whole suite.",
	Endpoint:    "/query",
	Method:      domain.MethodPost,
	Parameters: map[string]domain.ParamSchema{
		"query":   reqStr("Natural language query"),
		"context": {Type: "object", Description: "Conversation context to carry across calls"},
	},
	ParameterMapping: map[string]domain.Placement{
		"query":   domain.PlaceBody,
		"context": domain.PlaceBody,
	},
}
