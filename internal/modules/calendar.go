package modules

import "officegw/internal/domain"

// NewCalendar covers event CRUD plus invitation responses, availability
// lookups, and meeting-time suggestions.
func NewCalendar(deps Deps) domain.ModuleDescriptor {
	return domain.ModuleDescriptor{
		ID:          "calendar",
		DisplayName: "Calendar",
		Requires:    []string{"graph"},
		Capabilities: []string{
			"listEvents", "getEvent", "createEvent", "updateEvent", "deleteEvent",
			"respondToEvent", "getAvailability", "findMeetingTimes",
		},
		Handlers: map[string]domain.HandlerFunc{
			"listEvents":       handler(deps, "calendar", "listEvents", "list", normalizeEventList),
			"getEvent":         handler(deps, "calendar", "getEvent", "get", normalizeEvent),
			"createEvent":      handler(deps, "calendar", "createEvent", "create", normalizeEvent),
			"updateEvent":      handler(deps, "calendar", "updateEvent", "update", normalizeEvent),
			"deleteEvent":      handler(deps, "calendar", "deleteEvent", "delete", nil),
			"respondToEvent":   handler(deps, "calendar", "respondToEvent", "respond", nil),
			"getAvailability":  handler(deps, "calendar", "getAvailability", "availability", normalizeAvailability),
			"findMeetingTimes": handler(deps, "calendar", "findMeetingTimes", "findMeetingTimes", normalizeSuggestions),
		},
	}
}

func normalizeEventList(resp map[string]any) any {
	events := []map[string]any{}
	for _, item := range items(resp) {
		events = append(events, eventShape(asMap(item)))
	}
	return map[string]any{"events": events, "count": len(events)}
}

func normalizeEvent(resp map[string]any) any {
	return eventShape(resp)
}

func eventShape(m map[string]any) map[string]any {
	attendees := []map[string]any{}
	if list, ok := field(m, "attendees").([]any); ok {
		for _, entry := range list {
			a := asMap(entry)
			address := asMap(field(a, "emailAddress"))
			attendees = append(attendees, map[string]any{
				"address":  strField(address, "address"),
				"name":     strField(address, "name"),
				"response": strField(asMap(field(a, "status")), "response"),
			})
		}
	}
	return map[string]any{
		"id":        strField(m, "id"),
		"subject":   strField(m, "subject"),
		"start":     field(m, "start"),
		"end":       field(m, "end"),
		"location":  strField(asMap(field(m, "location")), "displayName"),
		"organizer": strField(asMap(field(asMap(field(m, "organizer")), "emailAddress")), "address"),
		"attendees": attendees,
		"isOnline":  field(m, "isOnlineMeeting"),
		"webLink":   strField(m, "webLink"),
	}
}

func normalizeAvailability(resp map[string]any) any {
	schedules := []map[string]any{}
	for _, item := range items(resp) {
		s := asMap(item)
		schedules = append(schedules, map[string]any{
			"user":         strField(s, "scheduleId"),
			"availability": strField(s, "availabilityView"),
			"items":        field(s, "scheduleItems"),
		})
	}
	return map[string]any{"schedules": schedules}
}

func normalizeSuggestions(resp map[string]any) any {
	suggestions := []map[string]any{}
	if list, ok := field(resp, "meetingTimeSuggestions").([]any); ok {
		for _, entry := range list {
			s := asMap(entry)
			slot := asMap(field(s, "meetingTimeSlot"))
			suggestions = append(suggestions, map[string]any{
				"start":      field(slot, "start"),
				"end":        field(slot, "end"),
				"confidence": field(s, "confidence"),
				"reason":     strField(s, "suggestionReason"),
			})
		}
	}
	return map[string]any{
		"suggestions": suggestions,
		"emptyReason": strField(resp, "emptySuggestionsReason"),
	}
}
