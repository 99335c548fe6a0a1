package transform

import (
	"officegw/internal/domain"
)

func operationRules() map[string]ruleFunc {
	return map[string]ruleFunc{
		"mail.sendemail":    mailSend,
		"mail.createdraft":  mailSend,
		"mail.searchemails": queryRename,

		"calendar.createevent":      calendarCreate,
		"calendar.updateevent":      calendarUpdate,
		"calendar.getavailability":  calendarAvailability,
		"calendar.findmeetingtimes": findMeetingTimes,

		"files.searchfiles": queryRename,
		"search.search":     queryRename,

		"people.findpeople": peopleFind,

		"contacts.createcontact": contactShape,
		"contacts.updatecontact": contactShape,

		"todo.createtask": todoTask,
		"todo.updatetask": todoTask,

		"query.processquery": queryPassthrough,
	}
}

func validationErr(message string) error {
	return domain.E(domain.CategoryValidation, message, domain.ErrorOptions{})
}

// mailSend coerces the recipient fields and preserves the rest.
func mailSend(args map[string]any) (map[string]any, error) {
	for _, field := range []string{"to", "cc", "bcc"} {
		value, ok := args[field]
		if !ok || value == nil {
			continue
		}
		coerced := Recipients(value)
		if coerced == nil {
			return nil, validationErr("field " + field + " must be a string or an array of addresses")
		}
		args[field] = coerced
	}
	return args, nil
}

// queryRename renames a caller-provided query to q when q is absent. The
// value is never coerced (KQL passthrough).
func queryRename(args map[string]any) (map[string]any, error) {
	if _, hasQ := args["q"]; !hasQ {
		if value, hasQuery := args["query"]; hasQuery {
			args["q"] = value
			delete(args, "query")
		}
	}
	return args, nil
}

func calendarCreate(args map[string]any) (map[string]any, error) {
	return calendarEventShape(args, true)
}

// calendarUpdate is a semantic patch: unset fields stay unset.
func calendarUpdate(args map[string]any) (map[string]any, error) {
	return calendarEventShape(args, false)
}

func calendarEventShape(args map[string]any, create bool) (map[string]any, error) {
	timeZone := stringValue(args["timeZone"])
	delete(args, "timeZone")

	for _, field := range []string{"start", "end"} {
		value, ok := args[field]
		if !ok || value == nil {
			if create {
				return nil, validationErr("field " + field + " is required")
			}
			continue
		}
		coerced := DateTime(value, timeZone)
		if coerced == nil {
			return nil, validationErr("field " + field + " must be a date-time string or {dateTime, timeZone} object")
		}
		args[field] = coerced
	}

	if value, ok := args["attendees"]; ok && value != nil {
		coerced := Recipients(value)
		if coerced == nil {
			return nil, validationErr("field attendees must be a string or an array of addresses")
		}
		args["attendees"] = coerced
	}
	return args, nil
}

// calendarAvailability accepts either a timeSlots array or a single
// start+end pair, normalizing to nested {dateTime, timeZone} slots.
func calendarAvailability(args map[string]any) (map[string]any, error) {
	timeZone := stringValue(args["timeZone"])
	delete(args, "timeZone")

	users := Recipients(args["users"])
	if users == nil {
		users = Recipients(args["attendees"])
	}
	delete(args, "attendees")
	if users != nil {
		args["users"] = users
	}

	slots, err := normalizeTimeSlots(args["timeSlots"], timeZone)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		start := DateTime(args["start"], timeZone)
		end := DateTime(args["end"], timeZone)
		if start == nil || end == nil {
			return nil, validationErr("either timeSlots or start and end are required")
		}
		slots = []map[string]any{{"start": start, "end": end}}
	}
	delete(args, "start")
	delete(args, "end")
	args["timeSlots"] = slots
	return args, nil
}

func normalizeTimeSlots(value any, timeZone string) ([]map[string]any, error) {
	if value == nil {
		return nil, nil
	}
	raw, ok := value.([]any)
	if !ok {
		return nil, validationErr("timeSlots must be an array of {start, end} objects")
	}
	if len(raw) == 0 {
		return nil, validationErr("timeSlots must contain at least one slot")
	}
	slots := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		slot, ok := item.(map[string]any)
		if !ok {
			return nil, validationErr("timeSlots must be an array of {start, end} objects")
		}
		start := DateTime(slot["start"], timeZone)
		end := DateTime(slot["end"], timeZone)
		if start == nil || end == nil {
			return nil, validationErr("each time slot requires start and end")
		}
		slots = append(slots, map[string]any{"start": start, "end": end})
	}
	return slots, nil
}

func findMeetingTimes(args map[string]any) (map[string]any, error) {
	timeZone := stringValue(args["timeZone"])
	delete(args, "timeZone")

	if value, ok := args["attendees"]; ok && value != nil {
		coerced := Recipients(value)
		if coerced == nil {
			return nil, validationErr("field attendees must be a string or an array of addresses")
		}
		args["attendees"] = coerced
	}

	if _, ok := args["timeConstraints"]; ok {
		args["timeConstraint"] = args["timeConstraints"]
		delete(args, "timeConstraints")
	} else {
		start := firstDateTime(args, timeZone, "startTime", "start")
		end := firstDateTime(args, timeZone, "endTime", "end")
		if start != nil && end != nil {
			args["timeConstraint"] = map[string]any{
				"timeSlots": []map[string]any{{"start": start, "end": end}},
			}
		}
	}
	for _, loose := range []string{"startTime", "endTime", "start", "end"} {
		delete(args, loose)
	}

	if _, ok := args["meetingDuration"]; !ok {
		args["meetingDuration"] = 60
	}
	if _, ok := args["maxCandidates"]; !ok {
		args["maxCandidates"] = 10
	}
	if _, ok := args["minimumAttendeePercentage"]; !ok {
		args["minimumAttendeePercentage"] = 100
	}
	return args, nil
}

func firstDateTime(args map[string]any, timeZone string, keys ...string) map[string]any {
	for _, key := range keys {
		if value, ok := args[key]; ok && value != nil {
			if coerced := DateTime(value, timeZone); coerced != nil {
				return coerced
			}
		}
	}
	return nil
}

// peopleFind accepts q as an alias for query and coerces limit to integer.
func peopleFind(args map[string]any) (map[string]any, error) {
	if _, hasQuery := args["query"]; !hasQuery {
		if value, hasQ := args["q"]; hasQ {
			args["query"] = value
			delete(args, "q")
		}
	}
	if value, ok := args["limit"]; ok && value != nil {
		n, ok := Integer(value)
		if !ok {
			return nil, validationErr("field limit must be an integer")
		}
		args["limit"] = n
	}
	return args, nil
}

func contactShape(args map[string]any) (map[string]any, error) {
	for _, field := range []string{"emailAddresses", "phones"} {
		value, ok := args[field]
		if !ok || value == nil {
			continue
		}
		coerced := Recipients(value)
		if coerced == nil {
			return nil, validationErr("field " + field + " must be a string or an array")
		}
		args[field] = coerced
	}
	return args, nil
}

func todoTask(args map[string]any) (map[string]any, error) {
	timeZone := stringValue(args["timeZone"])
	delete(args, "timeZone")

	if value, ok := args["dueDateTime"]; ok && value != nil {
		coerced := DateTime(value, timeZone)
		if coerced == nil {
			return nil, validationErr("field dueDateTime must be a date-time string or {dateTime, timeZone} object")
		}
		args["dueDateTime"] = coerced
	}
	return args, nil
}

// queryPassthrough keeps only the query and context fields.
func queryPassthrough(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, 2)
	if value, ok := args["query"]; ok {
		out["query"] = value
	}
	if value, ok := args["context"]; ok {
		out["context"] = value
	}
	if _, ok := out["query"]; !ok {
		return nil, validationErr("field query is required")
	}
	return out, nil
}
