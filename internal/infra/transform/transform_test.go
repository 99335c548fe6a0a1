package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"officegw/internal/domain"
)

func TestTransform_RecipientStringBecomesArray(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("mail", "sendEmail", map[string]any{
		"to":      "a@x.com, b@x.com",
		"subject": "hi",
		"body":    "text",
	}, "user-1", "device-1")
	require.NoError(t, err)

	require.Equal(t, []string{"a@x.com", "b@x.com"}, payload["to"])
	require.Equal(t, "hi", payload["subject"])
	require.Equal(t, "user-1", payload["_userId"])
	require.Equal(t, "device-1", payload["_deviceId"])
}

func TestTransform_RecipientArrayPassesThrough(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("mail", "sendEmail", map[string]any{
		"to": []any{"a@x.com", "b@x.com"},
	}, "", "")
	require.NoError(t, err)
	require.Equal(t, []string{"a@x.com", "b@x.com"}, payload["to"])
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	transformer := New(nil)
	args := map[string]any{"to": "a@x.com,b@x.com"}

	_, err := transformer.Transform("mail", "sendEmail", args, "user-1", "")
	require.NoError(t, err)

	require.Equal(t, map[string]any{"to": "a@x.com,b@x.com"}, args)
}

func TestTransform_IsDeterministic(t *testing.T) {
	transformer := New(nil)
	args := map[string]any{"to": "a@x.com", "cc": []any{"c@x.com"}}

	first, err := transformer.Transform("mail", "sendEmail", args, "u", "d")
	require.NoError(t, err)
	second, err := transformer.Transform("mail", "sendEmail", args, "u", "d")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestTransform_BareDateTimeIsWrapped(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("calendar", "createEvent", map[string]any{
		"subject":  "standup",
		"start":    "2026-09-01T09:00:00",
		"end":      "2026-09-01T09:15:00",
		"timeZone": "Europe/Berlin",
	}, "", "")
	require.NoError(t, err)

	require.Equal(t, map[string]any{"dateTime": "2026-09-01T09:00:00", "timeZone": "Europe/Berlin"}, payload["start"])
	require.Equal(t, map[string]any{"dateTime": "2026-09-01T09:15:00", "timeZone": "Europe/Berlin"}, payload["end"])
	require.NotContains(t, payload, "timeZone")
}

func TestTransform_CoercedDateTimeIsStable(t *testing.T) {
	transformer := New(nil)
	already := map[string]any{"dateTime": "2026-09-01T09:00:00", "timeZone": "UTC"}

	payload, err := transformer.Transform("calendar", "createEvent", map[string]any{
		"start": already,
		"end":   "2026-09-01T10:00:00",
	}, "", "")
	require.NoError(t, err)
	require.Equal(t, already, payload["start"])
}

func TestTransform_CreateEventRequiresStartAndEnd(t *testing.T) {
	transformer := New(nil)

	_, err := transformer.Transform("calendar", "createEvent", map[string]any{
		"subject": "no times",
	}, "", "")
	require.Error(t, err)
	require.Equal(t, domain.CategoryValidation, domain.CategoryFrom(err))
}

func TestTransform_UpdateEventIsSemanticPatch(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("calendar", "updateEvent", map[string]any{
		"id":      "ev-1",
		"subject": "renamed",
	}, "", "")
	require.NoError(t, err)
	require.NotContains(t, payload, "start")
	require.NotContains(t, payload, "end")
	require.Equal(t, "renamed", payload["subject"])
}

func TestTransform_QueryRenamedToQ(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("mail", "searchEmails", map[string]any{
		"query": "from:carol has:attachment",
	}, "", "")
	require.NoError(t, err)
	require.Equal(t, "from:carol has:attachment", payload["q"])
	require.NotContains(t, payload, "query")
}

func TestTransform_ExplicitQWinsOverQuery(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("search", "search", map[string]any{
		"q":     "explicit",
		"query": "ignored",
	}, "", "")
	require.NoError(t, err)
	require.Equal(t, "explicit", payload["q"])
	require.Equal(t, "ignored", payload["query"])
}

func TestTransform_AvailabilitySingleRange(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("calendar", "getAvailability", map[string]any{
		"users": "alice@x.com",
		"start": "2026-09-01T08:00:00",
		"end":   "2026-09-01T17:00:00",
	}, "", "")
	require.NoError(t, err)

	require.Equal(t, []string{"alice@x.com"}, payload["users"])
	slots, ok := payload["timeSlots"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, slots, 1)
	require.Equal(t, "2026-09-01T08:00:00", slots[0]["start"].(map[string]any)["dateTime"])
	require.NotContains(t, payload, "start")
	require.NotContains(t, payload, "end")
}

func TestTransform_AvailabilityAttendeesFallback(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("calendar", "getAvailability", map[string]any{
		"attendees": []any{"bob@x.com"},
		"timeSlots": []any{
			map[string]any{"start": "2026-09-01T08:00:00", "end": "2026-09-01T09:00:00"},
		},
	}, "", "")
	require.NoError(t, err)
	require.Equal(t, []string{"bob@x.com"}, payload["users"])
	require.NotContains(t, payload, "attendees")
}

func TestTransform_AvailabilityWithoutTimesFails(t *testing.T) {
	transformer := New(nil)

	_, err := transformer.Transform("calendar", "getAvailability", map[string]any{
		"users": "alice@x.com",
	}, "", "")
	require.Error(t, err)

	var structured *domain.Error
	require.True(t, errors.As(err, &structured))
	require.Equal(t, domain.CategoryValidation, structured.Category)
	require.Contains(t, structured.Message, "either timeSlots or start and end are required")
}

func TestTransform_FindMeetingTimesDefaults(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("calendar", "findMeetingTimes", map[string]any{
		"attendees": "dan@x.com",
		"startTime": "2026-09-02T08:00:00",
		"endTime":   "2026-09-02T18:00:00",
	}, "", "")
	require.NoError(t, err)

	require.Equal(t, 60, payload["meetingDuration"])
	require.Equal(t, 10, payload["maxCandidates"])
	require.Equal(t, 100, payload["minimumAttendeePercentage"])
	constraint, ok := payload["timeConstraint"].(map[string]any)
	require.True(t, ok)
	require.Len(t, constraint["timeSlots"], 1)
	require.NotContains(t, payload, "startTime")
	require.NotContains(t, payload, "endTime")
}

func TestTransform_PeopleLimitCoercion(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("people", "findPeople", map[string]any{
		"q":     "carol",
		"limit": "5",
	}, "", "")
	require.NoError(t, err)
	require.Equal(t, "carol", payload["query"])
	require.Equal(t, 5, payload["limit"])
}

func TestTransform_UnknownPairPassesThrough(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("files", "getFile", map[string]any{
		"id": "f-1",
	}, "user-1", "")
	require.NoError(t, err)
	require.Equal(t, "f-1", payload["id"])
	require.Equal(t, "user-1", payload["_userId"])
}

func TestTransform_QueryKeepsOnlyQueryAndContext(t *testing.T) {
	transformer := New(nil)

	payload, err := transformer.Transform("query", "processQuery", map[string]any{
		"query":   "what is on my calendar",
		"context": map[string]any{"turn": 2},
		"noise":   "dropped",
	}, "user-1", "")
	require.NoError(t, err)
	require.Equal(t, "what is on my calendar", payload["query"])
	require.NotContains(t, payload, "noise")
}

func TestTransform_ValidationErrorIsLogged(t *testing.T) {
	observer := &capturingObserver{}
	transformer := New(observer)

	_, err := transformer.Transform("mail", "sendEmail", map[string]any{
		"to": 42,
	}, "user-1", "")
	require.Error(t, err)
	require.Len(t, observer.logged, 1)
	require.ErrorIs(t, observer.logged[0], err)
}

type capturingObserver struct {
	logged []error
}

func (o *capturingObserver) LogError(err error, userID, sessionID string) {
	o.logged = append(o.logged, err)
}

func (o *capturingObserver) Error(message string, opts domain.LogOptions) {}

func (o *capturingObserver) Warn(message string, opts domain.LogOptions) {}

func (o *capturingObserver) Info(message string, opts domain.LogOptions) {}

func (o *capturingObserver) Debug(message string, opts domain.LogOptions) {}

func (o *capturingObserver) TrackMetric(name string, value float64, opts domain.LogOptions) {}

func (o *capturingObserver) SubscribeToLogs(cb func(domain.LogEntry)) func() { return func() {} }

func (o *capturingObserver) SubscribeToMetrics(cb func(domain.LogEntry)) func() { return func() {} }

func (o *capturingObserver) GetLatestLogs(limit int) []domain.LogEntry { return nil }

var _ domain.Observer = (*capturingObserver)(nil)
