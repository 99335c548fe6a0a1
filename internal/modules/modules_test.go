package modules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"officegw/internal/domain"
	"officegw/internal/infra/catalog"
	"officegw/internal/infra/registry"
)

type fakeClient struct {
	response map[string]any
	err      error

	method string
	path   string
	query  map[string]string
	body   map[string]any
}

type fakeRequest struct {
	client *fakeClient
	path   string
}

func (c *fakeClient) API(path, userID, sessionID string) domain.Request {
	return &fakeRequest{client: c, path: path}
}

func (r *fakeRequest) Query(params map[string]string) domain.Request {
	r.client.query = params
	return r
}

func (r *fakeRequest) Version(v string) domain.Request { return r }

func (r *fakeRequest) Get(ctx context.Context) (map[string]any, error) {
	return r.finish("GET", nil)
}

func (r *fakeRequest) Post(ctx context.Context, body map[string]any) (map[string]any, error) {
	return r.finish("POST", body)
}

func (r *fakeRequest) Put(ctx context.Context, body map[string]any) (map[string]any, error) {
	return r.finish("PUT", body)
}

func (r *fakeRequest) Patch(ctx context.Context, body map[string]any) (map[string]any, error) {
	return r.finish("PATCH", body)
}

func (r *fakeRequest) Delete(ctx context.Context) (map[string]any, error) {
	return r.finish("DELETE", nil)
}

func (r *fakeRequest) finish(method string, body map[string]any) (map[string]any, error) {
	r.client.method = method
	r.client.path = r.path
	r.client.body = body
	if r.client.err != nil {
		return nil, r.client.err
	}
	return r.client.response, nil
}

type staticMetrics struct {
	module string
	method string
	failed bool
}

func (m *staticMetrics) ObserveToolCall(module, method string, duration time.Duration, err error) {
	m.module = module
	m.method = method
	m.failed = err != nil
}
func (m *staticMetrics) ObserveResolve(found bool) {}

func (m *staticMetrics) AddSuppressed(category string, count int) {}

func (m *staticMetrics) SetEmergency(active bool) {}

type silentObserver struct {
	errs  []error
	infos []string
}

func (o *silentObserver) LogError(err error, userID, sessionID string) {
	o.errs = append(o.errs, err)
}

func (o *silentObserver) Error(message string, opts domain.LogOptions) {}

func (o *silentObserver) Warn(message string, opts domain.LogOptions) {}

func (o *silentObserver) Info(message string, opts domain.LogOptions) {
	o.infos = append(o.infos, message)
}

func (o *silentObserver) Debug(message string, opts domain.LogOptions) {}

func (o *silentObserver) TrackMetric(name string, value float64, opts domain.LogOptions) {}

func (o *silentObserver) SubscribeToLogs(cb func(domain.LogEntry)) func() { return func() {} }

func (o *silentObserver) SubscribeToMetrics(cb func(domain.LogEntry)) func() { return func() {} }

func (o *silentObserver) GetLatestLogs(limit int) []domain.LogEntry { return nil }

type harness struct {
	client   *fakeClient
	observer *silentObserver
	metrics  *staticMetrics
	modules  map[string]domain.ModuleDescriptor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		client:   &fakeClient{response: map[string]any{}},
		observer: &silentObserver{},
		metrics:  &staticMetrics{},
	}
	reg := registry.New(registry.Options{Services: []string{"graph"}})
	deps := Deps{
		Client:   h.client,
		Catalog:  catalog.New(reg, nil),
		Observer: h.observer,
		Metrics:  h.metrics,
	}
	h.modules = map[string]domain.ModuleDescriptor{}
	for _, descriptor := range All(deps) {
		require.NoError(t, reg.Register(descriptor))
		h.modules[descriptor.ID] = descriptor
	}
	h.modules["query"] = NewQuery(deps)
	return h
}

func (h *harness) call(t *testing.T, moduleID, capability string, args map[string]any) (any, error) {
	t.Helper()
	handler, ok := h.modules[moduleID].Handlers[capability]
	require.True(t, ok, "no handler %s.%s", moduleID, capability)
	return handler(context.Background(), domain.Call{
		Args:      args,
		UserID:    "user-1",
		SessionID: "session-1",
		TraceID:   "trace-1",
	})
}

func TestMail_ListNormalizesMessages(t *testing.T) {
	h := newHarness(t)
	h.client.response = map[string]any{
		"value": []any{
			map[string]any{
				"id":               "m1",
				"subject":          "Status",
				"receivedDateTime": "2026-08-30T10:00:00Z",
				"from": map[string]any{
					"emailAddress": map[string]any{"address": "carol@x.com", "name": "Carol"},
				},
				"isRead": false,
			},
		},
	}

	result, err := h.call(t, "mail", "listEmails", map[string]any{"limit": 10})
	require.NoError(t, err)

	require.Equal(t, "GET", h.client.method)
	require.Equal(t, "/mail/messages", h.client.path)
	require.Equal(t, "10", h.client.query["limit"])

	out := result.(map[string]any)
	require.Equal(t, 1, out["count"])
	messages := out["messages"].([]map[string]any)
	require.Equal(t, "carol@x.com", messages[0]["from"])
	require.Equal(t, "Carol", messages[0]["fromName"])
}

func TestMail_SendPostsBody(t *testing.T) {
	h := newHarness(t)

	_, err := h.call(t, "mail", "sendEmail", map[string]any{
		"to":      []string{"a@x.com"},
		"subject": "hi",
		"body":    "text",
	})
	require.NoError(t, err)

	require.Equal(t, "POST", h.client.method)
	require.Equal(t, "/mail/send", h.client.path)
	require.Equal(t, "hi", h.client.body["subject"])
	require.Contains(t, h.observer.infos, "mail.send succeeded")
	require.Equal(t, "mail", h.metrics.module)
	require.Equal(t, "send", h.metrics.method)
	require.False(t, h.metrics.failed)
}

func TestMail_SendRequiresRecipients(t *testing.T) {
	h := newHarness(t)

	_, err := h.call(t, "mail", "sendEmail", map[string]any{
		"subject": "hi",
		"body":    "text",
	})
	require.Error(t, err)

	var structured *domain.Error
	require.True(t, errors.As(err, &structured))
	require.Equal(t, domain.CategoryValidation, structured.Category)
	require.Equal(t, "to", structured.Context["field"])
	require.Len(t, h.observer.errs, 1)
}

func TestCalendar_UpdateWithoutIDFailsValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.call(t, "calendar", "updateEvent", map[string]any{
		"subject": "renamed",
	})
	require.Error(t, err)

	var structured *domain.Error
	require.True(t, errors.As(err, &structured))
	require.Equal(t, domain.CategoryValidation, structured.Category)
	require.Contains(t, structured.Message, "missing required path parameter")
	require.Equal(t, "calendar", structured.Context["module"])
	require.Equal(t, "update", structured.Context["method"])
}

func TestCalendar_UpdatePutsToEventPath(t *testing.T) {
	h := newHarness(t)
	h.client.response = map[string]any{"id": "ev-1", "subject": "renamed"}

	result, err := h.call(t, "calendar", "updateEvent", map[string]any{
		"id":      "ev-1",
		"subject": "renamed",
	})
	require.NoError(t, err)

	require.Equal(t, "PUT", h.client.method)
	require.Equal(t, "/calendar/events/ev-1", h.client.path)
	require.NotContains(t, h.client.body, "id")

	out := result.(map[string]any)
	require.Equal(t, "renamed", out["subject"])
}

func TestModule_UpstreamErrorWrappedIntoModuleCategory(t *testing.T) {
	h := newHarness(t)
	h.client.err = domain.E(domain.CategoryUpstream, "upstream returned 502", domain.ErrorOptions{
		Context: map[string]any{"statusCode": 502},
	})

	_, err := h.call(t, "mail", "listEmails", nil)
	require.Error(t, err)

	var structured *domain.Error
	require.True(t, errors.As(err, &structured))
	require.Equal(t, "mail", structured.Category)
	require.Equal(t, 502, structured.Context["statusCode"])
	require.Equal(t, "list", structured.Context["method"])
	require.True(t, h.metrics.failed)
}

func TestModule_InternalKeysNeverReachUpstream(t *testing.T) {
	h := newHarness(t)

	_, err := h.call(t, "mail", "sendEmail", map[string]any{
		"to":      []string{"a@x.com"},
		"subject": "hi",
		"body":    "text",
		"_userId": "user-1",
	})
	require.NoError(t, err)
	require.NotContains(t, h.client.body, "_userId")
}

func TestPeople_FindNormalizesScoredAddresses(t *testing.T) {
	h := newHarness(t)
	h.client.response = map[string]any{
		"value": []any{
			map[string]any{
				"id":          "p1",
				"displayName": "Carol Chen",
				"scoredEmailAddresses": []any{
					map[string]any{"address": "carol@x.com"},
				},
			},
		},
	}

	result, err := h.call(t, "people", "findPeople", map[string]any{"query": "carol"})
	require.NoError(t, err)

	out := result.(map[string]any)
	people := out["people"].([]map[string]any)
	require.Equal(t, "carol@x.com", people[0]["address"])
}

func TestQuery_HandlerPostsQueryBody(t *testing.T) {
	h := newHarness(t)
	h.client.response = map[string]any{"answer": "three meetings"}

	result, err := h.call(t, "query", "processQuery", map[string]any{
		"query": "how many meetings today",
	})
	require.NoError(t, err)

	require.Equal(t, "POST", h.client.method)
	require.Equal(t, "/query", h.client.path)
	require.Equal(t, "how many meetings today", h.client.body["query"])
	require.Equal(t, map[string]any{"answer": "three meetings"}, result)
}

func TestAllModules_HandlersCoverCapabilities(t *testing.T) {
	h := newHarness(t)
	for id, module := range h.modules {
		for _, capability := range module.Capabilities {
			_, ok := module.Handlers[capability]
			require.True(t, ok, "module %s lacks handler for %s", id, capability)
		}
	}
}

var (
	_ domain.Client   = (*fakeClient)(nil)
	_ domain.Metrics  = (*staticMetrics)(nil)
	_ domain.Observer = (*silentObserver)(nil)
)
