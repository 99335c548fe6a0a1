package modules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"officegw/internal/domain"
	"officegw/internal/infra/transform"
)

// Deps is what every module needs. Provided once at construction.
type Deps struct {
	Client      domain.Client
	Catalog     domain.Catalog
	Observer    domain.Observer
	Metrics     domain.Metrics
	Development bool
}

// normalizeFunc collapses upstream response variability into the module's
// stable entity shape.
type normalizeFunc func(resp map[string]any) any

// All returns every registered module in registration order. The query
// module is excluded; it is dispatched by name only.
func All(deps Deps) []domain.ModuleDescriptor {
	return []domain.ModuleDescriptor{
		NewMail(deps),
		NewCalendar(deps),
		NewFiles(deps),
		NewPeople(deps),
		NewContacts(deps),
		NewTodo(deps),
		NewTeams(deps),
		NewSearch(deps),
	}
}

// handler binds one capability into a module's dispatch table.
func handler(deps Deps, moduleID, capability, op string, normalize normalizeFunc) domain.HandlerFunc {
	return func(ctx context.Context, call domain.Call) (any, error) {
		return invoke(ctx, deps, moduleID, capability, op, call, normalize)
	}
}

// invoke implements the shared module-method contract: validate required
// arguments, resolve placement, call upstream, normalize, and log entry,
// success, and failure along with a per-method timing metric. op is the
// short method name carried in error contexts and metrics.
func invoke(ctx context.Context, deps Deps, moduleID, capability, op string, call domain.Call, normalize normalizeFunc) (any, error) {
	start := time.Now()

	if deps.Development {
		deps.Observer.Debug(fmt.Sprintf("%s.%s invoked", moduleID, op), domain.LogOptions{
			Category: moduleID,
			TraceID:  call.TraceID,
			UserID:   call.UserID,
		})
	}

	descriptor, ok := deps.Catalog.Descriptor(capability)
	if !ok {
		return nil, fail(deps, call, domain.E(domain.CategorySystem,
			fmt.Sprintf("no descriptor for capability %q", capability),
			domain.ErrorOptions{Context: map[string]any{"module": moduleID, "method": op}}))
	}

	if err := validateRequired(descriptor, moduleID, op, call); err != nil {
		return nil, fail(deps, call, err)
	}

	resolved, err := transform.Resolve(descriptor, moduleID, op, call.Args)
	if err != nil {
		return nil, fail(deps, call, err)
	}

	resp, err := send(ctx, deps, descriptor, resolved, call)
	duration := time.Since(start)
	deps.Metrics.ObserveToolCall(moduleID, op, duration, err)
	deps.Observer.TrackMetric(moduleID+"."+op+".duration_ms", float64(duration.Milliseconds()), domain.LogOptions{
		Category: moduleID,
		UserID:   call.UserID,
		TraceID:  call.TraceID,
	})

	if err != nil {
		return nil, fail(deps, call, wrapModuleErr(moduleID, op, call, err))
	}

	result := any(resp)
	if normalize != nil {
		result = normalize(resp)
	}

	deps.Observer.Info(fmt.Sprintf("%s.%s succeeded", moduleID, op), domain.LogOptions{
		Category: moduleID,
		TraceID:  call.TraceID,
		UserID:   call.UserID,
		Context:  map[string]any{"executionTimeMs": duration.Milliseconds()},
	})
	return result, nil
}

// validateRequired rejects calls missing a required non-path argument.
// Path parameters are checked during placement so their errors name the
// parameter the endpoint template wants.
func validateRequired(descriptor domain.ToolDescriptor, moduleID, op string, call domain.Call) error {
	for name, param := range descriptor.Parameters {
		if !param.Required || descriptor.ParameterMapping[name] == domain.PlacePath {
			continue
		}
		if value, ok := call.Args[name]; !ok || value == nil || value == "" {
			return domain.E(domain.CategoryValidation,
				fmt.Sprintf("%s.%s: field %s is required", moduleID, op, name),
				domain.ErrorOptions{
					TraceID:  call.TraceID,
					UserID:   call.UserID,
					DeviceID: call.DeviceID,
					Context:  map[string]any{"module": moduleID, "method": op, "field": name},
				})
		}
	}
	return nil
}

func send(ctx context.Context, deps Deps, descriptor domain.ToolDescriptor, resolved transform.Resolved, call domain.Call) (map[string]any, error) {
	req := deps.Client.API(resolved.Path, call.UserID, call.SessionID)
	if len(resolved.Query) > 0 {
		req = req.Query(resolved.Query)
	}
	switch descriptor.Method {
	case domain.MethodPost:
		return req.Post(ctx, resolved.Body)
	case domain.MethodPut:
		return req.Put(ctx, resolved.Body)
	case domain.MethodPatch:
		return req.Patch(ctx, resolved.Body)
	case domain.MethodDelete:
		return req.Delete(ctx)
	default:
		return req.Get(ctx)
	}
}

// wrapModuleErr re-raises failures under the module's own category.
// Validation errors pass through; upstream failures keep their statusCode
// in context.
func wrapModuleErr(moduleID, op string, call domain.Call, err error) error {
	var structured *domain.Error
	if errors.As(err, &structured) {
		if structured.Category == domain.CategoryValidation || structured.Category == domain.CategoryAuth {
			return structured
		}
		moduleContext := map[string]any{"module": moduleID, "method": op}
		for key, value := range structured.Context {
			moduleContext[key] = value
		}
		return domain.E(moduleID, structured.Message, domain.ErrorOptions{
			Severity: structured.Severity,
			Context:  moduleContext,
			TraceID:  call.TraceID,
			UserID:   call.UserID,
			DeviceID: call.DeviceID,
			Cause:    structured,
		})
	}
	return domain.E(moduleID, err.Error(), domain.ErrorOptions{
		Context:  map[string]any{"module": moduleID, "method": op},
		TraceID:  call.TraceID,
		UserID:   call.UserID,
		DeviceID: call.DeviceID,
		Cause:    err,
	})
}

func fail(deps Deps, call domain.Call, err error) error {
	deps.Observer.LogError(err, call.UserID, call.SessionID)
	return err
}

// Shared response helpers for normalizers. Upstream list responses carry
// their items under value.
func items(resp map[string]any) []any {
	if list, ok := resp["value"].([]any); ok {
		return list
	}
	return nil
}

func asMap(value any) map[string]any {
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func field(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := m[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

func strField(m map[string]any, keys ...string) string {
	if value := field(m, keys...); value != nil {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}
