package transform

import (
	"fmt"
	"sort"
	"strings"

	"officegw/internal/domain"
)

// ruleFunc reshapes cloned caller arguments into the upstream payload
// shape. Rules receive their own copy and may mutate it freely.
type ruleFunc func(args map[string]any) (map[string]any, error)

// Transformer reshapes agent-supplied arguments per (module, method).
// Unknown pairs pass through unchanged. Transform never mutates its input
// and is deterministic for identical inputs.
type Transformer struct {
	observer domain.Observer
	rules    map[string]ruleFunc
}

func New(observer domain.Observer) *Transformer {
	return &Transformer{
		observer: observer,
		rules:    operationRules(),
	}
}

func (t *Transformer) Transform(moduleID, method string, args map[string]any, userID, deviceID string) (payload map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = t.fail(domain.E(domain.CategorySystem,
				fmt.Sprintf("transformer panic for %s.%s", moduleID, method),
				domain.ErrorOptions{
					Severity: domain.SeverityCritical,
					Context:  errorContext(moduleID, method, args, fmt.Sprintf("%v", r)),
				}), userID)
			payload = nil
		}
	}()

	out := cloneArgs(args)

	key := strings.ToLower(moduleID) + "." + strings.ToLower(method)
	if rule, ok := t.rules[key]; ok {
		transformed, ruleErr := rule(out)
		if ruleErr != nil {
			structured := domain.Wrap(domain.CategoryValidation, ruleErr)
			return nil, t.fail(domain.E(structured.Category, structured.Message, domain.ErrorOptions{
				Severity: structured.Severity,
				Context:  errorContext(moduleID, method, args, ""),
				Cause:    ruleErr,
			}), userID)
		}
		out = transformed
	}

	if userID != "" {
		out["_userId"] = userID
	}
	if deviceID != "" {
		out["_deviceId"] = deviceID
	}
	return out, nil
}

// fail logs the structured error and returns it for re-raising.
func (t *Transformer) fail(structured *domain.Error, userID string) error {
	if t.observer != nil {
		t.observer.LogError(structured, userID, "")
	}
	return structured
}

// errorContext carries the argument key list, never values.
func errorContext(moduleID, method string, args map[string]any, detail string) map[string]any {
	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := map[string]any{
		"module":       moduleID,
		"method":       method,
		"argumentKeys": keys,
	}
	if detail != "" {
		out["detail"] = detail
	}
	return out
}

func cloneArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args)+2)
	for key, value := range args {
		out[key] = value
	}
	return out
}

var _ domain.Transformer = (*Transformer)(nil)
