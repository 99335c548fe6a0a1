package transform

import (
	"fmt"
	"net/url"
	"strings"

	"officegw/internal/domain"
)

// Resolved is a payload split by placement, ready for the upstream client.
type Resolved struct {
	Path  string
	Query map[string]string
	Body  map[string]any
}

// Resolve places every payload key per the descriptor's parameterMapping:
// path keys substitute :name placeholders (percent-encoded), the rest go
// to the query string or request body. A missing required path parameter
// fails with a validation error before any upstream call. Internal _-keys
// are context fields and are not placed.
func Resolve(descriptor domain.ToolDescriptor, moduleID, op string, payload map[string]any) (Resolved, error) {
	resolved := Resolved{
		Path:  descriptor.Endpoint,
		Query: map[string]string{},
		Body:  map[string]any{},
	}

	fallback := domain.PlaceQuery
	if descriptor.Method != domain.MethodGet {
		fallback = domain.PlaceBody
	}

	for key, value := range payload {
		if strings.HasPrefix(key, "_") {
			continue
		}
		placement, ok := descriptor.ParameterMapping[key]
		if !ok {
			placement = fallback
		}
		switch placement {
		case domain.PlacePath:
			resolved.Path = strings.ReplaceAll(resolved.Path, ":"+key, url.PathEscape(fmt.Sprintf("%v", value)))
		case domain.PlaceQuery:
			resolved.Query[key] = fmt.Sprintf("%v", value)
		default:
			resolved.Body[key] = value
		}
	}

	for _, placeholder := range domain.Placeholders(resolved.Path) {
		return Resolved{}, domain.E(domain.CategoryValidation,
			fmt.Sprintf("missing required path parameter %q", placeholder),
			domain.ErrorOptions{Context: map[string]any{
				"module":    moduleID,
				"method":    op,
				"parameter": placeholder,
			}})
	}

	return resolved, nil
}
