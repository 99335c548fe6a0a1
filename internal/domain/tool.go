package domain

import "regexp"

type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodPatch  HTTPMethod = "PATCH"
	MethodDelete HTTPMethod = "DELETE"
)

type Placement string

const (
	PlacePath  Placement = "path"
	PlaceQuery Placement = "query"
	PlaceBody  Placement = "body"
)

// ParamSchema describes one tool parameter. Nested object parameters carry
// Properties; array parameters carry Items.
type ParamSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Required    bool                   `json:"required,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Properties  map[string]ParamSchema `json:"properties,omitempty"`
	Items       *ParamSchema           `json:"items,omitempty"`
	Aliases     []string               `json:"aliases,omitempty"`
}

// ToolDescriptor is the agent-visible form of a capability. Endpoint uses
// :name placeholders substituted by the dispatcher; ParameterMapping states
// where each argument is placed, with path placement forced for every
// placeholder parameter.
type ToolDescriptor struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Endpoint         string                 `json:"endpoint"`
	Method           HTTPMethod             `json:"method"`
	Parameters       map[string]ParamSchema `json:"parameters"`
	ParameterMapping map[string]Placement   `json:"parameterMapping,omitempty"`
}

// Route identifies the module method a tool name resolves to.
type Route struct {
	ModuleID string
	Method   string
}

// AliasEntry maps a public tool name to a module method. Validated lazily
// at resolution time.
type AliasEntry struct {
	ModuleID string `yaml:"module"`
	Method   string `yaml:"method"`
}

var placeholderPattern = regexp.MustCompile(`:([A-Za-z][A-Za-z0-9_]*)`)

// Placeholders lists the :name path parameters of an endpoint template in
// order of appearance.
func Placeholders(endpoint string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(endpoint, -1)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match[1])
	}
	return out
}
