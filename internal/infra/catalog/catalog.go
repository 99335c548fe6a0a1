package catalog

import (
	"fmt"
	"strings"
	"sync"

	"officegw/internal/domain"
)

// Catalog materializes the agent-visible tool list from the module
// registry, enriched by the capability override table. The list is cached
// until Refresh.
type Catalog struct {
	registry domain.Registry
	observer domain.Observer

	mu     sync.Mutex
	cached []domain.ToolDescriptor
	valid  bool
}

func New(reg domain.Registry, observer domain.Observer) *Catalog {
	return &Catalog{
		registry: reg,
		observer: observer,
	}
}

// Tools returns the materialized catalog. Generation is deterministic for
// identical registry state: a person-resolution capability is emitted
// first, the rest follow registry and capability order, and the synthetic
// query tool is appended last.
func (c *Catalog) Tools() []domain.ToolDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid {
		return c.cached
	}

	var first *domain.ToolDescriptor
	var rest []domain.ToolDescriptor
	for _, module := range c.registry.All() {
		for _, capability := range module.Capabilities {
			descriptor := c.materialize(module, capability)
			if strings.EqualFold(capability, "findPeople") && first == nil {
				tool := descriptor
				first = &tool
				continue
			}
			rest = append(rest, descriptor)
		}
	}

	tools := make([]domain.ToolDescriptor, 0, len(rest)+2)
	if first != nil {
		tools = append(tools, *first)
	}
	tools = append(tools, rest...)
	tools = append(tools, queryTool)

	c.cached = tools
	c.valid = true
	return c.cached
}

// Descriptor finds a tool by name, case-insensitively.
func (c *Catalog) Descriptor(name string) (domain.ToolDescriptor, bool) {
	for _, tool := range c.Tools() {
		if strings.EqualFold(tool.Name, name) {
			return tool, true
		}
	}
	return domain.ToolDescriptor{}, false
}

// Refresh drops the cache atomically; the next Tools call regenerates.
func (c *Catalog) Refresh() {
	c.mu.Lock()
	c.valid = false
	c.cached = nil
	c.mu.Unlock()
}

func (c *Catalog) materialize(module domain.ModuleDescriptor, capability string) domain.ToolDescriptor {
	override, hasOverride := capabilityOverrides[strings.ToLower(capability)]

	descriptor := domain.ToolDescriptor{
		Name:       capability,
		Parameters: map[string]domain.ParamSchema{},
	}
	if hasOverride {
		descriptor.Description = override.Description
		descriptor.Endpoint = override.Endpoint
		descriptor.Method = override.Method
		for name, schema := range override.Parameters {
			descriptor.Parameters[name] = schema
		}
	} else {
		descriptor.Description = fmt.Sprintf("%s operation of the %s module", capability, module.DisplayName)
		descriptor.Endpoint = defaultEndpoint(module.ID, capability)
		descriptor.Method = deriveMethod(capability)
		if c.observer != nil {
			c.observer.Debug("capability has no override entry", domain.LogOptions{
				Category: "catalog",
				Context:  map[string]any{"module": module.ID, "capability": capability},
			})
		}
	}

	descriptor.ParameterMapping = resolveMapping(descriptor, override.Mapping)

	// Every :name placeholder must have a path-placed parameter entry.
	for _, placeholder := range domain.Placeholders(descriptor.Endpoint) {
		if _, ok := descriptor.Parameters[placeholder]; !ok {
			descriptor.Parameters[placeholder] = domain.ParamSchema{
				Type:        "string",
				Description: fmt.Sprintf("Path parameter %s", placeholder),
				Required:    true,
			}
		}
		descriptor.ParameterMapping[placeholder] = domain.PlacePath
	}

	return descriptor
}

// deriveMethod maps a capability name prefix to an HTTP method.
func deriveMethod(capability string) domain.HTTPMethod {
	lower := strings.ToLower(capability)
	switch {
	case hasAnyPrefix(lower, "create", "add", "send", "search", "flag"):
		return domain.MethodPost
	case hasAnyPrefix(lower, "update", "set"):
		return domain.MethodPut
	case hasAnyPrefix(lower, "delete", "remove"):
		return domain.MethodDelete
	default:
		return domain.MethodGet
	}
}

func resolveMapping(descriptor domain.ToolDescriptor, explicit map[string]domain.Placement) map[string]domain.Placement {
	mapping := make(map[string]domain.Placement, len(descriptor.Parameters))

	fallback := domain.PlaceQuery
	if descriptor.Method != domain.MethodGet {
		fallback = domain.PlaceBody
	}
	for name := range descriptor.Parameters {
		mapping[name] = fallback
	}
	for name, placement := range explicit {
		mapping[name] = placement
	}
	return mapping
}

func defaultEndpoint(moduleID, capability string) string {
	return "/" + moduleID + "/" + strings.ToLower(capability)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

var _ domain.Catalog = (*Catalog)(nil)
