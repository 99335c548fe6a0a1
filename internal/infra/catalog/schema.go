package catalog

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"officegw/internal/domain"
)

// InputSchema renders a descriptor's parameter mapping as a JSON schema
// object for the MCP surface.
func InputSchema(descriptor domain.ToolDescriptor) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(descriptor.Parameters))
	var required []string
	for name, param := range descriptor.Parameters {
		properties[name] = paramToSchema(param)
		if param.Required {
			required = append(required, name)
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func paramToSchema(param domain.ParamSchema) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:        param.Type,
		Description: param.Description,
	}
	if len(param.Enum) > 0 {
		schema.Enum = make([]any, 0, len(param.Enum))
		for _, value := range param.Enum {
			schema.Enum = append(schema.Enum, value)
		}
	}
	if param.Default != nil {
		if raw, err := json.Marshal(param.Default); err == nil {
			schema.Default = raw
		}
	}
	if len(param.Properties) > 0 {
		schema.Properties = make(map[string]*jsonschema.Schema, len(param.Properties))
		for name, nested := range param.Properties {
			schema.Properties[name] = paramToSchema(nested)
		}
	}
	if param.Items != nil {
		schema.Items = paramToSchema(*param.Items)
	}
	return schema
}

// ToMCP converts a descriptor to the wire tool shape. Endpoint, method, and
// parameter mapping ride in _meta so the agent sees the full contract.
func ToMCP(descriptor domain.ToolDescriptor) *mcp.Tool {
	meta := map[string]any{
		"endpoint": descriptor.Endpoint,
		"method":   string(descriptor.Method),
	}
	if len(descriptor.ParameterMapping) > 0 {
		mapping := make(map[string]any, len(descriptor.ParameterMapping))
		for name, placement := range descriptor.ParameterMapping {
			mapping[name] = string(placement)
		}
		meta["parameterMapping"] = mapping
	}
	return &mcp.Tool{
		Name:        descriptor.Name,
		Description: descriptor.Description,
		InputSchema: InputSchema(descriptor),
		Meta:        meta,
	}
}
