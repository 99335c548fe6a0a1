package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"officegw/internal/domain"
	"officegw/internal/infra/catalog"
)

// callIdentity tags a tool invocation. The fields arrive as reserved
// underscore arguments from the host and never reach the upstream payload.
type callIdentity struct {
	UserID    string
	SessionID string
	DeviceID  string
	TraceID   string
}

// identityFrom strips the reserved identity arguments out of args. A
// missing trace id gets a fresh one so every call is correlatable.
func identityFrom(args map[string]any) (callIdentity, map[string]any) {
	identity := callIdentity{}
	rest := make(map[string]any, len(args))
	for key, value := range args {
		text, _ := value.(string)
		switch key {
		case "_userId":
			identity.UserID = text
		case "_sessionId":
			identity.SessionID = text
		case "_deviceId":
			identity.DeviceID = text
		case "_traceId":
			identity.TraceID = text
		default:
			rest[key] = value
		}
	}
	if identity.TraceID == "" {
		identity.TraceID = uuid.NewString()
	}
	return identity, rest
}

// dispatch routes a public tool name through transformation to its module
// handler.
func (rt *runtime) dispatch(ctx context.Context, name string, args map[string]any, identity callIdentity) (any, error) {
	route, ok := rt.router.Resolve(name)
	if !ok {
		err := domain.E(domain.CategoryValidation,
			fmt.Sprintf("unknown tool %q", name),
			domain.ErrorOptions{
				TraceID: identity.TraceID,
				UserID:  identity.UserID,
				Context: map[string]any{"tool": name},
			})
		rt.core.LogError(err, identity.UserID, identity.SessionID)
		return nil, err
	}

	handler, ok := rt.handlerFor(route)
	if !ok {
		err := domain.E(domain.CategorySystem,
			fmt.Sprintf("module %q has no handler for %q", route.ModuleID, route.Method),
			domain.ErrorOptions{
				TraceID: identity.TraceID,
				Context: map[string]any{"module": route.ModuleID, "method": route.Method},
			})
		rt.core.LogError(err, identity.UserID, identity.SessionID)
		return nil, err
	}

	payload, err := rt.transformer.Transform(route.ModuleID, route.Method, args, identity.UserID, identity.DeviceID)
	if err != nil {
		return nil, err
	}

	return handler(ctx, domain.Call{
		Args:      payload,
		UserID:    identity.UserID,
		SessionID: identity.SessionID,
		DeviceID:  identity.DeviceID,
		TraceID:   identity.TraceID,
	})
}

func (rt *runtime) handlerFor(route domain.Route) (domain.HandlerFunc, bool) {
	if route.ModuleID == rt.query.ID {
		handler, ok := rt.query.Handlers[route.Method]
		return handler, ok
	}
	module, ok := rt.registry.Get(route.ModuleID)
	if !ok {
		return nil, false
	}
	handler, ok := module.Handlers[route.Method]
	return handler, ok
}

// runMCP publishes the catalog over stdio and serves until ctx is done.
func (rt *runtime) runMCP(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "officegw",
		Version: version,
	}, &mcp.ServerOptions{HasTools: true})

	for _, descriptor := range rt.catalog.Tools() {
		server.AddTool(catalog.ToMCP(descriptor), rt.toolHandler(descriptor.Name))
	}

	rt.logger.Info("mcp server starting (stdio transport)")
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (rt *runtime) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(domain.E(domain.CategoryValidation,
					"arguments must be a JSON object",
					domain.ErrorOptions{Context: map[string]any{"tool": name}})), nil
			}
		}

		identity, rest := identityFrom(args)
		result, err := rt.dispatch(ctx, name, rest, identity)
		if err != nil {
			return errorResult(err), nil
		}

		text, err := json.Marshal(result)
		if err != nil {
			return errorResult(domain.Wrap(domain.CategorySystem, err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
		}, nil
	}
}

// errorResult renders a structured error as a tool error payload. Stack
// traces stay inside the process.
func errorResult(err error) *mcp.CallToolResult {
	structured := domain.Wrap(domain.CategoryFrom(err), err)
	payload, marshalErr := json.Marshal(map[string]any{
		"error": map[string]any{
			"category": structured.Category,
			"severity": structured.Severity,
			"message":  structured.Message,
			"context":  structured.Context,
			"traceId":  structured.TraceID,
		},
	})
	if marshalErr != nil {
		payload = []byte(fmt.Sprintf(`{"error":{"category":%q,"message":%q}}`,
			structured.Category, structured.Message))
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}
}
