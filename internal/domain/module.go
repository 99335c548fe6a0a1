package domain

import (
	"context"
	"strings"
)

// Call carries a single tool invocation into a module method. Args is the
// transformed payload; the ids tag the call for logging and upstream auth.
type Call struct {
	Args      map[string]any
	UserID    string
	SessionID string
	DeviceID  string
	TraceID   string
}

// HandlerFunc is one entry in a module's dispatch table.
type HandlerFunc func(ctx context.Context, call Call) (any, error)

// ModuleDescriptor declares a module to the registry. Capabilities are
// ordered and matched case-insensitively but case-preserved for output.
// Requires names the services the module needs at registration time.
type ModuleDescriptor struct {
	ID           string
	DisplayName  string
	Capabilities []string
	Requires     []string
	Handlers     map[string]HandlerFunc
}

// HasCapability reports whether the module declares name, matching
// case-insensitively, and returns the original casing.
func (m ModuleDescriptor) HasCapability(name string) (string, bool) {
	for _, cap := range m.Capabilities {
		if strings.EqualFold(cap, name) {
			return cap, true
		}
	}
	return "", false
}

type Registry interface {
	Register(descriptor ModuleDescriptor) error
	Get(id string) (ModuleDescriptor, bool)
	All() []ModuleDescriptor
}

type Catalog interface {
	Tools() []ToolDescriptor
	Descriptor(name string) (ToolDescriptor, bool)
	Refresh()
}

type Router interface {
	Resolve(name string) (Route, bool)
}

type Transformer interface {
	Transform(moduleID, method string, args map[string]any, userID, deviceID string) (map[string]any, error)
}

// LogOptions carries the optional tagging fields of a log or metric call.
type LogOptions struct {
	Context   map[string]any
	Category  string
	TraceID   string
	UserID    string
	DeviceID  string
	SessionID string
}

// Observer is the observability core's public contract. Implementations
// never propagate failures through these methods.
type Observer interface {
	LogError(err error, userID, sessionID string)
	Error(message string, opts LogOptions)
	Warn(message string, opts LogOptions)
	Info(message string, opts LogOptions)
	Debug(message string, opts LogOptions)
	TrackMetric(name string, value float64, opts LogOptions)
	SubscribeToLogs(cb func(LogEntry)) (unsubscribe func())
	SubscribeToMetrics(cb func(LogEntry)) (unsubscribe func())
	GetLatestLogs(limit int) []LogEntry
}

// UserLogStore persists per-user log lines. Called fire-and-forget from the
// observability core; failures are swallowed to stderr.
type UserLogStore interface {
	AddUserLog(ctx context.Context, userID string, level LogLevel, message, category string, logContext map[string]any, traceID, deviceID string) error
}
