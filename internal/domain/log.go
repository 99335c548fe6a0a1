package domain

import "time"

type LogLevel string

const (
	LogLevelError LogLevel = "error"
	LogLevelWarn  LogLevel = "warn"
	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
)

// EntryTypeMetric marks entries that carry a metric sample instead of a
// level/message pair.
const EntryTypeMetric = "metric"

// LogEntry is the unit stored in the ring buffer and written to the file
// sink. Metric entries set Type to EntryTypeMetric and fill Name/Value;
// log entries fill Level/Message.
type LogEntry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     LogLevel       `json:"level,omitempty"`
	Category  string         `json:"category,omitempty"`
	Message   string         `json:"message,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	PID       int            `json:"pid"`
	Host      string         `json:"host"`
	Version   string         `json:"version"`
	TraceID   string         `json:"traceId,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	DeviceID  string         `json:"deviceId,omitempty"`

	Type  string  `json:"type,omitempty"`
	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// Event names emitted by the observability core. Stable public contract.
const (
	EventLogError      = "log:error"
	EventLogInfo       = "log:info"
	EventLogWarn       = "log:warn"
	EventLogDebug      = "log:debug"
	EventLogMetric     = "log:metric"
	EventMemoryWarning = "system:memory:warning"
	EventEmergency     = "system:emergency"
)

// EventForLevel maps a log level to its event name.
func EventForLevel(level LogLevel) string {
	switch level {
	case LogLevelError:
		return EventLogError
	case LogLevelWarn:
		return EventLogWarn
	case LogLevelDebug:
		return EventLogDebug
	default:
		return EventLogInfo
	}
}
