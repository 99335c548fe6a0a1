package telemetry

import (
	"strings"
	"sync"

	"officegw/internal/domain"
)

// Infrastructure chatter suppressed outside development mode.
var infraPatterns = []string{
	"request received",
	"request completed",
	"response sent",
	"auth status",
	"token refreshed",
	"session resumed",
	"transport connected",
}

// Event-system meters whose metric entries are dropped to avoid feedback.
var eventMeterNames = map[string]struct{}{
	"events.emitted":     {},
	"events.subscribers": {},
	"events.dropped":     {},
}

// Filter decides which entries are stored. It remembers module
// registration notices to drop duplicates.
type Filter struct {
	development bool
	silent      bool

	mu         sync.Mutex
	registered map[string]struct{}
}

func NewFilter(development, silent bool) *Filter {
	return &Filter{
		development: development,
		silent:      silent,
		registered:  make(map[string]struct{}),
	}
}

// Keep reports whether entry passes the filter rules.
func (f *Filter) Keep(entry domain.LogEntry) bool {
	if entry.Type == domain.EntryTypeMetric {
		if _, drop := eventMeterNames[entry.Name]; drop {
			return false
		}
		if isPerformanceMetric(entry.Name) && entry.Value < domain.MetricMinDurationMs {
			return false
		}
		return true
	}

	if !f.development {
		if entry.Category == "health" || entry.Category == "ping" {
			return false
		}
		if entry.Level == domain.LogLevelDebug && f.silent {
			return false
		}
	}

	if entry.Level == domain.LogLevelInfo || entry.Level == domain.LogLevelDebug {
		if !f.development && matchesInfraPattern(entry.Message) {
			return false
		}
	}

	if isModuleRegisteredNotice(entry.Message) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, seen := f.registered[entry.Message]; seen {
			return false
		}
		f.registered[entry.Message] = struct{}{}
	}

	return true
}

func matchesInfraPattern(message string) bool {
	lower := strings.ToLower(message)
	for _, pattern := range infraPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func isModuleRegisteredNotice(message string) bool {
	return strings.Contains(strings.ToLower(message), "module registered")
}

func isPerformanceMetric(name string) bool {
	return strings.HasSuffix(name, ".duration_ms") || strings.HasSuffix(name, ".executionTimeMs")
}
