package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"officegw/internal/domain"
)

func TestFilter_DropsEventMeterMetrics(t *testing.T) {
	filter := NewFilter(true, false)
	entry := domain.LogEntry{Type: domain.EntryTypeMetric, Name: "events.emitted", Value: 42}
	require.False(t, filter.Keep(entry))
}

func TestFilter_DropsFastPerformanceMetrics(t *testing.T) {
	filter := NewFilter(true, false)
	fast := domain.LogEntry{Type: domain.EntryTypeMetric, Name: "mail.send.duration_ms", Value: 4}
	slow := domain.LogEntry{Type: domain.EntryTypeMetric, Name: "mail.send.duration_ms", Value: 40}

	require.False(t, filter.Keep(fast))
	require.True(t, filter.Keep(slow))
}

func TestFilter_NonPerformanceMetricKeptRegardlessOfValue(t *testing.T) {
	filter := NewFilter(false, false)
	entry := domain.LogEntry{Type: domain.EntryTypeMetric, Name: "catalog.tools", Value: 1}
	require.True(t, filter.Keep(entry))
}

func TestFilter_ProductionDropsHealthAndPing(t *testing.T) {
	filter := NewFilter(false, false)
	require.False(t, filter.Keep(domain.LogEntry{Level: domain.LogLevelInfo, Category: "health", Message: "ok"}))
	require.False(t, filter.Keep(domain.LogEntry{Level: domain.LogLevelInfo, Category: "ping", Message: "pong"}))

	development := NewFilter(true, false)
	require.True(t, development.Keep(domain.LogEntry{Level: domain.LogLevelInfo, Category: "health", Message: "ok"}))
}

func TestFilter_SilentProductionDropsDebug(t *testing.T) {
	silent := NewFilter(false, true)
	require.False(t, silent.Keep(domain.LogEntry{Level: domain.LogLevelDebug, Category: "mail", Message: "detail"}))

	loud := NewFilter(false, false)
	require.True(t, loud.Keep(domain.LogEntry{Level: domain.LogLevelDebug, Category: "mail", Message: "detail"}))
}

func TestFilter_InfraChatterDroppedOutsideDevelopment(t *testing.T) {
	filter := NewFilter(false, false)
	require.False(t, filter.Keep(domain.LogEntry{Level: domain.LogLevelInfo, Category: "mail", Message: "Request received for listEmails"}))

	// Errors are never treated as chatter.
	require.True(t, filter.Keep(domain.LogEntry{Level: domain.LogLevelError, Category: "mail", Message: "request received but malformed"}))
}

func TestFilter_DeduplicatesRegistrationNotices(t *testing.T) {
	filter := NewFilter(true, false)
	notice := domain.LogEntry{Level: domain.LogLevelInfo, Category: "registry", Message: "module registered: mail"}

	require.True(t, filter.Keep(notice))
	require.False(t, filter.Keep(notice))

	other := domain.LogEntry{Level: domain.LogLevelInfo, Category: "registry", Message: "module registered: calendar"}
	require.True(t, filter.Keep(other))
}
