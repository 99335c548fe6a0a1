package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldCategory   = "category"
	FieldTraceID    = "traceId"
	FieldUserID     = "userId"
	FieldDeviceID   = "deviceId"
	FieldSessionID  = "sessionId"
	FieldModule     = "module"
	FieldMethod     = "method"
	FieldDurationMs = "executionTimeMs"
	FieldMetricName = "metric"
	FieldValue      = "value"
)

func CategoryField(category string) zap.Field {
	return zap.String(FieldCategory, category)
}

func TraceIDField(traceID string) zap.Field {
	return zap.String(FieldTraceID, traceID)
}

func ModuleField(moduleID string) zap.Field {
	return zap.String(FieldModule, moduleID)
}

func MethodField(method string) zap.Field {
	return zap.String(FieldMethod, method)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}
