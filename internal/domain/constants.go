package domain

import "time"

const (
	// Ring buffer capacity when none is configured.
	DefaultLogBufferSize = 100

	// Per-category error budget: at most RateLimitThreshold records per
	// RateLimitWindow; the rest are counted as suppressed.
	RateLimitThreshold = 10
	RateLimitWindow    = time.Second

	// Memory governor thresholds and cadence.
	MemoryWarnRatio      = 0.85
	MemoryEmergencyRatio = 0.95
	MemoryRecoverRatio   = 0.80
	MemoryCheckInterval  = 30 * time.Second
	MemorySampleFloor    = 5 * time.Second

	// File sink rotation.
	LogFileMaxSizeMB  = 2
	LogFileMaxBackups = 5

	// Oldest persisted entries beyond this count are trimmed per user.
	UserLogRetention = 500

	// Performance metrics below this value are dropped by the filters.
	MetricMinDurationMs = 10
)

// Environment values recognized from NODE_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)
