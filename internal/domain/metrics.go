package domain

import "time"

// Metrics receives operational measurements from the core. Implementations
// must be safe for concurrent use.
type Metrics interface {
	ObserveToolCall(moduleID, method string, duration time.Duration, err error)
	ObserveResolve(found bool)
	AddSuppressed(category string, count int)
	SetEmergency(active bool)
}
