package domain

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Well-known error categories. The set is open-ended: module failures are
// categorized by module id (mail, calendar, files, ...).
const (
	CategoryValidation = "validation"
	CategoryAuth       = "auth"
	CategoryUpstream   = "upstream"
	CategorySystem     = "system"
	CategoryModuleInit = "module-init"
)

// Error is the structured error value every component produces. Immutable
// after creation: constructors copy caller-supplied context maps.
type Error struct {
	Category  string
	Severity  Severity
	Message   string
	Context   map[string]any
	TraceID   string
	UserID    string
	DeviceID  string
	Stack     string
	Timestamp time.Time
	Cause     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" && e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Category, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type ErrorOptions struct {
	Severity Severity
	Context  map[string]any
	TraceID  string
	UserID   string
	DeviceID string
	Cause    error
}

// E builds a structured error. Severity defaults to error.
func E(category, message string, opts ErrorOptions) *Error {
	sev := opts.Severity
	if sev == "" {
		sev = SeverityError
	}
	return &Error{
		Category:  category,
		Severity:  sev,
		Message:   message,
		Context:   cloneContext(opts.Context),
		TraceID:   opts.TraceID,
		UserID:    opts.UserID,
		DeviceID:  opts.DeviceID,
		Stack:     captureStack(),
		Timestamp: time.Now().UTC(),
		Cause:     opts.Cause,
	}
}

// Wrap promotes err to a structured error under category. An existing
// structured error passes through unchanged regardless of category.
func Wrap(category string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	return E(category, err.Error(), ErrorOptions{Cause: err})
}

// CategoryFrom reports the category of a structured error, or system for
// anything else.
func CategoryFrom(err error) string {
	var structured *Error
	if errors.As(err, &structured) && structured.Category != "" {
		return structured.Category
	}
	return CategorySystem
}

func cloneContext(ctx map[string]any) map[string]any {
	if len(ctx) == 0 {
		return nil
	}
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

func captureStack() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
