package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"officegw/internal/domain"
)

// Core is the observability substrate every component depends on. Its
// public methods never fail outward: any internal failure falls back to an
// unbuffered stderr write and never recurses through the core itself.
type Core struct {
	buffer   *RingBuffer
	bus      *Bus
	limiter  *RateLimiter
	governor *MemoryGovernor
	filter   *Filter
	sink     *zap.Logger
	metrics  domain.Metrics

	mu         sync.RWMutex
	logSubs    map[int]func(domain.LogEntry)
	metricSubs map[int]func(domain.LogEntry)
	nextSub    int

	// Wired in the second construction phase; nil until then.
	store domain.UserLogStore

	pid     int
	host    string
	version string
}

type CoreOptions struct {
	BufferSize  int
	Bus         *Bus
	Limiter     *RateLimiter
	Governor    *MemoryGovernor
	Filter      *Filter
	Sink        *zap.Logger
	Metrics     domain.Metrics
	Version     string
	Development bool
}

// NewCore builds the core with dependency handles unresolved where noted;
// SetUserLogStore completes the wiring. Constructors never log.
func NewCore(opts CoreOptions) *Core {
	host, _ := os.Hostname()
	c := &Core{
		buffer:     NewRingBuffer(opts.BufferSize),
		bus:        opts.Bus,
		limiter:    opts.Limiter,
		governor:   opts.Governor,
		filter:     opts.Filter,
		sink:       opts.Sink,
		metrics:    opts.Metrics,
		logSubs:    make(map[int]func(domain.LogEntry)),
		metricSubs: make(map[int]func(domain.LogEntry)),
		pid:        os.Getpid(),
		host:       host,
		version:    opts.Version,
	}
	if c.bus == nil {
		c.bus = NewBus()
	}
	if c.limiter == nil {
		c.limiter = NewRateLimiter(domain.RateLimitThreshold, domain.RateLimitWindow)
	}
	if c.filter == nil {
		c.filter = NewFilter(opts.Development, false)
	}
	if c.sink == nil {
		c.sink = zap.NewNop()
	}
	if c.metrics == nil {
		c.metrics = NewNoopMetrics()
	}
	return c
}

// SetUserLogStore completes two-phase construction.
func (c *Core) SetUserLogStore(store domain.UserLogStore) {
	c.mu.Lock()
	c.store = store
	c.mu.Unlock()
}

// Bus exposes the event bus for components that emit or subscribe directly.
func (c *Core) Bus() *Bus {
	return c.bus
}

// LogError normalizes err to a structured error, applies per-category
// throttling, stores and emits it, and forwards it per-user when a user id
// is known.
func (c *Core) LogError(err error, userID, sessionID string) {
	defer c.recoverInfra("logError")

	if err == nil {
		return
	}
	structured := domain.Wrap(domain.CategorySystem, err)

	emergency := false
	if c.governor != nil {
		c.governor.FastCheck()
		emergency = c.governor.EmergencyDisabled()
		c.metrics.SetEmergency(emergency)
	}

	allowed, suppressed := c.limiter.Allow(structured.Category)
	if suppressed > 0 {
		c.metrics.AddSuppressed(structured.Category, suppressed)
		// The summary is warn-level, so emergency mode sheds it too.
		if !emergency {
			c.storeAndEmit(c.newEntry(domain.LogLevelWarn, structured.Category,
				fmt.Sprintf("suppressed %d error log entries in category %q", suppressed, structured.Category),
				map[string]any{"suppressed": suppressed}, "", "", "", ""))
		}
	}
	if !allowed {
		return
	}

	entryContext := cloneForEntry(structured.Context)
	if entryContext == nil {
		entryContext = make(map[string]any, 2)
	}
	entryContext["severity"] = string(structured.Severity)
	if structured.Stack != "" {
		entryContext["stack"] = structured.Stack
	}

	userForEntry := structured.UserID
	if userID != "" {
		userForEntry = userID
	}
	entry := c.newEntry(domain.LogLevelError, structured.Category, structured.Message,
		entryContext, structured.TraceID, userForEntry, structured.DeviceID, sessionID)

	c.storeAndEmit(entry)
	c.persistUserLog(entry)
}

func (c *Core) Error(message string, opts domain.LogOptions) {
	c.log(domain.LogLevelError, message, opts)
}

func (c *Core) Warn(message string, opts domain.LogOptions) {
	c.log(domain.LogLevelWarn, message, opts)
}

func (c *Core) Info(message string, opts domain.LogOptions) {
	c.log(domain.LogLevelInfo, message, opts)
}

func (c *Core) Debug(message string, opts domain.LogOptions) {
	c.log(domain.LogLevelDebug, message, opts)
}

func (c *Core) log(level domain.LogLevel, message string, opts domain.LogOptions) {
	defer c.recoverInfra("log")

	if c.governor != nil {
		c.governor.FastCheck()
		blocked := c.governor.EmergencyDisabled()
		c.metrics.SetEmergency(blocked)
		if blocked && level != domain.LogLevelError {
			return
		}
	}

	entry := c.newEntry(level, opts.Category, message, cloneForEntry(opts.Context),
		opts.TraceID, opts.UserID, opts.DeviceID, opts.SessionID)
	if !c.filter.Keep(entry) {
		return
	}

	c.storeAndEmit(entry)
	c.persistUserLog(entry)
}

// TrackMetric appends a metric entry and writes a debug-level sink line.
// Metrics never trigger event emission.
func (c *Core) TrackMetric(name string, value float64, opts domain.LogOptions) {
	defer c.recoverInfra("trackMetric")

	if c.governor != nil {
		c.governor.FastCheck()
		if c.governor.EmergencyDisabled() {
			return
		}
	}

	entry := c.newEntry("", opts.Category, "", cloneForEntry(opts.Context),
		opts.TraceID, opts.UserID, opts.DeviceID, opts.SessionID)
	entry.Type = domain.EntryTypeMetric
	entry.Name = name
	entry.Value = value

	if !c.filter.Keep(entry) {
		return
	}

	c.buffer.Add(entry)
	c.sink.Debug("metric",
		zap.String(FieldMetricName, name),
		zap.Float64(FieldValue, value),
		CategoryField(opts.Category),
	)
	c.notifyMetricSubs(entry)
	c.persistUserLog(entry)
}

func (c *Core) SubscribeToLogs(cb func(domain.LogEntry)) func() {
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	c.logSubs[id] = cb
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.logSubs, id)
		c.mu.Unlock()
	}
}

func (c *Core) SubscribeToMetrics(cb func(domain.LogEntry)) func() {
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	c.metricSubs[id] = cb
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.metricSubs, id)
		c.mu.Unlock()
	}
}

// GetLatestLogs returns up to limit entries newest first.
func (c *Core) GetLatestLogs(limit int) []domain.LogEntry {
	if limit <= 0 {
		limit = domain.DefaultLogBufferSize
	}
	snapshot := c.buffer.Snapshot()
	out := make([]domain.LogEntry, 0, limit)
	for i := len(snapshot) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, snapshot[i])
	}
	return out
}

// IngestEvent stores a log entry received from another component's bus
// emission. It never re-emits: recursion through the core is forbidden.
func (c *Core) IngestEvent(event string, entry domain.LogEntry) {
	defer c.recoverInfra("ingestEvent")

	switch event {
	case domain.EventLogError, domain.EventLogWarn, domain.EventLogInfo, domain.EventLogDebug:
		if c.filter.Keep(entry) {
			c.buffer.Add(entry)
			c.writeSink(entry)
		}
	}
}

func (c *Core) newEntry(level domain.LogLevel, category, message string, logContext map[string]any, traceID, userID, deviceID, sessionID string) domain.LogEntry {
	if sessionID != "" {
		if logContext == nil {
			logContext = make(map[string]any, 1)
		}
		logContext["sessionId"] = sessionID
	}
	return domain.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Category:  category,
		Message:   message,
		Context:   logContext,
		PID:       c.pid,
		Host:      c.host,
		Version:   c.version,
		TraceID:   traceID,
		UserID:    userID,
		DeviceID:  deviceID,
	}
}

func (c *Core) storeAndEmit(entry domain.LogEntry) {
	c.buffer.Add(entry)
	c.writeSink(entry)
	c.bus.Emit(domain.EventForLevel(entry.Level), entry)
	c.notifyLogSubs(entry)
}

func (c *Core) writeSink(entry domain.LogEntry) {
	fields := []zap.Field{
		CategoryField(entry.Category),
	}
	if entry.TraceID != "" {
		fields = append(fields, TraceIDField(entry.TraceID))
	}
	if entry.UserID != "" {
		fields = append(fields, zap.String(FieldUserID, entry.UserID))
	}
	if len(entry.Context) > 0 {
		fields = append(fields, zap.Any("context", entry.Context))
	}

	switch entry.Level {
	case domain.LogLevelError:
		c.sink.Error(entry.Message, fields...)
	case domain.LogLevelWarn:
		c.sink.Warn(entry.Message, fields...)
	case domain.LogLevelDebug:
		c.sink.Debug(entry.Message, fields...)
	default:
		c.sink.Info(entry.Message, fields...)
	}
}

func (c *Core) notifyLogSubs(entry domain.LogEntry) {
	c.mu.RLock()
	subs := make([]func(domain.LogEntry), 0, len(c.logSubs))
	for _, cb := range c.logSubs {
		subs = append(subs, cb)
	}
	c.mu.RUnlock()
	for _, cb := range subs {
		invoke("log-subscriber", cb, entry)
	}
}

func (c *Core) notifyMetricSubs(entry domain.LogEntry) {
	c.mu.RLock()
	subs := make([]func(domain.LogEntry), 0, len(c.metricSubs))
	for _, cb := range c.metricSubs {
		subs = append(subs, cb)
	}
	c.mu.RUnlock()
	for _, cb := range subs {
		invoke("metric-subscriber", cb, entry)
	}
}

// persistUserLog forwards the entry to the user-log store without blocking
// the caller. Failures are swallowed to stderr.
func (c *Core) persistUserLog(entry domain.LogEntry) {
	if entry.UserID == "" {
		return
	}
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()
	if store == nil {
		return
	}

	go func() {
		defer c.recoverInfra("persistUserLog")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		level := entry.Level
		message := entry.Message
		if entry.Type == domain.EntryTypeMetric {
			level = domain.LogLevelDebug
			message = fmt.Sprintf("metric %s=%v", entry.Name, entry.Value)
		}
		if err := store.AddUserLog(ctx, entry.UserID, level, message, entry.Category, entry.Context, entry.TraceID, entry.DeviceID); err != nil {
			infraError("user log persistence failed", err)
		}
	}()
}

func (c *Core) recoverInfra(op string) {
	if r := recover(); r != nil {
		infraError(op, fmt.Errorf("%v", r))
	}
}

func infraError(op string, err error) {
	if err == nil {
		err = errors.New("unknown failure")
	}
	fmt.Fprintf(os.Stderr, "INFRASTRUCTURE ERROR: %s: %v\n", op, err)
}

func cloneForEntry(logContext map[string]any) map[string]any {
	if len(logContext) == 0 {
		return nil
	}
	out := make(map[string]any, len(logContext))
	for k, v := range logContext {
		out[k] = v
	}
	return out
}

var _ domain.Observer = (*Core)(nil)
