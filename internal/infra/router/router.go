package router

import (
	"fmt"
	"strings"
	"sync"

	"officegw/internal/domain"
	"officegw/internal/infra/telemetry"
)

// Router maps a public tool name to a module method. Resolution is a pure
// function of the registry and alias table: special-case literals first,
// then a direct capability scan, then the alias table with lazy validation.
// Capabilities are scanned before aliases so a public alias can never
// shadow a module's own capability.
type Router struct {
	registry domain.Registry
	observer domain.Observer
	metrics  domain.Metrics

	mu      sync.RWMutex
	aliases map[string]domain.AliasEntry
}

type Options struct {
	Observer domain.Observer
	Metrics  domain.Metrics
	// Aliases extend (and may override) the built-in alias table.
	Aliases map[string]domain.AliasEntry
}

// Built-in renames carried over from older public tool names.
var builtinAliases = map[string]domain.AliasEntry{
	"sendmail":          {ModuleID: "mail", Method: "sendEmail"},
	"searchmail":        {ModuleID: "mail", Method: "searchEmails"},
	"reademail":         {ModuleID: "mail", Method: "getEmail"},
	"getevents":         {ModuleID: "calendar", Method: "listEvents"},
	"scheduleevent":     {ModuleID: "calendar", Method: "createEvent"},
	"findtime":          {ModuleID: "calendar", Method: "findMeetingTimes"},
	"checkavailability": {ModuleID: "calendar", Method: "getAvailability"},
	"findfiles":         {ModuleID: "files", Method: "searchFiles"},
	"searchpeople":      {ModuleID: "people", Method: "findPeople"},
	"addtask":           {ModuleID: "todo", Method: "createTask"},
}

func New(reg domain.Registry, opts Options) *Router {
	aliases := make(map[string]domain.AliasEntry, len(builtinAliases)+len(opts.Aliases))
	for name, entry := range builtinAliases {
		aliases[strings.ToLower(name)] = entry
	}
	for name, entry := range opts.Aliases {
		aliases[strings.ToLower(name)] = entry
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Router{
		registry: reg,
		observer: opts.Observer,
		metrics:  metrics,
		aliases:  aliases,
	}
}

// SetAliases replaces the loaded alias table (built-ins stay). Used by the
// config reload path.
func (r *Router) SetAliases(aliases map[string]domain.AliasEntry) {
	next := make(map[string]domain.AliasEntry, len(builtinAliases)+len(aliases))
	for name, entry := range builtinAliases {
		next[strings.ToLower(name)] = entry
	}
	for name, entry := range aliases {
		next[strings.ToLower(name)] = entry
	}
	r.mu.Lock()
	r.aliases = next
	r.mu.Unlock()
}

// Resolve maps name to a route, case-insensitively.
func (r *Router) Resolve(name string) (domain.Route, bool) {
	route, ok := r.resolve(name)
	r.metrics.ObserveResolve(ok)
	return route, ok
}

func (r *Router) resolve(name string) (domain.Route, bool) {
	if strings.EqualFold(name, "query") {
		return domain.Route{ModuleID: "query", Method: "processQuery"}, true
	}

	for _, module := range r.registry.All() {
		if original, ok := module.HasCapability(name); ok {
			return domain.Route{ModuleID: module.ID, Method: original}, true
		}
	}

	r.mu.RLock()
	entry, ok := r.aliases[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return domain.Route{}, false
	}

	// Lazy alias validation: target module and capability must both exist.
	module, ok := r.registry.Get(entry.ModuleID)
	if !ok {
		r.logBrokenAlias(name, entry, "target module not registered")
		return domain.Route{}, false
	}
	original, ok := module.HasCapability(entry.Method)
	if !ok {
		r.logBrokenAlias(name, entry, "target capability not declared")
		return domain.Route{}, false
	}
	return domain.Route{ModuleID: entry.ModuleID, Method: original}, true
}

func (r *Router) logBrokenAlias(name string, entry domain.AliasEntry, reason string) {
	if r.observer == nil {
		return
	}
	r.observer.Error(fmt.Sprintf("alias %q resolves to no mapping: %s", name, reason), domain.LogOptions{
		Category: "router",
		Context: map[string]any{
			"alias":  name,
			"module": entry.ModuleID,
			"method": entry.Method,
		},
	})
}

var _ domain.Router = (*Router)(nil)
