package registry

import (
	"fmt"
	"sync"

	"officegw/internal/domain"
)

// Registry holds module descriptors. Registration happens at startup;
// reads are safe to invoke concurrently with registration.
type Registry struct {
	mu       sync.RWMutex
	modules  map[string]domain.ModuleDescriptor
	order    []string
	services map[string]struct{}
	observer domain.Observer
}

type Options struct {
	// Services names the collaborators available to modules. Registration
	// of a descriptor requiring a missing service fails.
	Services []string
	Observer domain.Observer
}

func New(opts Options) *Registry {
	services := make(map[string]struct{}, len(opts.Services))
	for _, s := range opts.Services {
		services[s] = struct{}{}
	}
	return &Registry{
		modules:  make(map[string]domain.ModuleDescriptor),
		services: services,
		observer: opts.Observer,
	}
}

// Register adds a descriptor. A duplicate id or a missing required service
// fails with a module-init error and leaves the registry unchanged.
func (r *Registry) Register(descriptor domain.ModuleDescriptor) error {
	if descriptor.ID == "" {
		return domain.E(domain.CategoryModuleInit, "module id is required", domain.ErrorOptions{})
	}

	for _, required := range descriptor.Requires {
		if _, ok := r.services[required]; !ok {
			return domain.E(domain.CategoryModuleInit,
				fmt.Sprintf("module %q requires missing service %q", descriptor.ID, required),
				domain.ErrorOptions{Context: map[string]any{"module": descriptor.ID, "service": required}})
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[descriptor.ID]; exists {
		return domain.E(domain.CategoryModuleInit,
			fmt.Sprintf("module %q already registered", descriptor.ID),
			domain.ErrorOptions{Context: map[string]any{"module": descriptor.ID}})
	}
	r.modules[descriptor.ID] = descriptor
	r.order = append(r.order, descriptor.ID)

	if r.observer != nil {
		r.observer.Info(fmt.Sprintf("module registered: %s", descriptor.ID), domain.LogOptions{
			Category: "registry",
			Context:  map[string]any{"capabilities": len(descriptor.Capabilities)},
		})
	}
	return nil
}

func (r *Registry) Get(id string) (domain.ModuleDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.modules[id]
	return descriptor, ok
}

// All returns descriptors in registration order for deterministic catalog
// output.
func (r *Registry) All() []domain.ModuleDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ModuleDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.modules[id])
	}
	return out
}

var _ domain.Registry = (*Registry)(nil)
