// Package registry provides the process-wide catalog of trigger and module
// kinds. It is populated once during startup and immutable afterwards, which
// makes unsynchronized concurrent reads from request handlers safe.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/flowgate-io/flowgate/pkg/protocol"
)

// Descriptor describes one registered node kind.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsTrigger   bool   `json:"is_trigger"`

	// Blocking marks gating triggers and blocking modules. A blocking
	// module reporting partial-success blocks the whole run.
	Blocking bool `json:"blocking"`

	// AllowsFanOut exempts the kind from the single-successor output rule.
	AllowsFanOut bool `json:"allows_fan_out"`

	Schema map[string]any `json:"schema,omitempty"`

	factory protocol.ModuleFactory
}

type Registry struct {
	logger      *slog.Logger
	descriptors map[string]*Descriptor
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:      logger,
		descriptors: make(map[string]*Descriptor),
	}
}

// RegisterTrigger registers a trigger kind. Called during startup only;
// panics on a duplicate id so a misconfigured catalog fails fast.
func (r *Registry) RegisterTrigger(desc *Descriptor) {
	desc.IsTrigger = true
	r.register(desc)
}

// RegisterModule registers a module kind backed by a factory. The factory
// supplies id, label and configuration schema; opts add capability flags.
func (r *Registry) RegisterModule(factory protocol.ModuleFactory, opts ...DescriptorOption) {
	desc := &Descriptor{
		ID:          factory.ID(),
		Name:        factory.Name(),
		Description: factory.Description(),
		Schema:      factory.Schema(),
		factory:     factory,
	}

	for _, opt := range opts {
		opt(desc)
	}

	r.register(desc)
}

// DescriptorOption adjusts capability flags at registration time.
type DescriptorOption func(*Descriptor)

// Blocking marks the module kind as blocking.
func Blocking() DescriptorOption {
	return func(d *Descriptor) { d.Blocking = true }
}

// AllowsFanOut lets one output port of the kind feed several connections.
func AllowsFanOut() DescriptorOption {
	return func(d *Descriptor) { d.AllowsFanOut = true }
}

func (r *Registry) register(desc *Descriptor) {
	if desc.ID == "" {
		panic("registry: descriptor without id")
	}

	if _, exists := r.descriptors[desc.ID]; exists {
		panic(fmt.Sprintf("registry: node kind %q registered twice", desc.ID))
	}

	r.descriptors[desc.ID] = desc

	if r.logger != nil {
		r.logger.Debug("Registered node kind", "kind", desc.ID, "trigger", desc.IsTrigger)
	}
}

// Resolve looks up a node kind.
func (r *Registry) Resolve(kind string) (*Descriptor, bool) {
	desc, ok := r.descriptors[kind]

	return desc, ok
}

// All returns every registered kind keyed by id.
func (r *Registry) All() map[string]*Descriptor {
	all := make(map[string]*Descriptor, len(r.descriptors))
	for id, desc := range r.descriptors {
		all[id] = desc
	}

	return all
}

// Triggers returns the trigger catalog sorted by id.
func (r *Registry) Triggers() []*Descriptor {
	return r.filtered(true)
}

// Modules returns the module catalog sorted by id.
func (r *Registry) Modules() []*Descriptor {
	return r.filtered(false)
}

func (r *Registry) filtered(triggers bool) []*Descriptor {
	list := make([]*Descriptor, 0, len(r.descriptors))

	for _, desc := range r.descriptors {
		if desc.IsTrigger == triggers {
			list = append(list, desc)
		}
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list
}

// CreateModule instantiates a module of the given kind with the given
// (already rendered) configuration.
func (r *Registry) CreateModule(kind string, config map[string]any) (protocol.Module, error) {
	desc, ok := r.descriptors[kind]
	if !ok || desc.factory == nil {
		return nil, fmt.Errorf("module kind '%s' not registered", kind)
	}

	return desc.factory.Create(config)
}
