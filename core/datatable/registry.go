package datatable

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrUnknownFilter is returned when a filter name has no registered factory.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrInvalidArguments is returned by factories given the wrong arguments.
	ErrInvalidArguments = errors.New("invalid filter arguments")
)

// Filter rewrites the rows of a table in place.
type Filter interface {
	Name() string
	Filter(table *Table) error
}

// FilterFactory builds a filter from the argument list of a Table.Filter call.
type FilterFactory func(args []any) (Filter, error)

// Registry maps filter names to their factories.
type Registry struct {
	factories map[string]FilterFactory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewRegistry creates an empty filter registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		factories: make(map[string]FilterFactory),
		logger:    logger,
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry used by tables created
// without WithRegistry.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(nil)
	})
	return defaultRegistry
}

// Register registers a factory under name, replacing any previous one.
func (r *Registry) Register(name string, factory FilterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	r.logger.Info("Registered filter", zap.String("name", name))
}

// RegisterAll registers multiple factories from a map.
func (r *Registry) RegisterAll(factories map[string]FilterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, factory := range factories {
		r.factories[name] = factory
		r.logger.Info("Registered filter", zap.String("name", name))
	}
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (FilterFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// New builds the named filter with args.
func (r *Registry) New(name string, args []any) (Filter, error) {
	factory, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	filter, err := factory(args)
	if err != nil {
		return nil, fmt.Errorf("cannot create filter '%s': %w", name, err)
	}
	return filter, nil
}

// Names returns the registered filter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
