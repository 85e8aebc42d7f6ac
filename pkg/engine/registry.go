package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of the process-wide registry.
var Metrics = prometheus.NewRegistry()

var std = newStdRegistry()

// Registry maps variant names to lazily constructed [Engine] singletons.
// It is safe for concurrent use.
type Registry struct {
	slots          map[string]*slot
	constructions  *prometheus.CounterVec
	defaultVariant string
	mu             sync.Mutex
}

// slot holds a single variant. The engine is built by the first caller of
// get, and every caller observes the same result.
type slot struct {
	factory Factory
	engine  Engine
	err     error
	once    sync.Once
}

// RegistryOpt configures a [Registry].
type RegistryOpt func(*Registry)

// WithDefaultVariant sets the variant returned by [Registry.Default].
func WithDefaultVariant(variant string) RegistryOpt {
	return func(r *Registry) {
		r.defaultVariant = variant
	}
}

// WithRegisterer registers the registry's collectors with reg.
func WithRegisterer(reg prometheus.Registerer) RegistryOpt {
	return func(r *Registry) {
		reg.MustRegister(r.constructions)
	}
}

// NewRegistry creates an empty [Registry].
func NewRegistry(opts ...RegistryOpt) *Registry {
	r := &Registry{
		slots:          map[string]*slot{},
		defaultVariant: DefaultVariant,
		constructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rtool",
			Subsystem: "engine",
			Name:      "constructions_total",
			Help:      "Number of constructed expression engines, by variant.",
		}, []string{"variant"}),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func newStdRegistry() *Registry {
	r := NewRegistry(WithRegisterer(Metrics))
	r.MustRegister(VariantCEL, func() (Engine, error) { return NewCEL() })
	r.MustRegister(VariantYAMLPath, func() (Engine, error) { return NewYAMLPath(), nil })

	return r
}

// Register adds a variant. The factory is not called until the variant is
// first requested.
func (r *Registry) Register(variant string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[variant]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateVariant, variant)
	}

	r.slots[variant] = &slot{factory: factory}

	return nil
}

// MustRegister is like [Registry.Register] but panics on error.
func (r *Registry) MustRegister(variant string, factory Factory) {
	err := r.Register(variant, factory)
	if err != nil {
		panic(err)
	}
}

// Get returns the engine for variant, constructing it on first use.
// Unknown variants return [ErrUnknownVariant] and leave the registry
// unchanged.
//
// A factory error is cached like a successful result, the factory is never
// retried.
//
//nolint:ireturn // Engines are pluggable.
func (r *Registry) Get(variant string) (Engine, error) {
	r.mu.Lock()
	s, ok := r.slots[variant]
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}

	s.once.Do(func() {
		s.engine, s.err = s.factory()
		if s.err != nil {
			s.err = fmt.Errorf("construct engine %q: %w", variant, s.err)
			return
		}

		r.constructions.WithLabelValues(variant).Inc()

		attrs := []any{slog.String("variant", variant)}
		if id, ok := s.engine.(interface{ ID() string }); ok {
			attrs = append(attrs, slog.String("id", id.ID()))
		}

		slog.Debug("constructed engine", attrs...)
	})

	return s.engine, s.err
}

// Default returns the engine for the registry's default variant.
//
//nolint:ireturn // Engines are pluggable.
func (r *Registry) Default() (Engine, error) {
	return r.Get(r.defaultVariant)
}

// DefaultVariant returns the name of the default variant.
func (r *Registry) DefaultVariant() string {
	return r.defaultVariant
}

// Variants returns the registered variant names in sorted order.
func (r *Registry) Variants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	variants := make([]string, 0, len(r.slots))
	for name := range r.slots {
		variants = append(variants, name)
	}

	slices.Sort(variants)

	return variants
}

// Constructions returns the counter of constructed engines, by variant.
func (r *Registry) Constructions() *prometheus.CounterVec {
	return r.constructions
}

// Get returns the process-wide engine for variant. See [Registry.Get].
//
//nolint:ireturn // Engines are pluggable.
func Get(variant string) (Engine, error) {
	return std.Get(variant)
}

// Default returns the process-wide default engine.
//
//nolint:ireturn // Engines are pluggable.
func Default() (Engine, error) {
	return std.Default()
}

// MustDefault is like [Default] but panics on error.
//
//nolint:ireturn // Engines are pluggable.
func MustDefault() Engine {
	e, err := Default()
	if err != nil {
		panic(err)
	}

	return e
}

// Register adds a variant to the process-wide registry.
func Register(variant string, factory Factory) error {
	return std.Register(variant, factory)
}

// Variants returns the variants of the process-wide registry.
func Variants() []string {
	return std.Variants()
}

// Constructions returns the construction counter of the process-wide
// registry. See [Registry.Constructions].
func Constructions() *prometheus.CounterVec {
	return std.Constructions()
}
