package effectchain

import (
	"errors"
	"fmt"
)

// Factory builds one Runtime instance for a stage.
type Factory func(ctx Context) (Runtime, error)

// Registry maps stage names to their factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicateStage = errors.New("duplicate stage")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given stage name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("empty stage name")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateStage, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	err := r.Register(name, factory)
	if err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the factory for the given stage name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}
