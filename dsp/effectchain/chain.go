package effectchain

import (
	"errors"
	"fmt"
)

// ErrUnknownStage is returned when the order references an unregistered stage.
var ErrUnknownStage = errors.New("unknown stage")

// Chain runs a fixed, ordered list of stages over a buffer. Each stage sees
// the output of the previous one and runs only when its own parameter
// activates it. A Chain holds no per-buffer state and is safe for concurrent
// use as long as the Registry is not modified.
type Chain struct {
	registry *Registry
	order    []string
}

// New creates a Chain over registry running stages in order. A nil registry
// means DefaultRegistry and an empty order means DefaultOrder.
func New(registry *Registry, order ...string) (*Chain, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if len(order) == 0 {
		order = DefaultOrder()
	}

	for _, name := range order {
		if registry.Lookup(name) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStage, name)
		}
	}

	return &Chain{registry: registry, order: append([]string(nil), order...)}, nil
}

// Order returns the stage names in processing order.
func (c *Chain) Order() []string {
	return append([]string(nil), c.order...)
}

// Process runs every active stage over block in place and returns the names
// of the stages that ran.
func (c *Chain) Process(ctx Context, params Params, block []float64) ([]string, error) {
	var applied []string

	for _, name := range c.order {
		rt, err := c.registry.Lookup(name)(ctx)
		if err != nil {
			return applied, fmt.Errorf("effectchain: create %s: %w", name, err)
		}

		if !rt.Active(ctx, params) {
			continue
		}

		if err := rt.Configure(ctx, params); err != nil {
			return applied, fmt.Errorf("effectchain: configure %s: %w", name, err)
		}

		rt.Process(block)
		applied = append(applied, name)
	}

	return applied, nil
}

// Active returns the names of the stages that would run for params, without
// touching any buffer.
func (c *Chain) Active(ctx Context, params Params) ([]string, error) {
	var active []string

	for _, name := range c.order {
		rt, err := c.registry.Lookup(name)(ctx)
		if err != nil {
			return active, fmt.Errorf("effectchain: create %s: %w", name, err)
		}

		if rt.Active(ctx, params) {
			active = append(active, name)
		}
	}

	return active, nil
}
