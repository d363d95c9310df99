package effectchain

// Runtime is the per-stage activation, configuration and processing
// contract.
type Runtime interface {
	// Active reports whether the stage runs for params. Inactive stages are
	// neither configured nor processed.
	Active(ctx Context, params Params) bool
	Configure(ctx Context, params Params) error
	Process(block []float64)
}
