package port

import "context"

// Generator streams text generation from a language model. yield is
// called once per incremental update with the cumulative text so far;
// Stream returns after the underlying stream ends.
type Generator interface {
	Stream(ctx context.Context, system, user string, yield func(cumulative string)) error

	// ModelName returns the name of the model.
	ModelName() string
}
