package matrix

import "fmt"

// Parameters tunes the Builder.
type Parameters struct {
	// Concurrency is the amount of cells fetched simultaneously.
	// 1 keeps construction strictly sequential.
	Concurrency int
}

// Option configures Parameters.
type Option func(*Parameters)

// DefaultParameters returns the default configuration values for the Builder.
func DefaultParameters() Parameters {
	return Parameters{
		Concurrency: 1,
	}
}

// Validate performs basic validation of the parameters.
func (p Parameters) Validate() error {
	if p.Concurrency < 1 {
		return fmt.Errorf("matrix: concurrency must be positive, got %d", p.Concurrency)
	}
	return nil
}

// WithConcurrency sets the amount of cells fetched simultaneously.
func WithConcurrency(n int) Option {
	return func(p *Parameters) {
		p.Concurrency = n
	}
}
