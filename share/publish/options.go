package publish

import "fmt"

// Parameters tunes the Publisher.
type Parameters struct {
	// Concurrency is the amount of columns published simultaneously.
	// 1 keeps publishing strictly sequential.
	Concurrency int
}

// Option configures Parameters.
type Option func(*Parameters)

// DefaultParameters returns the default configuration values for the Publisher.
func DefaultParameters() Parameters {
	return Parameters{
		Concurrency: 1,
	}
}

// Validate performs basic validation of the parameters.
func (p Parameters) Validate() error {
	if p.Concurrency < 1 {
		return fmt.Errorf("publish: concurrency must be positive, got %d", p.Concurrency)
	}
	return nil
}

// WithConcurrency sets the amount of columns published simultaneously.
func WithConcurrency(n int) Option {
	return func(p *Parameters) {
		p.Concurrency = n
	}
}
