package gui

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets the logger for structural events such as relabels and
// capacity failures. Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) error {
		if log == nil {
			return errors.New("logger must not be nil")
		}
		e.log = log
		return nil
	}
}

// WithTracer sets the tracer used by passes that do not pass their own.
func WithTracer(t Tracer) Option {
	return func(e *Engine) error {
		if t == nil {
			return errors.New("tracer must not be nil")
		}
		e.tracer = t
		return nil
	}
}

// PassOption configures a single ComputeLayout call.
type PassOption func(*passConfig)

type passConfig struct {
	tracer Tracer
	budget int
}

// TraceWith sends this pass's events to t instead of the engine's tracer.
func TraceWith(t Tracer) PassOption {
	return func(c *passConfig) {
		if t != nil {
			c.tracer = t
		}
	}
}

// Budget stops the pass after n elements have been processed. Unprocessed
// elements stay dirty for the next pass. n <= 0 means no limit.
func Budget(n int) PassOption {
	return func(c *passConfig) {
		c.budget = n
	}
}
