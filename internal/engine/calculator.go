// Package engine holds the installment-plan and delinquency rules for auction obligations.
//
// Everything here is pure: the reference instant is always passed in, nothing reads a clock
// and nothing touches storage. A Calculator only carries configuration (due-day policy and
// logger), so one instance can be shared between goroutines.
package engine

import (
	"go.uber.org/zap"
)

// Calculator evaluates obligations under a fixed due-day policy
type Calculator struct {
	policy DueDayPolicy
	logger *zap.Logger
}

// Option configures a Calculator
type Option func(*Calculator)

// WithDueDayPolicy selects how due days past the end of a month are handled
func WithDueDayPolicy(policy DueDayPolicy) Option {
	return func(c *Calculator) {
		c.policy = policy
	}
}

// WithLogger attaches a logger for diagnostics on incomplete schedules
func WithLogger(logger *zap.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCalculator creates a calculator; the default policy lets overflowing due days roll into the next month
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		policy: DueDayOverflow,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the due-day policy in use
func (c *Calculator) Policy() DueDayPolicy {
	return c.policy
}

var defaultCalculator = NewCalculator()
