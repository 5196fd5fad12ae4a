package script

import "time"

// SelectorOption is a functional option for configuring a Selector.
type SelectorOption func(*selector)

// WithMaxAllocs caps the objects a single run may allocate. Defaults to 100000.
//
// Parameters:
//   - n: the allocation limit, or -1 for none
//
// Returns:
//   - SelectorOption: option function to apply
func WithMaxAllocs(n int64) SelectorOption {
	return func(s *selector) {
		s.maxAllocs = n
	}
}

// WithBudget sets how long a single run may take before it is cancelled. Defaults to 5ms.
//
// Parameters:
//   - d: the time budget
//
// Returns:
//   - SelectorOption: option function to apply
func WithBudget(d time.Duration) SelectorOption {
	return func(s *selector) {
		s.budget = d
	}
}
