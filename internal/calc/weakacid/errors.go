package weakacid

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("c0 and Ka must be positive numbers")
	ErrNoRealSolution     = errors.New("no real solution, check the input parameters")
	ErrNoPhysicalSolution = errors.New("no physically meaningful solution, check c0 and Ka")
)

// SolveError reports which inputs produced a failure. Kind is one of the
// package sentinels.
type SolveError struct {
	Kind error
	C0   float64
	Ka   float64
}

func (e *SolveError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s (c0=%g, Ka=%g)", e.Kind.Error(), e.C0, e.Ka)
}

func (e *SolveError) Unwrap() error { return e.Kind }
