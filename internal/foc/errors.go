package foc

import (
	"errors"
	"fmt"
)

// Construction errors. Per-period operations never return errors.
var (
	// ErrTableSize indicates a trig table size that is not a power of two.
	ErrTableSize = errors.New("foc: trig table size must be a power of two >= 4")

	// ErrParameterBounds indicates a modulator parameter outside its valid range.
	ErrParameterBounds = errors.New("foc: parameter out of valid bounds")
)

// PreconditionError is raised (as a panic value) by focdebug builds when a
// caller hands the core an input outside its documented domain.
type PreconditionError struct {
	Op     string
	Detail string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("foc: %s: precondition violated: %s", e.Op, e.Detail)
}
