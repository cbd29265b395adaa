// Package checked provides overflow-checked counter arithmetic. Every
// accounting counter in the control plane goes through these helpers:
// overflow is a hard failure, never a silent wrap or saturation.
package checked

import (
	"math"

	dErrors "sss/pkg/domain-errors"
)

// Add returns a+b or a MathOverflow failure.
func Add(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, dErrors.NewReason(dErrors.CodeInvariantViolation, dErrors.ReasonMathOverflow, "counter addition overflows")
	}
	return a + b, nil
}

// Sub returns a-b or a MathOverflow failure when b exceeds a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, dErrors.NewReason(dErrors.CodeInvariantViolation, dErrors.ReasonMathOverflow, "counter subtraction underflows")
	}
	return a - b, nil
}
