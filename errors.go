package ec

import (
	"github.com/athanorlabs/go-ec/types"
)

// Validity errors, re-exported from the types package for convenience.
// Match with errors.Is; decode errors may carry additional context.
var (
	ErrNotOnCurve        = types.ErrNotOnCurve
	ErrSmallOrder        = types.ErrSmallOrder
	ErrNotInRange        = types.ErrNotInRange
	ErrMalformedEncoding = types.ErrMalformedEncoding
	ErrZeroHasNoInverse  = types.ErrZeroHasNoInverse
)
