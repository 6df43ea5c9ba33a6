/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Scale factor normalizer
 */

package main

import (
	"math"
)

// ScaleFactorState remembers the last committed scale factor,
// so the normalizer can tell which way the value moves
type ScaleFactorState struct {
	previous float64
}

// NewScaleFactorState creates ScaleFactorState, initialized
// with the given factor
func NewScaleFactorState(initial float64) ScaleFactorState {
	return ScaleFactorState{previous: initial}
}

// Previous returns the last committed factor
func (state *ScaleFactorState) Previous() float64 {
	return state.previous
}

// Normalize accepts a newly entered scale factor and returns the
// value to be committed.
//
// Factors below 1 are kept as is. At or above 1 the value snaps to
// an integer in the direction of the change, so small drifts like
// 3.0000001 still move to the next integer instead of rounding back.
func (state *ScaleFactorState) Normalize(f float64) float64 {
	f, state.previous = NormalizeScaleFactor(state.previous, f)
	return f
}

// NormalizeScaleFactor is the stateless form of Normalize. It returns
// the accepted factor and the new previous value
func NormalizeScaleFactor(previous, f float64) (accepted, updated float64) {
	switch {
	case f == previous:
		return f, previous
	case f < 1:
		accepted = f
	case f > previous:
		accepted = math.Ceil(f)
	default:
		accepted = math.Floor(f)
	}

	return accepted, accepted
}
