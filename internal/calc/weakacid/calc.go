package weakacid

import (
	"math"
)

type Input struct {
	C0 float64 `json:"c0"` // mol/L
	Ka float64 `json:"ka"`
}

type Result struct {
	HA     float64 `json:"ha"`
	AMinus float64 `json:"a_minus"`
	HPlus  float64 `json:"h_plus"`
	PH     float64 `json:"ph"`
	Notes  string  `json:"notes"`
}

// Calculate validates the input and solves the HA <=> H+ + A- equilibrium.
func Calculate(in Input) (Result, error) {
	if !positive(in.C0) || !positive(in.Ka) {
		return Result{}, &SolveError{Kind: ErrInvalidInput, C0: in.C0, Ka: in.Ka}
	}
	return Solve(in.C0, in.Ka)
}

// Solve finds the dissociation extent x from Ka = x^2 / (c0 - x).
// Inputs are not validated; use Calculate for untrusted values.
func Solve(c0, ka float64) (Result, error) {
	// x^2 + Ka*x - Ka*c0 = 0
	a := 1.0
	b := ka
	c := -ka * c0

	D := b*b - 4*a*c
	if D < 0 {
		return Result{}, &SolveError{Kind: ErrNoRealSolution, C0: c0, Ka: ka}
	}

	x1, x2 := roots(c0, ka, D)
	x, ok := physicalRoot(c0, x1, x2)
	if !ok {
		return Result{}, &SolveError{Kind: ErrNoPhysicalSolution, C0: c0, Ka: ka}
	}
	if x == 0 {
		// Ka*c0 underflowed, pH would be +Inf.
		return Result{}, &SolveError{Kind: ErrNoPhysicalSolution, C0: c0, Ka: ka}
	}

	return Result{
		HA:     c0 - x,
		AMinus: x,
		HPlus:  x,
		PH:     -math.Log10(x),
		Notes:  "Exact quadratic solution for a weak monoprotic acid.",
	}, nil
}

// roots returns both roots of x^2 + Ka*x - Ka*c0 with discriminant D.
// The positive root is written as c0 scaled by 2Ka/(Ka+sqrt(D)); that ratio
// is at most 1 in floating point too, so rounding never lifts x above c0.
func roots(c0, ka, D float64) (float64, float64) {
	sq := math.Sqrt(D)
	return c0 * (2 * ka / (ka + sq)), -0.5 * (ka + sq)
}

// physicalRoot keeps roots within [0, c0] and returns the largest one.
func physicalRoot(c0 float64, candidates ...float64) (float64, bool) {
	best, found := 0.0, false
	for _, x := range candidates {
		if !(x >= 0 && x <= c0) {
			continue
		}
		if !found || x > best {
			best, found = x, true
		}
	}
	return best, found
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
