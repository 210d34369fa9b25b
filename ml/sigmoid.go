//
// Copyright (c) 2026 HashCloak
//
// All rights reserved.
//

// Package ml implements multi-class logistic-regression training as
// a fixed, data-oblivious sequence of fixed-point field operations.
// The shape of the computation depends only on the sample, feature,
// class, and epoch counts, never on the data values, which keeps the
// sequence provable and MPC-executable as a straight-line circuit.
package ml

import (
	"github.com/hashcloak/mpc-ml/fixed"
)

// Sigmoid thresholds and line coefficients, quantized once. The two
// outer slopes share the 0.02776 coefficient.
var (
	sigCutLo    = fixed.Encode(-5)
	sigCutMidLo = fixed.Encode(-2.5)
	sigCutMidHi = fixed.Encode(2.5)
	sigCutHi    = fixed.Encode(5)

	sigFloor  = fixed.Encode(0.0001)
	sigCeil   = fixed.Encode(0.9999)
	sigOuterA = fixed.Encode(0.02776)
	sigLoB    = fixed.Encode(0.145)
	sigMidA   = fixed.Encode(0.17)
	sigMidB   = fixed.Encode(0.5)
	sigHiB    = fixed.Encode(0.85498)
)

// Sigmoid approximates the logistic function with five fixed linear
// pieces:
//
//	x <= -5         0.0001
//	-5 < x <= -2.5  0.02776*x + 0.145
//	-2.5 < x <= 2.5 0.17*x + 0.5
//	2.5 < x <= 5    0.02776*x + 0.85498
//	x > 5           0.9999
//
// All five piece values are computed unconditionally. The result is
// seeded with the x > 5 constant and overwritten through the four
// threshold comparisons in descending order with arithmetic
// selection, so every invocation executes the same operations and a
// data-dependent array index never appears.
func Sigmoid(x fixed.Quantized) (fixed.Quantized, error) {
	outer, err := sigOuterA.Mul(x)
	if err != nil {
		return fixed.Quantized{}, err
	}
	mid, err := sigMidA.Mul(x)
	if err != nil {
		return fixed.Quantized{}, err
	}

	loVal, err := outer.Add(sigLoB)
	if err != nil {
		return fixed.Quantized{}, err
	}
	midVal, err := mid.Add(sigMidB)
	if err != nil {
		return fixed.Quantized{}, err
	}
	hiVal, err := outer.Add(sigHiB)
	if err != nil {
		return fixed.Quantized{}, err
	}

	result := sigCeil

	bit, err := x.Le(sigCutHi)
	if err != nil {
		return fixed.Quantized{}, err
	}
	result = fixed.Select(bit, hiVal, result)

	bit, err = x.Le(sigCutMidHi)
	if err != nil {
		return fixed.Quantized{}, err
	}
	result = fixed.Select(bit, midVal, result)

	bit, err = x.Le(sigCutMidLo)
	if err != nil {
		return fixed.Quantized{}, err
	}
	result = fixed.Select(bit, loVal, result)

	bit, err = x.Le(sigCutLo)
	if err != nil {
		return fixed.Quantized{}, err
	}
	result = fixed.Select(bit, sigFloor, result)

	return result, nil
}
