//
// Copyright (c) 2026 HashCloak
//
// All rights reserved.
//

package ml

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/hashcloak/mpc-ml/fixed"
)

// Bit budgets of the delayed-rescale accumulation. Each raw product
// of a 105-bit weight and a 20-bit input stays within 125 bits, and
// the running sum is re-asserted before every step so the
// accumulated total never exceeds 126 bits.
const (
	WeightBits = 105
	InputBits  = 20
	accBits    = 125
)

// Accumulator sums raw, unrescaled products of Quantized values.
// Skipping the per-term rescale trades M rescales for one at the
// cost of the tighter per-step budgets above.
type Accumulator struct {
	sum fr.Element
}

// AddProduct accumulates w*x as a raw field product.
func (a *Accumulator) AddProduct(w, x fixed.Quantized) error {
	if err := w.CheckBits(WeightBits); err != nil {
		return err
	}
	if err := x.CheckBits(InputBits); err != nil {
		return err
	}
	if err := fixed.FromElement(a.sum).CheckBits(accBits); err != nil {
		return err
	}
	var term fr.Element
	term.Mul(&w.X, &x.X)
	a.sum.Add(&a.sum, &term)
	return nil
}

// Sum rescales the accumulated total once and returns it.
func (a *Accumulator) Sum() (fixed.Quantized, error) {
	return fixed.Rescale(a.sum)
}

// DotProduct returns weights . inputs + bias with a single rescale
// of the accumulated raw products.
func DotProduct(weights, inputs []fixed.Quantized, bias fixed.Quantized) (
	fixed.Quantized, error) {

	if len(weights) != len(inputs) {
		return fixed.Quantized{},
			fmt.Errorf("ml: weight/input length mismatch: %d vs %d",
				len(weights), len(inputs))
	}
	var acc Accumulator
	for i := range weights {
		if err := acc.AddProduct(weights[i], inputs[i]); err != nil {
			return fixed.Quantized{}, err
		}
	}
	sum, err := acc.Sum()
	if err != nil {
		return fixed.Quantized{}, err
	}
	return sum.Add(bias)
}

// Predict computes the class probability for one sample: the biased
// dot product fed through the sigmoid approximation.
func Predict(weights, inputs []fixed.Quantized, bias fixed.Quantized) (
	fixed.Quantized, error) {

	z, err := DotProduct(weights, inputs, bias)
	if err != nil {
		return fixed.Quantized{}, err
	}
	return Sigmoid(z)
}
