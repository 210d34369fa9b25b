package ml

import (
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/hashcloak/mpc-ml/fixed"
)

func encodeAll(values ...float64) []fixed.Quantized {
	out := make([]fixed.Quantized, len(values))
	for i, v := range values {
		out[i] = fixed.Encode(v)
	}
	return out
}

func rawBits(bits uint) fixed.Quantized {
	var x fr.Element
	x.SetBigInt(new(big.Int).Lsh(big.NewInt(1), bits))
	return fixed.FromElement(x)
}

func TestDotProduct(t *testing.T) {
	weights := encodeAll(0.5, -0.25)
	inputs := encodeAll(0.5, 0.5)
	bias := fixed.Encode(0.125)

	got, err := DotProduct(weights, inputs, bias)
	if err != nil {
		t.Fatalf("DotProduct: %s", err)
	}
	// 0.25 - 0.125 + 0.125, every term on the grid: the single
	// delayed rescale must be exact.
	if !got.Equal(fixed.Encode(0.25)) {
		t.Fatalf("DotProduct: got %s, expected 0.25", got)
	}
}

func TestDotProductLengthMismatch(t *testing.T) {
	_, err := DotProduct(encodeAll(1), encodeAll(1, 2), fixed.Encode(0))
	if err == nil {
		t.Fatalf("length mismatch accepted")
	}
}

// TestDotProductWeightBudget feeds a 106-bit weight into the
// accumulation; the tightened 105-bit budget must reject it.
func TestDotProductWeightBudget(t *testing.T) {
	weights := []fixed.Quantized{rawBits(105)}
	inputs := encodeAll(0.5)

	_, err := DotProduct(weights, inputs, fixed.Encode(0))
	if !errors.Is(err, fixed.ErrBitBudget) {
		t.Fatalf("106-bit weight entered the dot product: %v", err)
	}
}

func TestDotProductInputBudget(t *testing.T) {
	weights := encodeAll(0.5)
	inputs := []fixed.Quantized{rawBits(20)}

	_, err := DotProduct(weights, inputs, fixed.Encode(0))
	if !errors.Is(err, fixed.ErrBitBudget) {
		t.Fatalf("21-bit input entered the dot product: %v", err)
	}
}

func TestAccumulatorMatchesPerTermRescale(t *testing.T) {
	weights := encodeAll(0.5, 0.25, -0.75)
	inputs := encodeAll(0.5, -0.5, 0.25)

	var acc Accumulator
	for i := range weights {
		if err := acc.AddProduct(weights[i], inputs[i]); err != nil {
			t.Fatalf("AddProduct: %s", err)
		}
	}
	delayed, err := acc.Sum()
	if err != nil {
		t.Fatalf("Sum: %s", err)
	}

	perTerm := fixed.Encode(0)
	for i := range weights {
		p, err := weights[i].Mul(inputs[i])
		if err != nil {
			t.Fatalf("Mul: %s", err)
		}
		perTerm, err = perTerm.Add(p)
		if err != nil {
			t.Fatalf("Add: %s", err)
		}
	}

	// All terms are on the grid, so both strategies are exact and
	// must agree.
	if !delayed.Equal(perTerm) {
		t.Fatalf("delayed rescale diverged: %s vs %s", delayed, perTerm)
	}
}

func TestPredict(t *testing.T) {
	weights := encodeAll(0.5, -0.25)
	inputs := encodeAll(0.5, 0.5)
	bias := fixed.Encode(0.125)

	got, err := Predict(weights, inputs, bias)
	if err != nil {
		t.Fatalf("Predict: %s", err)
	}

	z, err := DotProduct(weights, inputs, bias)
	if err != nil {
		t.Fatalf("DotProduct: %s", err)
	}
	want, err := Sigmoid(z)
	if err != nil {
		t.Fatalf("Sigmoid: %s", err)
	}
	if !got.Equal(want) {
		t.Fatalf("Predict: got %s, expected %s", got, want)
	}
}
