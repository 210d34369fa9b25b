//
// Copyright (c) 2026 HashCloak
//
// All rights reserved.
//

// Package fixed implements signed fixed-point numbers encoded as
// BN254 scalar-field elements at scale 2^16. A decimal value v is
// stored as v*2^16 when positive and as p-|v|*2^16 when negative.
// Every operation asserts a bit budget on the scaled magnitudes of
// its operands; a violated budget fails the whole computation
// instead of wrapping silently.
package fixed

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"

	"github.com/hashcloak/mpc-ml/field"
)

// Bit budgets of the arithmetic operations, measured on the scaled
// magnitude |v|*2^16.
const (
	// AddBits bounds both addition and subtraction operands; the
	// result stays within AddBits+1, one carry bit below the
	// representational maximum.
	AddBits = 125

	// MulBits bounds multiplication operands so the raw product
	// stays within the field before it is rescaled.
	MulBits = 63

	// DivNumBits bounds the division numerator. The numerator is
	// pre-scaled by 2^16, so its budget gives up 17 bits of
	// headroom against the representational maximum.
	DivNumBits = 109

	// DivDenBits bounds the division denominator.
	DivDenBits = 126

	// MaxBits is the representational maximum; values beyond it
	// would spill into the reserved middle bits of the field.
	MaxBits = field.MaxMagnitudeBits
)

// ErrBitBudget reports an operand whose scaled magnitude exceeds the
// bit budget of the operation it entered.
var ErrBitBudget = errors.New("fixed: bit budget exceeded")

var scaleFloat = new(big.Float).SetInt64(field.Scale)

// Quantized is a signed fixed-point value. X is the raw field
// encoding; it is exported so that the delayed-rescale accumulation
// in the prediction engine can combine raw products directly.
type Quantized struct {
	X fr.Element
}

// Encode quantizes the decimal value v to the 2^-16 grid. Encoding
// is deterministic and not itself bit-checked; budgets are asserted
// at the point of use.
func Encode(v float64) Quantized {
	scaled := math.Round(v * field.Scale)
	mag, _ := new(big.Float).SetFloat64(math.Abs(scaled)).Int(nil)

	var x fr.Element
	x.SetBigInt(mag)
	var flipped fr.Element
	flipped.Neg(&x)
	return Quantized{X: field.Select(field.Bit(math.Signbit(scaled)),
		&flipped, &x)}
}

// FromElement wraps an already-encoded raw field value. The
// injection is the identity: encoding a raw value is a no-op.
func FromElement(x fr.Element) Quantized {
	return Quantized{X: x}
}

// Decode returns the decimal value of q.
func (q Quantized) Decode() (float64, error) {
	abs, neg, err := field.Abs(&q.X)
	if err != nil {
		return 0, err
	}
	var bi big.Int
	abs.BigInt(&bi)
	f := new(big.Float).SetInt(&bi)
	f.Quo(f, scaleFloat)
	v, _ := f.Float64()
	if neg {
		v = -v
	}
	return v, nil
}

// CheckBits asserts that the scaled magnitude of q fits in the given
// number of bits. The magnitude is measured over the verified byte
// decomposition, so a value congruent to the field order plus the
// true value fails here instead of passing as a small number.
func (q Quantized) CheckBits(bits int) error {
	n, err := field.MagnitudeBits(&q.X)
	if err != nil {
		return err
	}
	if n > bits {
		return fmt.Errorf("%w: magnitude is %d bits, limit %d",
			ErrBitBudget, n, bits)
	}
	return nil
}

// IsZero reports whether q encodes zero.
func (q Quantized) IsZero() bool {
	return q.X.IsZero()
}

// Equal reports raw equality of the encodings.
func (q Quantized) Equal(o Quantized) bool {
	return q.X.Equal(&o.X)
}

func (q Quantized) String() string {
	v, err := q.Decode()
	if err != nil {
		return "<invalid>"
	}
	return fmt.Sprintf("%g", v)
}

// Add returns q+o. Both operands must fit in 125 bits; the result is
// then within 126 bits. The signed encoding is compatible with
// modular addition, so no sign handling is needed.
func (q Quantized) Add(o Quantized) (Quantized, error) {
	if err := q.CheckBits(AddBits); err != nil {
		return Quantized{}, err
	}
	if err := o.CheckBits(AddBits); err != nil {
		return Quantized{}, err
	}
	var x fr.Element
	x.Add(&q.X, &o.X)
	return Quantized{X: x}, nil
}

// Sub returns q-o under the same budget as Add.
func (q Quantized) Sub(o Quantized) (Quantized, error) {
	if err := q.CheckBits(AddBits); err != nil {
		return Quantized{}, err
	}
	if err := o.CheckBits(AddBits); err != nil {
		return Quantized{}, err
	}
	var x fr.Element
	x.Sub(&q.X, &o.X)
	return Quantized{X: x}, nil
}

// Mul returns q*o rescaled back to the 2^16 grid. Both operands must
// fit in 63 bits so the doubly-scaled raw product stays within 126
// bits.
func (q Quantized) Mul(o Quantized) (Quantized, error) {
	if err := q.CheckBits(MulBits); err != nil {
		return Quantized{}, err
	}
	if err := o.CheckBits(MulBits); err != nil {
		return Quantized{}, err
	}
	var raw fr.Element
	raw.Mul(&q.X, &o.X)
	return Rescale(raw)
}

// Rescale divides a doubly-scaled raw product by 2^16. The sign flip
// around the division folds into two arithmetic selections: flip to
// the positive representation, isolate and subtract the low 16 bits
// so the remainder divides exactly, multiply by the field inverse of
// 2^16, flip back.
func Rescale(raw fr.Element) (Quantized, error) {
	abs, neg, err := field.Abs(&raw)
	if err != nil {
		return Quantized{}, err
	}

	low, err := field.Low16(&abs)
	if err != nil {
		return Quantized{}, err
	}
	var rem fr.Element
	rem.SetUint64(low)

	var quo fr.Element
	quo.Sub(&abs, &rem)
	inv := field.InvScale()
	quo.Mul(&quo, &inv)

	var flipped fr.Element
	flipped.Neg(&quo)
	return Quantized{X: field.Select(field.Bit(neg), &flipped, &quo)}, nil
}

// Div returns q/o on the 2^-16 grid. The numerator magnitude is
// pre-scaled by 2^16 to compensate for the scale lost in division,
// which is why its budget is 17 bits tighter than the
// representational maximum.
func (q Quantized) Div(o Quantized) (Quantized, error) {
	if err := q.CheckBits(DivNumBits); err != nil {
		return Quantized{}, err
	}
	if err := o.CheckBits(DivDenBits); err != nil {
		return Quantized{}, err
	}
	if o.X.IsZero() {
		return Quantized{}, errors.New("fixed: division by zero")
	}

	absQ, negQ, err := field.Abs(&q.X)
	if err != nil {
		return Quantized{}, err
	}
	absO, negO, err := field.Abs(&o.X)
	if err != nil {
		return Quantized{}, err
	}

	nb := absQ.Bytes()
	num := new(uint256.Int).SetBytes(nb[:])
	num.Lsh(num, field.ScaleBits)

	db := absO.Bytes()
	den := new(uint256.Int).SetBytes(db[:])

	quo := new(uint256.Int).Div(num, den)
	qb := quo.Bytes32()

	var mag fr.Element
	mag.SetBytes(qb[:])
	var flipped fr.Element
	flipped.Neg(&mag)

	// The result is negative exactly when the operand signs differ.
	sign := field.Bit(negQ) ^ field.Bit(negO)
	return Quantized{X: field.Select(sign, &flipped, &mag)}, nil
}

// Select returns a when bit is 1 and b when bit is 0, as an
// arithmetic multiplexer.
func Select(bit uint64, a, b Quantized) Quantized {
	return Quantized{X: field.Select(bit, &a.X, &b.X)}
}

// Le compares q <= o and returns the outcome as a selector bit. The
// comparison subtracts and tests the sign of the difference, so both
// operands carry the addition budget.
func (q Quantized) Le(o Quantized) (uint64, error) {
	if err := q.CheckBits(AddBits); err != nil {
		return 0, err
	}
	if err := o.CheckBits(AddBits); err != nil {
		return 0, err
	}
	var d fr.Element
	d.Sub(&q.X, &o.X)
	if d.IsZero() {
		return 1, nil
	}
	neg, err := field.IsNegative(&d)
	if err != nil {
		return 0, err
	}
	return field.Bit(neg), nil
}
