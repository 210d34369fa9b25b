//
// Copyright (c) 2026 HashCloak
//
// All rights reserved.
//

// Package field implements the bit-pattern operations the fixed-point
// layer needs on top of the BN254 scalar field: verified byte
// decomposition, sign tests, width-limited casts, and arithmetic
// selection. The modular arithmetic itself comes from
// gnark-crypto's fr.Element.
package field

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"
)

const (
	// ScaleBits is the fixed-point scale exponent.
	ScaleBits = 16

	// Scale is the fixed-point scale factor 2^16.
	Scale = 1 << ScaleBits

	// MaxMagnitudeBits bounds the scaled magnitude of any encoded
	// value. The two bits between the positive and negative halves
	// of the 254-bit field stay unused so the sign of a value is
	// always unambiguous.
	MaxMagnitudeBits = 126
)

// ErrDecompose reports a byte decomposition that does not recompose
// to the original field element.
var ErrDecompose = errors.New("field: unverified decomposition")

var (
	halfBytes [fr.Bytes]byte
	invScale  fr.Element
)

func init() {
	half := new(big.Int).Rsh(fr.Modulus(), 1)
	var h fr.Element
	h.SetBigInt(half)
	halfBytes = h.Bytes()

	var s fr.Element
	s.SetUint64(Scale)
	invScale.Inverse(&s)
}

// InvScale returns the field inverse of the scale factor 2^16.
func InvScale() fr.Element {
	return invScale
}

// Decompose returns the canonical fixed-width big-endian
// serialization of x. The bytes are recomposed and compared against
// x before they are returned: a decomposition that is merely
// congruent to x modulo the field order fails the check.
func Decompose(x *fr.Element) ([fr.Bytes]byte, error) {
	b := x.Bytes()
	var check fr.Element
	check.SetBytes(b[:])
	if !check.Equal(x) {
		return b, fmt.Errorf("%w: recomposition mismatch for %s",
			ErrDecompose, x.String())
	}
	return b, nil
}

// IsNegative reports whether x lies in the negative half of the
// field, i.e. above (p-1)/2. The test runs over the verified
// decomposition, never over the internal representation.
func IsNegative(x *fr.Element) (bool, error) {
	b, err := Decompose(x)
	if err != nil {
		return false, err
	}
	return bytes.Compare(b[:], halfBytes[:]) > 0, nil
}

// Abs returns the magnitude of x and its sign. The conditional
// negation folds into a single arithmetic selection.
func Abs(x *fr.Element) (fr.Element, bool, error) {
	neg, err := IsNegative(x)
	if err != nil {
		return fr.Element{}, false, err
	}
	var flipped fr.Element
	flipped.Neg(x)
	return Select(Bit(neg), &flipped, x), neg, nil
}

// Low16 isolates the low 16 bits of x as a width-limited cast over
// the verified decomposition.
func Low16(x *fr.Element) (uint64, error) {
	b, err := Decompose(x)
	if err != nil {
		return 0, err
	}
	return uint64(b[fr.Bytes-2])<<8 | uint64(b[fr.Bytes-1]), nil
}

// MagnitudeBits returns the bit length of the signed magnitude of x.
func MagnitudeBits(x *fr.Element) (int, error) {
	abs, _, err := Abs(x)
	if err != nil {
		return 0, err
	}
	b := abs.Bytes()
	return new(uint256.Int).SetBytes(b[:]).BitLen(), nil
}

// Select returns bit*(a-b)+b, i.e. a when bit is 1 and b when bit is
// 0. The identity costs one multiplication and avoids divergent code
// paths.
func Select(bit uint64, a, b *fr.Element) fr.Element {
	var c, d fr.Element
	c.SetUint64(bit)
	d.Sub(a, b)
	d.Mul(&d, &c)
	d.Add(&d, b)
	return d
}

// Bit converts a comparison outcome into a selector bit.
func Bit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
