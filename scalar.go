// Package ec provides validated elliptic-curve arithmetic that works
// uniformly across curve backends implementing the types.Curve contract.
//
// Every Scalar lies in [0, order) and every Point is either the identity
// or an element of the prime-order subgroup. Both invariants are enforced
// at construction: values only enter the package through decoding (which
// validates), through constants, or as results of arithmetic over already
// valid values, which is closed. Arithmetic never fails, with the single
// exception of inverting the zero scalar.
package ec

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/athanorlabs/go-ec/types"
)

// Scalar is an integer modulo the group order of its curve. The zero value
// of the type is not usable; construct scalars with the package functions.
//
// Scalars are immutable; all arithmetic returns new values. Operations
// mixing scalars of different curves panic.
type Scalar struct {
	curve types.Curve
	raw   types.Scalar
}

// NewRandomScalar returns a uniformly distributed non-zero scalar drawn
// from crypto/rand. It panics if the randomness source fails.
func NewRandomScalar(curve types.Curve) Scalar {
	for {
		k, err := rand.Int(rand.Reader, curve.Order())
		if err != nil {
			panic(fmt.Sprintf("ec: randomness source failed: %s", err))
		}

		if k.Sign() == 0 {
			continue
		}

		return scalarFromBig(curve, k)
	}
}

// ScalarZero returns the scalar 0.
func ScalarZero(curve types.Curve) Scalar {
	return ScalarFromUint64(curve, 0)
}

// ScalarOne returns the scalar 1.
func ScalarOne(curve types.Curve) Scalar {
	return ScalarFromUint64(curve, 1)
}

// ScalarFromUint64 returns the scalar congruent to v.
func ScalarFromUint64(curve types.Curve, v uint64) Scalar {
	return scalarFromBig(curve, new(big.Int).SetUint64(v))
}

// ScalarFromBytes decodes a canonical fixed-width big-endian scalar.
// It returns ErrMalformedEncoding if the width does not match the curve
// and ErrNotInRange if the integer value is >= the group order.
func ScalarFromBytes(curve types.Curve, be []byte) (Scalar, error) {
	if len(be) != curve.ScalarSize() {
		return Scalar{}, fmt.Errorf("%w: scalar must be %d bytes, got %d",
			types.ErrMalformedEncoding, curve.ScalarSize(), len(be))
	}

	raw, err := curve.ScalarFromBytes(be)
	if err != nil {
		return Scalar{}, err
	}

	return Scalar{curve: curve, raw: raw}, nil
}

// ScalarFromBytesLE is ScalarFromBytes for little-endian input.
func ScalarFromBytesLE(curve types.Curve, le []byte) (Scalar, error) {
	return ScalarFromBytes(curve, reversed(le))
}

// ScalarFromBytesModOrder interprets b as a big-endian integer of any
// length and reduces it modulo the group order. It never fails.
func ScalarFromBytesModOrder(curve types.Curve, b []byte) Scalar {
	return scalarFromBig(curve, new(big.Int).SetBytes(b))
}

// ScalarFromBytesModOrderLE is ScalarFromBytesModOrder for little-endian input.
func ScalarFromBytesModOrderLE(curve types.Curve, b []byte) Scalar {
	return scalarFromBig(curve, new(big.Int).SetBytes(reversed(b)))
}

// scalarFromBig reduces v modulo the curve order and hands the canonical
// encoding to the backend. The backend cannot reject a reduced value.
func scalarFromBig(curve types.Curve, v *big.Int) Scalar {
	reduced := new(big.Int).Mod(v, curve.Order())
	be := make([]byte, curve.ScalarSize())
	reduced.FillBytes(be)

	raw, err := curve.ScalarFromBytes(be)
	if err != nil {
		panic(fmt.Sprintf("ec: backend rejected reduced scalar: %s", err))
	}

	return Scalar{curve: curve, raw: raw}
}

// Curve returns the curve this scalar belongs to.
func (s Scalar) Curve() types.Curve {
	return s.curve
}

// Add returns s + b mod order.
func (s Scalar) Add(b Scalar) Scalar {
	s.mustShareCurve(b.curve)
	return Scalar{curve: s.curve, raw: s.raw.Add(b.raw)}
}

// Sub returns s - b mod order.
func (s Scalar) Sub(b Scalar) Scalar {
	s.mustShareCurve(b.curve)
	return Scalar{curve: s.curve, raw: s.raw.Sub(b.raw)}
}

// Mul returns s * b mod order.
func (s Scalar) Mul(b Scalar) Scalar {
	s.mustShareCurve(b.curve)
	return Scalar{curve: s.curve, raw: s.raw.Mul(b.raw)}
}

// Negate returns -s mod order.
func (s Scalar) Negate() Scalar {
	return Scalar{curve: s.curve, raw: s.raw.Negate()}
}

// Invert returns the unique scalar t with s * t == 1, or
// ErrZeroHasNoInverse when s is zero.
func (s Scalar) Invert() (Scalar, error) {
	if s.raw.IsZero() {
		return Scalar{}, types.ErrZeroHasNoInverse
	}

	return Scalar{curve: s.curve, raw: s.raw.Invert()}, nil
}

// IsZero reports whether s == 0.
func (s Scalar) IsZero() bool {
	return s.raw.IsZero()
}

// Eq reports whether s == b in constant time. Scalars of different curves
// are never equal.
func (s Scalar) Eq(b Scalar) bool {
	if s.curve.Name() != b.curve.Name() {
		return false
	}
	return s.raw.Eq(b.raw)
}

// BytesBE returns the canonical fixed-width big-endian encoding.
func (s Scalar) BytesBE() []byte {
	return s.raw.Encode()
}

// BytesLE returns the canonical fixed-width little-endian encoding.
func (s Scalar) BytesLE() []byte {
	return reversed(s.raw.Encode())
}

func (s Scalar) mustShareCurve(other types.Curve) {
	if s.curve.Name() != other.Name() {
		panic(fmt.Sprintf("ec: mixing curves %s and %s", s.curve.Name(), other.Name()))
	}
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
