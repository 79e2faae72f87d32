// Package types defines the contract a concrete curve implementation must
// satisfy to be usable with the generic arithmetic layer. The core trusts
// implementations of this contract completely; it cannot detect a backend
// whose operations are inconsistent with a single well-defined curve.
package types

import (
	"errors"
	"math/big"
)

// Validity errors shared between curve backends and the generic layer.
// Backends return them directly or wrapped; callers match with errors.Is.
var (
	// ErrNotOnCurve means decoded coordinates do not satisfy the curve equation.
	ErrNotOnCurve = errors.New("point is not on the curve")
	// ErrSmallOrder means a decoded non-identity point is not in the
	// prime-order subgroup.
	ErrSmallOrder = errors.New("point has small order")
	// ErrNotInRange means a decoded scalar is >= the group order.
	ErrNotInRange = errors.New("scalar is not in range [0, order)")
	// ErrMalformedEncoding means the input length or shape does not match
	// the expected format for the curve.
	ErrMalformedEncoding = errors.New("malformed encoding")
	// ErrZeroHasNoInverse is returned when inverting the zero scalar.
	ErrZeroHasNoInverse = errors.New("zero scalar has no inverse")
)

// Curve is implemented once per supported curve, outside the generic layer.
//
// Implementations must guarantee that the on-curve check performed by
// DecodeCompressed/DecodeUncompressed is exact, and that Scalar.Eq and
// Point.IsTorsionFree do not branch on secret data.
type Curve interface {
	// Name identifies the curve, e.g. "ed25519" or "secp256k1".
	Name() string
	// Order returns the order of the prime-order subgroup. The returned
	// value must not be mutated.
	Order() *big.Int
	// ScalarSize is the canonical scalar encoding width in bytes.
	ScalarSize() int
	CompressedPointSize() int
	UncompressedPointSize() int

	Generator() Point
	Identity() Point

	// ScalarFromBytes decodes a canonical fixed-width big-endian scalar.
	// It returns ErrNotInRange if the integer value is >= the group order
	// and ErrMalformedEncoding if the width is wrong.
	ScalarFromBytes(be []byte) (Scalar, error)

	// DecodeCompressed and DecodeUncompressed reject encodings whose
	// coordinates do not satisfy the curve equation. Subgroup membership
	// of the result is checked by the caller via Point.IsTorsionFree.
	DecodeCompressed(b []byte) (Point, error)
	DecodeUncompressed(b []byte) (Point, error)
}

// Scalar is a raw scalar known to lie in [0, order). All operations are
// closed over the field and must not mutate their operands.
type Scalar interface {
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	// Invert returns the multiplicative inverse. The zero case is guarded
	// by the generic layer; implementations may return an unspecified
	// value for zero.
	Invert() Scalar
	IsZero() bool
	// Eq reports equality in constant time.
	Eq(Scalar) bool
	// Encode returns the canonical fixed-width big-endian representation.
	Encode() []byte
	Copy() Scalar
	// Zeroize overwrites the backing memory with zeros in place.
	Zeroize()
}

// Point is a raw group element. All operations are closed over the group
// and must not mutate their operands.
type Point interface {
	Add(Point) Point
	Negate() Point
	Double() Point
	ScalarMul(Scalar) Point
	IsIdentity() bool
	// IsTorsionFree reports whether the point is in the prime-order
	// subgroup. Always true on curves with cofactor 1.
	IsTorsionFree() bool
	// Eq reports group-element equality, independent of representation.
	Eq(Point) bool
	EncodeCompressed() []byte
	EncodeUncompressed() []byte
	Copy() Point
}
