package ec

import (
	"fmt"

	"github.com/athanorlabs/go-ec/types"
)

// Point is a validated group element: either the identity, or a point that
// satisfies the curve equation and lies in the prime-order subgroup. The
// zero value of the type is not usable; construct points with the package
// functions.
//
// Points are immutable; all arithmetic returns new values. Operations
// mixing points of different curves panic.
type Point struct {
	curve types.Curve
	raw   types.Point
}

// Generator returns the curve's fixed generator.
func Generator(curve types.Curve) Point {
	return Point{curve: curve, raw: curve.Generator()}
}

// Identity returns the identity element (point at infinity).
func Identity(curve types.Curve) Point {
	return Point{curve: curve, raw: curve.Identity()}
}

// DecodeCompressed decodes and validates a compressed point encoding.
// It returns ErrMalformedEncoding on a wrong-length input, ErrNotOnCurve
// when the coordinates do not satisfy the curve equation, and
// ErrSmallOrder when a non-identity point is outside the prime-order
// subgroup.
func DecodeCompressed(curve types.Curve, b []byte) (Point, error) {
	if len(b) != curve.CompressedPointSize() {
		return Point{}, fmt.Errorf("%w: compressed point must be %d bytes, got %d",
			types.ErrMalformedEncoding, curve.CompressedPointSize(), len(b))
	}

	raw, err := curve.DecodeCompressed(b)
	if err != nil {
		return Point{}, err
	}

	return checkedPoint(curve, raw)
}

// DecodeUncompressed decodes and validates an uncompressed point encoding.
// Errors are as for DecodeCompressed.
func DecodeUncompressed(curve types.Curve, b []byte) (Point, error) {
	if len(b) != curve.UncompressedPointSize() {
		return Point{}, fmt.Errorf("%w: uncompressed point must be %d bytes, got %d",
			types.ErrMalformedEncoding, curve.UncompressedPointSize(), len(b))
	}

	raw, err := curve.DecodeUncompressed(b)
	if err != nil {
		return Point{}, err
	}

	return checkedPoint(curve, raw)
}

// checkedPoint applies the subgroup check that turns an on-curve raw point
// into a valid Point. The identity is exempt; it is a valid element of
// every subgroup.
func checkedPoint(curve types.Curve, raw types.Point) (Point, error) {
	if !raw.IsIdentity() && !raw.IsTorsionFree() {
		return Point{}, types.ErrSmallOrder
	}

	return Point{curve: curve, raw: raw}, nil
}

// Curve returns the curve this point belongs to.
func (p Point) Curve() types.Curve {
	return p.curve
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	p.mustShareCurve(q.curve)
	return Point{curve: p.curve, raw: p.raw.Add(q.raw)}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	p.mustShareCurve(q.curve)
	return Point{curve: p.curve, raw: p.raw.Add(q.raw.Negate())}
}

// Negate returns -p.
func (p Point) Negate() Point {
	return Point{curve: p.curve, raw: p.raw.Negate()}
}

// Double returns 2p.
func (p Point) Double() Point {
	return Point{curve: p.curve, raw: p.raw.Double()}
}

// Mul returns s * p.
func (p Point) Mul(s Scalar) Point {
	p.mustShareCurve(s.curve)
	return Point{curve: p.curve, raw: p.raw.ScalarMul(s.raw)}
}

// IsIdentity reports whether p is the identity element.
func (p Point) IsIdentity() bool {
	return p.raw.IsIdentity()
}

// Eq reports group-element equality: two points compare equal exactly when
// they denote the same element, regardless of how they were decoded.
// Points of different curves are never equal.
func (p Point) Eq(q Point) bool {
	if p.curve.Name() != q.curve.Name() {
		return false
	}
	return p.raw.Eq(q.raw)
}

// EncodeCompressed returns the compact encoding of p.
func (p Point) EncodeCompressed() []byte {
	return p.raw.EncodeCompressed()
}

// EncodeUncompressed returns the full (both coordinates) encoding of p.
func (p Point) EncodeUncompressed() []byte {
	return p.raw.EncodeUncompressed()
}

func (p Point) mustShareCurve(other types.Curve) {
	if p.curve.Name() != other.Name() {
		panic(fmt.Sprintf("ec: mixing curves %s and %s", p.curve.Name(), other.Name()))
	}
}
