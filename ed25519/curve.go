// Package ed25519 implements the curve contract for the prime-order
// subgroup of edwards25519, backed by filippo.io/edwards25519.
//
// The curve has cofactor 8, so decoded points undergo a real subgroup
// check before the generic layer accepts them.
package ed25519

import (
	"bytes"
	"fmt"
	"math/big"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"

	"github.com/athanorlabs/go-ec/types"
)

type Curve = types.Curve
type Point = types.Point
type Scalar = types.Scalar

var _ Curve = &CurveImpl{}
var _ Scalar = &ScalarImpl{}
var _ Point = &PointImpl{}

const (
	scalarSize            = 32
	compressedPointSize   = 32
	uncompressedPointSize = 64
)

// groupOrder is l = 2^252 + 27742317777372353535851937790883648493, the
// order of the prime-order subgroup.
var groupOrder, _ = new(big.Int).SetString(
	"7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

type CurveImpl struct{}

func NewCurve() Curve {
	return &CurveImpl{}
}

func (*CurveImpl) Name() string {
	return "ed25519"
}

func (*CurveImpl) Order() *big.Int {
	return groupOrder
}

func (*CurveImpl) ScalarSize() int {
	return scalarSize
}

func (*CurveImpl) CompressedPointSize() int {
	return compressedPointSize
}

func (*CurveImpl) UncompressedPointSize() int {
	return uncompressedPointSize
}

func (*CurveImpl) Generator() Point {
	return &PointImpl{
		inner: edwards25519.NewGeneratorPoint(),
	}
}

func (*CurveImpl) Identity() Point {
	return &PointImpl{
		inner: edwards25519.NewIdentityPoint(),
	}
}

func (*CurveImpl) ScalarFromBytes(be []byte) (Scalar, error) {
	if len(be) != scalarSize {
		return nil, fmt.Errorf("%w: scalar must be %d bytes, got %d",
			types.ErrMalformedEncoding, scalarSize, len(be))
	}

	// The library speaks little-endian; the contract is big-endian.
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(reversed(be))
	if err != nil {
		return nil, types.ErrNotInRange
	}

	return &ScalarImpl{inner: s}, nil
}

func (*CurveImpl) DecodeCompressed(b []byte) (Point, error) {
	if len(b) != compressedPointSize {
		return nil, fmt.Errorf("%w: compressed point must be %d bytes, got %d",
			types.ErrMalformedEncoding, compressedPointSize, len(b))
	}

	p, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return nil, types.ErrNotOnCurve
	}

	return &PointImpl{inner: p}, nil
}

// DecodeUncompressed decodes affine x || y, 32 little-endian bytes each.
// The point is reconstructed from y with x's sign, and the recovered x
// must match the provided coordinate exactly.
func (*CurveImpl) DecodeUncompressed(b []byte) (Point, error) {
	if len(b) != uncompressedPointSize {
		return nil, fmt.Errorf("%w: uncompressed point must be %d bytes, got %d",
			types.ErrMalformedEncoding, uncompressedPointSize, len(b))
	}

	x, err := new(field.Element).SetBytes(b[:32])
	if err != nil {
		return nil, types.ErrNotOnCurve
	}

	y, err := new(field.Element).SetBytes(b[32:])
	if err != nil {
		return nil, types.ErrNotOnCurve
	}

	// field.Element.SetBytes reduces out-of-range values instead of
	// rejecting them; require the canonical encoding.
	if !bytes.Equal(x.Bytes(), b[:32]) || !bytes.Equal(y.Bytes(), b[32:]) {
		return nil, fmt.Errorf("%w: non-canonical field element", types.ErrMalformedEncoding)
	}

	compressed := y.Bytes()
	if x.IsNegative() == 1 {
		compressed[31] |= 0x80
	}

	p, err := new(edwards25519.Point).SetBytes(compressed)
	if err != nil {
		return nil, types.ErrNotOnCurve
	}

	if ax, _ := affine(p); ax.Equal(x) != 1 {
		return nil, types.ErrNotOnCurve
	}

	return &PointImpl{inner: p}, nil
}

type ScalarImpl struct {
	inner *edwards25519.Scalar
}

func (s *ScalarImpl) Add(b Scalar) Scalar {
	return &ScalarImpl{
		inner: new(edwards25519.Scalar).Add(s.inner, mustScalar(b).inner),
	}
}

func (s *ScalarImpl) Sub(b Scalar) Scalar {
	return &ScalarImpl{
		inner: new(edwards25519.Scalar).Subtract(s.inner, mustScalar(b).inner),
	}
}

func (s *ScalarImpl) Mul(b Scalar) Scalar {
	return &ScalarImpl{
		inner: new(edwards25519.Scalar).Multiply(s.inner, mustScalar(b).inner),
	}
}

func (s *ScalarImpl) Negate() Scalar {
	return &ScalarImpl{
		inner: new(edwards25519.Scalar).Negate(s.inner),
	}
}

func (s *ScalarImpl) Invert() Scalar {
	return &ScalarImpl{
		inner: new(edwards25519.Scalar).Invert(s.inner),
	}
}

func (s *ScalarImpl) IsZero() bool {
	return s.inner.Equal(edwards25519.NewScalar()) == 1
}

func (s *ScalarImpl) Eq(b Scalar) bool {
	return s.inner.Equal(mustScalar(b).inner) == 1
}

func (s *ScalarImpl) Encode() []byte {
	return reversed(s.inner.Bytes())
}

func (s *ScalarImpl) Copy() Scalar {
	return &ScalarImpl{
		inner: new(edwards25519.Scalar).Set(s.inner),
	}
}

func (s *ScalarImpl) Zeroize() {
	s.inner.Set(edwards25519.NewScalar())
}

type PointImpl struct {
	inner *edwards25519.Point
}

func (p *PointImpl) Add(b Point) Point {
	return &PointImpl{
		inner: new(edwards25519.Point).Add(p.inner, mustPoint(b).inner),
	}
}

func (p *PointImpl) Negate() Point {
	return &PointImpl{
		inner: new(edwards25519.Point).Negate(p.inner),
	}
}

func (p *PointImpl) Double() Point {
	// The addition formulas are complete, doubling is just P + P.
	return &PointImpl{
		inner: new(edwards25519.Point).Add(p.inner, p.inner),
	}
}

func (p *PointImpl) ScalarMul(s Scalar) Point {
	return &PointImpl{
		inner: new(edwards25519.Point).ScalarMult(mustScalar(s).inner, p.inner),
	}
}

func (p *PointImpl) IsIdentity() bool {
	return p.inner.Equal(edwards25519.NewIdentityPoint()) == 1
}

// IsTorsionFree reports whether [l]P is the identity. The library's
// scalar type reduces modulo l, so the multiplication is done bit by bit
// over the order instead.
func (p *PointImpl) IsTorsionFree() bool {
	q := edwards25519.NewIdentityPoint()
	for i := groupOrder.BitLen() - 1; i >= 0; i-- {
		q.Add(q, q)
		if groupOrder.Bit(i) == 1 {
			q.Add(q, p.inner)
		}
	}

	return q.Equal(edwards25519.NewIdentityPoint()) == 1
}

func (p *PointImpl) Eq(b Point) bool {
	return p.inner.Equal(mustPoint(b).inner) == 1
}

func (p *PointImpl) EncodeCompressed() []byte {
	return p.inner.Bytes()
}

func (p *PointImpl) EncodeUncompressed() []byte {
	x, y := affine(p.inner)
	return append(x.Bytes(), y.Bytes()...)
}

func (p *PointImpl) Copy() Point {
	return &PointImpl{
		inner: new(edwards25519.Point).Set(p.inner),
	}
}

// affine converts out of the extended representation.
func affine(p *edwards25519.Point) (x, y *field.Element) {
	ex, ey, ez, _ := p.ExtendedCoordinates()
	zInv := new(field.Element).Invert(ez)
	x = new(field.Element).Multiply(ex, zInv)
	y = new(field.Element).Multiply(ey, zInv)
	return x, y
}

func mustScalar(s Scalar) *ScalarImpl {
	ss, ok := s.(*ScalarImpl)
	if !ok {
		panic("invalid scalar; type is not *ed25519.ScalarImpl")
	}
	return ss
}

func mustPoint(p Point) *PointImpl {
	pp, ok := p.(*PointImpl)
	if !ok {
		panic("invalid point; type is not *ed25519.PointImpl")
	}
	return pp
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
