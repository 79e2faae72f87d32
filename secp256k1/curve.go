// Package secp256k1 implements the curve contract for secp256k1, backed
// by the decred library. The curve has cofactor 1, so every on-curve
// point is in the prime-order subgroup.
package secp256k1

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

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
	compressedPointSize   = 33
	uncompressedPointSize = 65
)

var groupOrder = secp256k1.S256().N

type CurveImpl struct{}

func NewCurve() Curve {
	return &CurveImpl{}
}

func (*CurveImpl) Name() string {
	return "secp256k1"
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
	var g secp256k1.JacobianPoint
	one := new(secp256k1.ModNScalar)
	one.SetInt(1)
	secp256k1.ScalarBaseMultNonConst(one, &g)
	return &PointImpl{inner: &g}
}

func (*CurveImpl) Identity() Point {
	return &PointImpl{inner: &secp256k1.JacobianPoint{}}
}

func (*CurveImpl) ScalarFromBytes(be []byte) (Scalar, error) {
	if len(be) != scalarSize {
		return nil, fmt.Errorf("%w: scalar must be %d bytes, got %d",
			types.ErrMalformedEncoding, scalarSize, len(be))
	}

	var b [32]byte
	copy(b[:], be)

	s := new(secp256k1.ModNScalar)
	if overflow := s.SetBytes(&b); overflow != 0 {
		return nil, types.ErrNotInRange
	}

	return &ScalarImpl{inner: s}, nil
}

// DecodeCompressed decodes a 33-byte SEC1 compressed point. The all-zero
// string stands for the identity, which SEC1 cannot express at fixed
// width.
func (*CurveImpl) DecodeCompressed(b []byte) (Point, error) {
	if len(b) != compressedPointSize {
		return nil, fmt.Errorf("%w: compressed point must be %d bytes, got %d",
			types.ErrMalformedEncoding, compressedPointSize, len(b))
	}

	if allZero(b) {
		return &PointImpl{inner: &secp256k1.JacobianPoint{}}, nil
	}

	if b[0] != 0x02 && b[0] != 0x03 {
		return nil, fmt.Errorf("%w: invalid compressed point prefix 0x%02x",
			types.ErrMalformedEncoding, b[0])
	}

	return decodeSEC1(b)
}

// DecodeUncompressed decodes a 65-byte SEC1 uncompressed point, with the
// all-zero string again standing for the identity.
func (*CurveImpl) DecodeUncompressed(b []byte) (Point, error) {
	if len(b) != uncompressedPointSize {
		return nil, fmt.Errorf("%w: uncompressed point must be %d bytes, got %d",
			types.ErrMalformedEncoding, uncompressedPointSize, len(b))
	}

	if allZero(b) {
		return &PointImpl{inner: &secp256k1.JacobianPoint{}}, nil
	}

	if b[0] != 0x04 {
		return nil, fmt.Errorf("%w: invalid uncompressed point prefix 0x%02x",
			types.ErrMalformedEncoding, b[0])
	}

	return decodeSEC1(b)
}

func decodeSEC1(b []byte) (Point, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, types.ErrNotOnCurve
	}

	var p secp256k1.JacobianPoint
	var fx, fy secp256k1.FieldVal
	fx.SetByteSlice(pub.X().Bytes())
	fy.SetByteSlice(pub.Y().Bytes())
	p.X = fx
	p.Y = fy
	p.Z.SetInt(1)

	return &PointImpl{inner: &p}, nil
}

type ScalarImpl struct {
	inner *secp256k1.ModNScalar
}

func (s *ScalarImpl) Add(b Scalar) Scalar {
	return &ScalarImpl{
		inner: new(secp256k1.ModNScalar).Add2(s.inner, mustScalar(b).inner),
	}
}

func (s *ScalarImpl) Sub(b Scalar) Scalar {
	neg := new(secp256k1.ModNScalar).NegateVal(mustScalar(b).inner)
	return &ScalarImpl{
		inner: new(secp256k1.ModNScalar).Add2(s.inner, neg),
	}
}

func (s *ScalarImpl) Mul(b Scalar) Scalar {
	return &ScalarImpl{
		inner: new(secp256k1.ModNScalar).Mul2(s.inner, mustScalar(b).inner),
	}
}

func (s *ScalarImpl) Negate() Scalar {
	return &ScalarImpl{
		inner: new(secp256k1.ModNScalar).NegateVal(s.inner),
	}
}

func (s *ScalarImpl) Invert() Scalar {
	return &ScalarImpl{
		inner: new(secp256k1.ModNScalar).InverseValNonConst(s.inner),
	}
}

func (s *ScalarImpl) IsZero() bool {
	return s.inner.IsZero()
}

func (s *ScalarImpl) Eq(b Scalar) bool {
	return s.inner.Equals(mustScalar(b).inner)
}

func (s *ScalarImpl) Encode() []byte {
	b := make([]byte, scalarSize)
	s.inner.PutBytesUnchecked(b)
	return b
}

func (s *ScalarImpl) Copy() Scalar {
	return &ScalarImpl{
		inner: new(secp256k1.ModNScalar).Set(s.inner),
	}
}

func (s *ScalarImpl) Zeroize() {
	s.inner.SetInt(0)
}

type PointImpl struct {
	inner *secp256k1.JacobianPoint
}

func (p *PointImpl) Add(b Point) Point {
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(p.inner, mustPoint(b).inner, &r)
	return &PointImpl{inner: &r}
}

func (p *PointImpl) Negate() Point {
	if p.IsIdentity() {
		return p.Copy()
	}

	r := p.affineCopy()
	r.Y.Negate(1)
	r.Y.Normalize()
	return &PointImpl{inner: r}
}

func (p *PointImpl) Double() Point {
	var r secp256k1.JacobianPoint
	secp256k1.DoubleNonConst(p.inner, &r)
	return &PointImpl{inner: &r}
}

func (p *PointImpl) ScalarMul(s Scalar) Point {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(mustScalar(s).inner, p.inner, &r)
	return &PointImpl{inner: &r}
}

func (p *PointImpl) IsIdentity() bool {
	return (p.inner.X.IsZero() && p.inner.Y.IsZero()) || p.inner.Z.IsZero()
}

func (p *PointImpl) IsTorsionFree() bool {
	return true
}

func (p *PointImpl) Eq(b Point) bool {
	other := mustPoint(b)
	if p.IsIdentity() || other.IsIdentity() {
		return p.IsIdentity() == other.IsIdentity()
	}

	pa, oa := p.affineCopy(), other.affineCopy()
	return pa.X.Equals(&oa.X) && pa.Y.Equals(&oa.Y)
}

func (p *PointImpl) EncodeCompressed() []byte {
	if p.IsIdentity() {
		return make([]byte, compressedPointSize)
	}

	a := p.affineCopy()
	return secp256k1.NewPublicKey(&a.X, &a.Y).SerializeCompressed()
}

func (p *PointImpl) EncodeUncompressed() []byte {
	if p.IsIdentity() {
		return make([]byte, uncompressedPointSize)
	}

	a := p.affineCopy()
	return secp256k1.NewPublicKey(&a.X, &a.Y).SerializeUncompressed()
}

func (p *PointImpl) Copy() Point {
	r := *p.inner
	return &PointImpl{inner: &r}
}

// affineCopy returns a normalized affine copy, leaving p untouched.
func (p *PointImpl) affineCopy() *secp256k1.JacobianPoint {
	r := *p.inner
	r.ToAffine()
	return &r
}

func mustScalar(s Scalar) *ScalarImpl {
	ss, ok := s.(*ScalarImpl)
	if !ok {
		panic("invalid scalar; type is not *secp256k1.ScalarImpl")
	}
	return ss
}

func mustPoint(p Point) *PointImpl {
	pp, ok := p.(*PointImpl)
	if !ok {
		panic("invalid point; type is not *secp256k1.PointImpl")
	}
	return pp
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
