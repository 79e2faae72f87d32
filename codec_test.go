package ec

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/athanorlabs/go-ec/types"
)

func TestDecodePoint_EitherForm(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		p := Generator(curve).Mul(NewRandomScalar(curve))

		fromCompressed, err := DecodePoint(curve, p.EncodeCompressed())
		require.NoError(t, err)
		require.True(t, p.Eq(fromCompressed))

		fromUncompressed, err := DecodePoint(curve, p.EncodeUncompressed())
		require.NoError(t, err)
		require.True(t, p.Eq(fromUncompressed))
	})
}

func TestPointCBOR_RoundTrip(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		p := Generator(curve).Mul(NewRandomScalar(curve))

		data, err := MarshalPointCBOR(p)
		require.NoError(t, err)

		decoded, err := UnmarshalPointCBOR(curve, data)
		require.NoError(t, err)
		require.True(t, p.Eq(decoded))
	})
}

func TestScalarCBOR_RoundTrip(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		s := NewRandomScalar(curve)

		data, err := MarshalScalarCBOR(s)
		require.NoError(t, err)

		decoded, err := UnmarshalScalarCBOR(curve, data)
		require.NoError(t, err)
		require.True(t, s.Eq(decoded))
	})
}

// An envelope serialized for one curve must not decode on another.
func TestCBOR_CurveMismatch(t *testing.T) {
	curveA, curveB := allCurves()[0], allCurves()[1]

	p := Generator(curveA)
	data, err := MarshalPointCBOR(p)
	require.NoError(t, err)
	_, err = UnmarshalPointCBOR(curveB, data)
	require.ErrorIs(t, err, ErrMalformedEncoding)

	s := NewRandomScalar(curveB)
	data, err = MarshalScalarCBOR(s)
	require.NoError(t, err)
	_, err = UnmarshalScalarCBOR(curveA, data)
	require.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestCBOR_Garbage(t *testing.T) {
	curve := allCurves()[0]

	_, err := UnmarshalPointCBOR(curve, []byte{0xff, 0x00, 0x12})
	require.ErrorIs(t, err, ErrMalformedEncoding)

	_, err = UnmarshalScalarCBOR(curve, []byte("not cbor at all"))
	require.ErrorIs(t, err, ErrMalformedEncoding)
}

// A well-formed envelope carrying an out-of-range scalar is still
// rejected: decode re-runs the range check.
func TestScalarCBOR_NotInRange(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		be := make([]byte, curve.ScalarSize())
		curve.Order().FillBytes(be)

		data, err := cbor.Marshal(scalarEnvelope{
			Curve:  curve.Name(),
			Scalar: be,
		})
		require.NoError(t, err)

		_, err = UnmarshalScalarCBOR(curve, data)
		require.ErrorIs(t, err, ErrNotInRange)
	})
}

// An envelope carrying a small-order point is rejected at decode.
func TestPointCBOR_SmallOrder(t *testing.T) {
	curve := allCurves()[0] // ed25519

	smallOrder := make([]byte, curve.CompressedPointSize())
	smallOrder[0] = 0xec
	for i := 1; i < 31; i++ {
		smallOrder[i] = 0xff
	}
	smallOrder[31] = 0x7f

	data, err := cbor.Marshal(pointEnvelope{
		Curve: curve.Name(),
		Point: smallOrder,
	})
	require.NoError(t, err)

	_, err = UnmarshalPointCBOR(curve, data)
	require.ErrorIs(t, err, ErrSmallOrder)
}

func TestCodec_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	for _, curve := range allCurves() {
		properties := gopter.NewProperties(parameters)
		properties.Property("decode(encode(scalar)) is canonical", prop.ForAll(
			func(seed []byte) bool {
				s := ScalarFromBytesModOrder(curve, seed)
				decoded, err := ScalarFromBytes(curve, s.BytesBE())
				if err != nil {
					return false
				}
				return s.Eq(decoded)
			},
			gen.SliceOf(gen.UInt8()),
		))
		properties.Property("decode(encode(point)) is the same element", prop.ForAll(
			func(seed []byte) bool {
				p := Generator(curve).Mul(ScalarFromBytesModOrder(curve, append(seed, 1)))
				decoded, err := DecodePoint(curve, p.EncodeCompressed())
				if err != nil {
					return false
				}
				return p.Eq(decoded)
			},
			gen.SliceOf(gen.UInt8()),
		))
		properties.TestingRun(t, gopter.ConsoleReporter(false))
	}
}
