package ec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/athanorlabs/go-ec/types"
)

// DecodePoint decodes either point encoding form, dispatching on length.
// Both forms go through full validation; there is no trusted decode path.
func DecodePoint(curve types.Curve, b []byte) (Point, error) {
	switch len(b) {
	case curve.CompressedPointSize():
		return DecodeCompressed(curve, b)
	case curve.UncompressedPointSize():
		return DecodeUncompressed(curve, b)
	default:
		return Point{}, fmt.Errorf("%w: point must be %d or %d bytes, got %d",
			types.ErrMalformedEncoding,
			curve.CompressedPointSize(), curve.UncompressedPointSize(), len(b))
	}
}

// CBOR envelopes are self-describing: they carry the curve name so that a
// decoder can reject values serialized for a different curve instead of
// misinterpreting the bytes.
type pointEnvelope struct {
	Curve string `cbor:"1,keyasint"`
	Point []byte `cbor:"2,keyasint"`
}

type scalarEnvelope struct {
	Curve  string `cbor:"1,keyasint"`
	Scalar []byte `cbor:"2,keyasint"`
}

// MarshalPointCBOR serializes p into a CBOR envelope. The point is always
// emitted in compressed form.
func MarshalPointCBOR(p Point) ([]byte, error) {
	return cbor.Marshal(pointEnvelope{
		Curve: p.curve.Name(),
		Point: p.EncodeCompressed(),
	})
}

// UnmarshalPointCBOR decodes a CBOR point envelope for the given curve.
// The embedded point may be in either encoding form and is fully
// re-validated; an envelope for a different curve is rejected with
// ErrMalformedEncoding.
func UnmarshalPointCBOR(curve types.Curve, data []byte) (Point, error) {
	var env pointEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return Point{}, fmt.Errorf("%w: %s", types.ErrMalformedEncoding, err)
	}

	if env.Curve != curve.Name() {
		return Point{}, fmt.Errorf("%w: envelope is for curve %q, want %q",
			types.ErrMalformedEncoding, env.Curve, curve.Name())
	}

	return DecodePoint(curve, env.Point)
}

// MarshalScalarCBOR serializes s into a CBOR envelope using the canonical
// big-endian encoding.
func MarshalScalarCBOR(s Scalar) ([]byte, error) {
	return cbor.Marshal(scalarEnvelope{
		Curve:  s.curve.Name(),
		Scalar: s.BytesBE(),
	})
}

// UnmarshalScalarCBOR decodes a CBOR scalar envelope for the given curve,
// re-running range validation on the embedded value.
func UnmarshalScalarCBOR(curve types.Curve, data []byte) (Scalar, error) {
	var env scalarEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return Scalar{}, fmt.Errorf("%w: %s", types.ErrMalformedEncoding, err)
	}

	if env.Curve != curve.Name() {
		return Scalar{}, fmt.Errorf("%w: envelope is for curve %q, want %q",
			types.ErrMalformedEncoding, env.Curve, curve.Name())
	}

	return ScalarFromBytes(curve, env.Scalar)
}
