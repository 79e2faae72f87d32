package ec

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/athanorlabs/go-ec/ed25519"
	"github.com/athanorlabs/go-ec/types"
)

func TestPoint_RoundTrip(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		p := Generator(curve).Mul(NewRandomScalar(curve))

		compressed := p.EncodeCompressed()
		require.Len(t, compressed, curve.CompressedPointSize())
		fromCompressed, err := DecodeCompressed(curve, compressed)
		require.NoError(t, err)
		require.True(t, p.Eq(fromCompressed))

		uncompressed := p.EncodeUncompressed()
		require.Len(t, uncompressed, curve.UncompressedPointSize())
		fromUncompressed, err := DecodeUncompressed(curve, uncompressed)
		require.NoError(t, err)
		require.True(t, p.Eq(fromUncompressed))

		// Group-element equality holds across encoding forms.
		require.True(t, fromCompressed.Eq(fromUncompressed))
	})
}

func TestPoint_IdentityRoundTrip(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		id := Identity(curve)
		require.True(t, id.IsIdentity())

		fromCompressed, err := DecodeCompressed(curve, id.EncodeCompressed())
		require.NoError(t, err)
		require.True(t, fromCompressed.IsIdentity())

		fromUncompressed, err := DecodeUncompressed(curve, id.EncodeUncompressed())
		require.NoError(t, err)
		require.True(t, fromUncompressed.IsIdentity())
	})
}

func TestPoint_Arithmetic(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		g := Generator(curve)
		id := Identity(curve)

		require.True(t, g.Add(id).Eq(g))
		require.True(t, g.Sub(g).IsIdentity())
		require.True(t, g.Add(g.Negate()).IsIdentity())
		require.True(t, g.Double().Eq(g.Add(g)))

		two := ScalarFromUint64(curve, 2)
		require.True(t, g.Mul(two).Eq(g.Double()))

		a := NewRandomScalar(curve)
		b := NewRandomScalar(curve)
		// (a + b) G == aG + bG
		require.True(t, g.Mul(a.Add(b)).Eq(g.Mul(a).Add(g.Mul(b))))
	})
}

// The order of every valid non-identity point is exactly the group order:
// [order - 1] P + P must land on the identity.
func TestPoint_OrderAnnihilates(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		orderMinusOne := ScalarZero(curve).Sub(ScalarOne(curve))

		for _, p := range []Point{
			Generator(curve),
			Generator(curve).Mul(NewRandomScalar(curve)),
		} {
			require.False(t, p.IsIdentity())
			require.True(t, p.Mul(orderMinusOne).Add(p).IsIdentity())
		}
	})
}

func TestPoint_DiffieHellman(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		a := NewRandomScalar(curve)
		b := NewRandomScalar(curve)
		g := Generator(curve)

		shared1 := g.Mul(a).Mul(b)
		shared2 := g.Mul(b).Mul(a)
		require.True(t, shared1.Eq(shared2))
		require.False(t, shared1.IsIdentity())
	})
}

func TestDecodePoint_WrongLength(t *testing.T) {
	forEachCurve(t, func(t *testing.T, curve types.Curve) {
		_, err := DecodeCompressed(curve, make([]byte, curve.CompressedPointSize()+1))
		require.ErrorIs(t, err, ErrMalformedEncoding)

		_, err = DecodeUncompressed(curve, make([]byte, curve.UncompressedPointSize()-1))
		require.ErrorIs(t, err, ErrMalformedEncoding)

		_, err = DecodePoint(curve, []byte{0x02})
		require.ErrorIs(t, err, ErrMalformedEncoding)
	})
}

func TestDecodeCompressed_NotOnCurve(t *testing.T) {
	t.Run("ed25519", func(t *testing.T) {
		curve := ed25519.NewCurve()

		// About half of all y coordinates have no matching x; scan small
		// values until one fails to decompress.
		b := make([]byte, curve.CompressedPointSize())
		found := false
		for y := 0; y < 256; y++ {
			b[0] = byte(y)
			if _, err := DecodeCompressed(curve, b); errors.Is(err, ErrNotOnCurve) {
				found = true
				break
			}
		}
		require.True(t, found)
	})

	t.Run("secp256k1", func(t *testing.T) {
		curve := allCurves()[1]

		// x >= field prime cannot be a valid coordinate.
		b := make([]byte, curve.CompressedPointSize())
		b[0] = 0x02
		for i := 1; i < len(b); i++ {
			b[i] = 0xff
		}
		_, err := DecodeCompressed(curve, b)
		require.ErrorIs(t, err, ErrNotOnCurve)

		// A bad SEC1 prefix is a malformed encoding.
		b[0] = 0x05
		_, err = DecodeCompressed(curve, b)
		require.ErrorIs(t, err, ErrMalformedEncoding)
	})
}

// A coordinate encoded as value + p denotes the same field element but is
// not the canonical encoding, and must be rejected.
func TestDecodeUncompressed_NonCanonical(t *testing.T) {
	curve := ed25519.NewCurve()

	// The identity is (0, 1); encode x = 0 as p instead.
	b := Identity(curve).EncodeUncompressed()
	b[0] = 0xed
	for i := 1; i < 31; i++ {
		b[i] = 0xff
	}
	b[31] = 0x7f

	_, err := DecodeUncompressed(curve, b)
	require.ErrorIs(t, err, ErrMalformedEncoding)
}

// ed25519 has cofactor 8; decoding a valid point outside the prime-order
// subgroup must fail the subgroup check.
func TestDecodeCompressed_SmallOrder(t *testing.T) {
	curve := ed25519.NewCurve()

	smallOrder := []string{
		// y = -1, a point of order 2.
		"ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
		// y = 0, a point of order 4.
		"0000000000000000000000000000000000000000000000000000000000000000",
		// order-8 points
		"26e8958fc2b227b045c3f489f2ef98f0d5dfac05d3c63339b13802886d53fc05",
		"c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac037a",
	}

	for _, s := range smallOrder {
		b, err := hex.DecodeString(s)
		require.NoError(t, err)

		_, err = DecodeCompressed(curve, b)
		require.ErrorIs(t, err, ErrSmallOrder, "encoding %s", s)
	}
}

func TestPoint_MixedCurvesPanics(t *testing.T) {
	g1 := Generator(allCurves()[0])
	g2 := Generator(allCurves()[1])

	require.False(t, g1.Eq(g2))
	require.Panics(t, func() {
		g1.Add(g2)
	})
}
