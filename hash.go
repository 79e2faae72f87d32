package ec

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/athanorlabs/go-ec/types"
)

const hashToScalarTag = "go-ec/hash-to-scalar/v1"

// HashToScalar deterministically derives a non-zero scalar from the given
// input parts. The parts are absorbed into a domain-separated SHAKE256
// instance with length prefixes, so the mapping is sensitive to part
// boundaries and order; the scalar is drawn from the resulting stream by
// wide reduction modulo the group order, rejecting zero.
//
// The derivation is a best-effort deterministic mapping. It is not
// constant-time and does not follow any published hash-to-scalar
// standard; do not use it where standards compliance is required.
func HashToScalar(curve types.Curve, domain string, parts ...[]byte) Scalar {
	shake := sha3.NewShake256()
	absorb(shake, []byte(hashToScalarTag))
	absorb(shake, []byte(curve.Name()))
	absorb(shake, []byte(domain))
	for _, part := range parts {
		absorb(shake, part)
	}

	// Drawing twice the scalar width keeps the mod-order bias negligible.
	buf := make([]byte, 2*curve.ScalarSize())
	for {
		if _, err := io.ReadFull(shake, buf); err != nil {
			panic("ec: shake read failed: " + err.Error())
		}

		s := ScalarFromBytesModOrder(curve, buf)
		if !s.IsZero() {
			return s
		}
	}
}

func absorb(w io.Writer, b []byte) {
	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(b)))
	_, _ = w.Write(length[:])
	_, _ = w.Write(b)
}
