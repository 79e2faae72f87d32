package ec

import (
	"sync/atomic"

	"github.com/athanorlabs/go-ec/types"
)

// SecretScalar holds a scalar intended to stay secret: the value lives in
// a single heap cell shared by all clones, and the cell is overwritten
// with zeros when the last reference is released.
//
// The type deliberately exposes only operations that are safe on secret
// data: constant-time equality and field arithmetic. Anything else
// requires Expose, which returns a plain Scalar carrying no further
// protection.
//
// Clone and Release are safe to call from concurrent goroutines, as long
// as each goroutine operates on its own reference. This package does not
// prevent the secret from being swapped to disk or captured in a core
// dump; zeroization on release is the extent of the protection.
type SecretScalar struct {
	cell *secretCell
}

type secretCell struct {
	refs  atomic.Int64
	curve types.Curve
	raw   types.Scalar
}

// NewSecretScalar moves s into protected storage. The caller's scalar is
// reset to zero so that no unprotected copy of the value remains; copies
// of *s made before the call are outside the protection boundary.
func NewSecretScalar(s *Scalar) *SecretScalar {
	cell := &secretCell{curve: s.curve, raw: s.raw}
	cell.refs.Store(1)
	*s = ScalarZero(cell.curve)
	return &SecretScalar{cell: cell}
}

// NewRandomSecretScalar generates a random non-zero secret scalar.
func NewRandomSecretScalar(curve types.Curve) *SecretScalar {
	s := NewRandomScalar(curve)
	return NewSecretScalar(&s)
}

// Curve returns the curve this secret scalar belongs to.
func (k *SecretScalar) Curve() types.Curve {
	return k.cell.curve
}

// Clone returns a new reference to the same underlying storage. No bytes
// are duplicated.
func (k *SecretScalar) Clone() *SecretScalar {
	k.mustBeAlive()
	k.cell.refs.Add(1)
	return &SecretScalar{cell: k.cell}
}

// Release drops this reference. The last release zeroizes the backing
// storage. Using a secret scalar after releasing it, or releasing the same
// reference twice, panics.
func (k *SecretScalar) Release() {
	switch n := k.cell.refs.Add(-1); {
	case n == 0:
		k.cell.raw.Zeroize()
	case n < 0:
		panic("ec: secret scalar released twice")
	}
}

// Eq reports whether k and other hold the same value, in constant time.
func (k *SecretScalar) Eq(other *SecretScalar) bool {
	k.mustBeAlive()
	other.mustBeAlive()
	if k.cell.curve.Name() != other.cell.curve.Name() {
		return false
	}
	return k.cell.raw.Eq(other.cell.raw)
}

// Add returns a new secret scalar holding k + s.
func (k *SecretScalar) Add(s Scalar) *SecretScalar {
	k.mustBeAlive()
	s.mustShareCurve(k.cell.curve)
	out := Scalar{curve: k.cell.curve, raw: k.cell.raw.Add(s.raw)}
	return NewSecretScalar(&out)
}

// Mul returns a new secret scalar holding k * s.
func (k *SecretScalar) Mul(s Scalar) *SecretScalar {
	k.mustBeAlive()
	s.mustShareCurve(k.cell.curve)
	out := Scalar{curve: k.cell.curve, raw: k.cell.raw.Mul(s.raw)}
	return NewSecretScalar(&out)
}

// Invert returns a new secret scalar holding the inverse of k, or
// ErrZeroHasNoInverse when k is zero.
func (k *SecretScalar) Invert() (*SecretScalar, error) {
	k.mustBeAlive()
	if k.cell.raw.IsZero() {
		return nil, types.ErrZeroHasNoInverse
	}
	out := Scalar{curve: k.cell.curve, raw: k.cell.raw.Invert()}
	return NewSecretScalar(&out), nil
}

// PublicPoint returns k * G, the public counterpart of the secret.
func (k *SecretScalar) PublicPoint() Point {
	k.mustBeAlive()
	return Point{
		curve: k.cell.curve,
		raw:   k.cell.curve.Generator().ScalarMul(k.cell.raw),
	}
}

// Expose returns a copy of the value as a plain Scalar. The copy carries
// no protection; handling it safely is the caller's responsibility.
func (k *SecretScalar) Expose() Scalar {
	k.mustBeAlive()
	return Scalar{curve: k.cell.curve, raw: k.cell.raw.Copy()}
}

func (k *SecretScalar) mustBeAlive() {
	if k.cell.refs.Load() <= 0 {
		panic("ec: use of released secret scalar")
	}
}
