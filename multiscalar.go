package ec

import (
	"encoding/binary"

	"github.com/athanorlabs/go-ec/types"
)

// ScalarPoint is one term of a multiscalar multiplication.
type ScalarPoint struct {
	Scalar Scalar
	Point  Point
}

// MultiscalarMul computes the sum of Scalar_i * Point_i over all pairs in
// one pass using Straus' algorithm, which shares the point-doubling cost
// across all terms. The result is identical to NaiveMultiscalarMul for any
// input; an empty input yields the identity. All pairs must belong to the
// given curve or the function panics.
func MultiscalarMul(curve types.Curve, pairs []ScalarPoint) Point {
	switch len(pairs) {
	case 0:
		return Identity(curve)
	case 1:
		pairs[0].Scalar.mustShareCurve(curve)
		pairs[0].Point.mustShareCurve(curve)
		return pairs[0].Point.Mul(pairs[0].Scalar)
	default:
		return strausMultiscalarMul(curve, pairs)
	}
}

// NaiveMultiscalarMul computes each term independently and sums them. It
// exists as the correctness reference for MultiscalarMul and for callers
// that want predictable per-term cost.
func NaiveMultiscalarMul(curve types.Curve, pairs []ScalarPoint) Point {
	acc := curve.Identity()
	for _, sp := range pairs {
		sp.Scalar.mustShareCurve(curve)
		sp.Point.mustShareCurve(curve)
		acc = acc.Add(sp.Point.raw.ScalarMul(sp.Scalar.raw))
	}
	return Point{curve: curve, raw: acc}
}

// strausWindow is the NAF window width. 5 was measured to perform best
// across input sizes in the implementation this port follows.
const strausWindow = 5

// strausMultiscalarMul accumulates all terms column by column over the
// scalars' non-adjacent form, from the most significant NAF position to
// the least, doubling the accumulator once per position.
func strausMultiscalarMul(curve types.Curve, pairs []ScalarPoint) Point {
	nafs := newNafMatrix(strausWindow, curve.ScalarSize(), len(pairs))
	tables := make([]*lookupTable, len(pairs))

	for i, sp := range pairs {
		sp.Scalar.mustShareCurve(curve)
		sp.Point.mustShareCurve(curve)
		nafs.addScalar(sp.Scalar)
		tables[i] = newLookupTable(sp.Point.raw)
	}

	r := curve.Identity()
	for pos := nafs.nafSize - 1; pos >= 0; pos-- {
		if pos != nafs.nafSize-1 {
			r = r.Double()
		}

		for term, table := range tables {
			switch digit := nafs.at(term, pos); {
			case digit > 0:
				r = r.Add(table.get(int(digit)))
			case digit < 0:
				r = r.Add(table.get(int(-digit)).Negate())
			}
		}
	}

	return Point{curve: curve, raw: r}
}

// lookupTable holds the odd multiples P, 3P, 5P, ..., 15P of one input
// point.
type lookupTable struct {
	odd [8]types.Point
}

func newLookupTable(p types.Point) *lookupTable {
	t := &lookupTable{}
	t.odd[0] = p
	p2 := p.Double()
	for i := 0; i < 7; i++ {
		t.odd[i+1] = p2.Add(t.odd[i])
	}
	return t
}

// get returns x*P for odd x with 0 < x < 16.
func (t *lookupTable) get(x int) types.Point {
	return t.odd[x/2]
}

// nafMatrix stores the width-w non-adjacent form of multiple scalars.
//
// Width-w NAF represents a scalar as sum(k_i * 2^i) where every non-zero
// k_i is odd and lies in [-2^(w-1), 2^(w-1)). Working only with odd,
// signed digits cuts the lookup-table size by a factor of four compared
// to plain base-2^w windows.
type nafMatrix struct {
	nafSize    int
	w          uint
	width      uint64
	widthHalf  uint64
	windowMask uint64
	matrix     []int8
}

func newNafMatrix(w uint, scalarSize, capacity int) *nafMatrix {
	if w < 2 || w > 8 {
		panic("ec: NAF window width must be in [2, 8]")
	}

	nafSize := scalarSize*8 + 1
	return &nafMatrix{
		nafSize:    nafSize,
		w:          w,
		width:      1 << w,
		widthHalf:  1 << (w - 1),
		windowMask: (1 << w) - 1,
		matrix:     make([]int8, 0, nafSize*capacity),
	}
}

// addScalar recodes one scalar into NAF and appends it to the matrix.
func (m *nafMatrix) addScalar(s Scalar) {
	le := s.BytesLE()
	limbCount := (len(le) + 7) / 8
	padded := make([]byte, limbCount*8)
	copy(padded, le)

	// One extra zero limb so windows that straddle the top limb can read
	// past it.
	x := make([]uint64, limbCount+1)
	for i := 0; i < limbCount; i++ {
		x[i] = binary.LittleEndian.Uint64(padded[i*8:])
	}

	offset := len(m.matrix)
	m.matrix = append(m.matrix, make([]int8, m.nafSize)...)
	naf := m.matrix[offset:]

	pos := 0
	carry := false
	for pos < m.nafSize {
		limbIdx := pos / 64
		bitIdx := uint(pos % 64)

		var bitBuf uint64
		if bitIdx < 64-m.w {
			// The whole window lives in a single limb.
			bitBuf = (x[limbIdx] >> bitIdx) & m.windowMask
		} else {
			// Combine the current limb's bits with the next limb's.
			bitBuf = ((x[limbIdx] >> bitIdx) | (x[limbIdx+1] << (64 - bitIdx))) & m.windowMask
		}

		window := bitBuf
		if carry {
			window++
		}

		if window&1 == 0 {
			// An even window preserves the carry: if carry was set, the
			// window's low bit was 1 before the increment, so the +1
			// still needs to propagate.
			pos++
			continue
		}

		if window < m.widthHalf {
			carry = false
			naf[pos] = int8(window)
		} else {
			carry = true
			naf[pos] = int8(window) - int8(m.width)
		}

		pos += int(m.w)
	}
}

// at returns NAF digit pos of the term-th scalar added to the matrix.
func (m *nafMatrix) at(term, pos int) int8 {
	return m.matrix[term*m.nafSize+pos]
}
