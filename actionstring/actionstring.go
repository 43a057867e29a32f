// Package actionstring implements a fixed-size, nibble-packed encoding of
// an action sequence. It exists so the optimizer can carry "the best
// rotation found so far" around as a cheap-to-copy value instead of a
// slice, and so two equally-good rotations can be broken deterministically
// by a lexicographic comparison over the packed bytes.
package actionstring

import "github.com/niceyeti/dlgrind/action"

// Fragment is the four-bit alphabet an ActionString is built from. Its
// numeric order is load-bearing: comparing two ActionStrings byte-wise
// realizes a preference for rotations that front-load long combos, since
// a combo step and its force-strike variant are interleaved (Ck directly
// precedes CkFS) rather than grouped by kind.
type Fragment uint8

const (
	Nil Fragment = iota
	FS
	C1
	C1FS
	C2
	C2FS
	C3
	C3FS
	C4
	C4FS
	C5
	C5FS
	S1
	S2
	S3
	// one nibble value (15) is left unused.
)

func (f Fragment) String() string {
	switch f {
	case Nil:
		return ""
	case FS:
		return "fs"
	case C1:
		return "c1"
	case C1FS:
		return "c1fs"
	case C2:
		return "c2"
	case C2FS:
		return "c2fs"
	case C3:
		return "c3"
	case C3FS:
		return "c3fs"
	case C4:
		return "c4"
	case C4FS:
		return "c4fs"
	case C5:
		return "c5"
	case C5FS:
		return "c5fs"
	case S1:
		return "s1"
	case S2:
		return "s2"
	case S3:
		return "s3"
	default:
		return "?"
	}
}

// MaxFragments is the number of 4-bit slots an ActionString can hold.
const MaxFragments = 32

// ActionString is a fixed 16-byte, NIL-terminated, nibble-packed action
// sequence. The zero value is the empty string. It is cheap to copy by
// value, which is the point: the DP keeps one of these per (frame,
// partition) cell.
type ActionString struct {
	buf [16]byte
}

func unpack(c byte, i int) Fragment {
	if i == 0 {
		return Fragment(c >> 4)
	}
	return Fragment(c & 0x0F)
}

func pack(first, second Fragment) byte {
	return byte(first)<<4 | byte(second)
}

// Get returns the fragment at position i (0-based).
func (s ActionString) Get(i int) Fragment {
	return unpack(s.buf[i/2], i%2)
}

func (s *ActionString) set(i int, f Fragment) {
	c := s.buf[i/2]
	first := unpack(c, 0)
	second := unpack(c, 1)
	if i%2 == 0 {
		first = f
	} else {
		second = f
	}
	s.buf[i/2] = pack(first, second)
}

// nullAt reports the in-byte offset of the first NIL fragment in c, or -1
// if c holds two non-NIL fragments.
func nullAt(c byte) int {
	if c == 0 {
		return 0
	}
	if unpack(c, 1) == Nil {
		return 1
	}
	return -1
}

// Push appends a to the string, coalescing it into the preceding fragment
// when possible: an X after an incomplete combo step extends the combo
// run in place, and an FS after any combo step C1..C5 folds into the
// CkFS variant, rather than consuming a new slot. The last slot is kept
// NIL, so at most MaxFragments-1 fragments are stored.
func (s *ActionString) Push(a action.Action) {
	loc := -1
	for i := 0; i < 16; i++ {
		if j := nullAt(s.buf[i]); j != -1 {
			loc = i*2 + j
			break
		}
	}
	if loc == -1 || loc == MaxFragments-1 {
		panic("actionstring: buffer exhausted")
	}

	if loc != 0 {
		prev := s.Get(loc - 1)
		switch a {
		case action.X:
			switch prev {
			case C1, C2, C3, C4:
				s.set(loc-1, prev+2)
				return
			}
		case action.FS:
			switch prev {
			case C1, C2, C3, C4, C5:
				s.set(loc-1, prev+1)
				return
			}
		}
	}

	var f Fragment
	switch a {
	case action.X:
		f = C1
	case action.FS:
		f = FS
	case action.S1:
		f = S1
	case action.S2:
		f = S2
	case action.S3:
		f = S3
	default:
		panic("actionstring: unknown action")
	}
	s.set(loc, f)
}

// Less reports whether s sorts before other under the byte-wise
// lexicographic order the DP uses to break ties deterministically.
// The DP keeps the lexicographically GREATER of two tied sequences, which
// in this fragment order means preferring the one that front-loads its
// longest combo runs.
func (s ActionString) Less(other ActionString) bool {
	for i := range s.buf {
		if s.buf[i] != other.buf[i] {
			return s.buf[i] < other.buf[i]
		}
	}
	return false
}

// String renders the sequence as space-separated fragment names, for
// reporting.
func (s ActionString) String() string {
	out := make([]byte, 0, MaxFragments*5)
	for i := 0; i < MaxFragments; i++ {
		f := s.Get(i)
		if f == Nil {
			break
		}
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, f.String()...)
	}
	return string(out)
}
