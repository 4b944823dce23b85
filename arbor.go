package arbor

import "fmt"

// ObjectID identifies an object in a Hierarchy. IDs are dense and strictly
// positive; they are handed out by an Allocator (or any other source the
// caller owns) and stay stable for the object's lifetime.
type ObjectID uint32

// NoObject is the zero ObjectID. It is never a valid object and is used as
// the "no parent" argument to SetParent.
const NoObject ObjectID = 0

// Span is the contiguous range of the order array occupied by an object and
// all of its descendants.
type Span struct {
	Index uint32 // position of the object itself
	Count uint32 // 1 + number of transitive descendants
}

// End returns the position one past the object's last descendant.
func (s Span) End() uint32 {
	return s.Index + s.Count
}

// Contains reports whether pos lies inside the span.
func (s Span) Contains(pos uint32) bool {
	return pos >= s.Index && pos < s.Index+s.Count
}

// Bounds returns the span as a half-open [start, end) pair for slicing.
func (s Span) Bounds() (start, end int) {
	return int(s.Index), int(s.Index + s.Count)
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Index, s.Index+s.Count)
}
