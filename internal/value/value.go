package value

import (
	"math"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindLogical
	KindInteger
	KindFloat
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindLogical:
		return "logical"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Ownership tracks who is responsible for a value. Owned values may be
// mutated (if not constant) and stored; borrowed values alias storage held
// elsewhere and must be copied before any mutation or storage.
type Ownership int

const (
	Owned Ownership = iota
	BorrowedEphemeral
	BorrowedPermanent
)

type Value interface {
	Kind() Kind
	Count() int
	Ownership() Ownership
	// IsMutable is false for singleton constants regardless of ownership.
	IsMutable() bool
	// Copy returns a deep, Owned, mutable copy.
	Copy() Value
	// Borrow returns a shallow alias marked BorrowedEphemeral. Aliases share
	// backing storage; mutation guards make that safe.
	Borrow() Value
	// NewMatching returns an empty, Owned, mutable vector of the same kind
	// (and element type, for objects).
	NewMatching() Value
	// PushFromIndex appends src's i'th element; src must be the same kind.
	PushFromIndex(src Value, i int) error
	// ValueAt returns a fresh Owned singleton holding the i'th element.
	ValueAt(i int) Value
	// Invisible reports whether the console should suppress echoing this
	// value. Independent of ownership; cleared by Copy.
	Invisible() bool
	String() string
}

type flags struct {
	owner     Ownership
	constant  bool
	invisible bool
}

func (f flags) Ownership() Ownership { return f.owner }
func (f flags) IsMutable() bool      { return !f.constant }
func (f flags) Invisible() bool      { return f.invisible }

// canMutate is the guard every mutating method runs first.
func (f flags) canMutate() error {
	if f.constant || f.owner != Owned {
		return Scriptf(-1, -1, "cannot modify an immutable value")
	}
	return nil
}

// Permanent blesses an immutable singleton for process-lifetime use, such as
// the intrinsic constants T, F, NULL, PI, E, INF and NAN. Passing anything
// mutable or non-singleton is a host bug.
func Permanent(v Value) (Value, error) {
	if v.IsMutable() {
		return nil, Internalf("Permanent: value is mutable")
	}
	if v.Kind() != KindNull && v.Count() != 1 {
		return nil, Internalf("Permanent: value is not a singleton")
	}
	switch t := v.(type) {
	case *Null:
		n := *t
		n.owner = BorrowedPermanent
		return &n, nil
	case *Logical:
		l := *t
		l.owner = BorrowedPermanent
		return &l, nil
	case *Integer:
		i := *t
		i.owner = BorrowedPermanent
		return &i, nil
	case *Float:
		f := *t
		f.owner = BorrowedPermanent
		return &f, nil
	case *String:
		s := *t
		s.owner = BorrowedPermanent
		return &s, nil
	}
	return nil, Internalf("Permanent: unsupported value kind %s", v.Kind())
}

// MarkInvisible returns a borrow of v flagged invisible, for results the
// console should not echo.
func MarkInvisible(v Value) Value {
	b := v.Borrow()
	switch t := b.(type) {
	case *Null:
		t.invisible = true
	case *Logical:
		t.invisible = true
	case *Integer:
		t.invisible = true
	case *Float:
		t.invisible = true
	case *String:
		t.invisible = true
	case *Object:
		t.invisible = true
	}
	return b
}

// PromotedKind gives the common kind two operands promote to, following
// logical < integer < float < string. NULL and object never promote.
func PromotedKind(a, b Kind) (Kind, error) {
	if a == KindNull || b == KindNull || a == KindObject || b == KindObject {
		return KindNull, Scriptf(-1, -1, "operand of type %s cannot be promoted", pickBad(a, b))
	}
	if a > b {
		return a, nil
	}
	return b, nil
}

func pickBad(a, b Kind) Kind {
	if a == KindNull || a == KindObject {
		return a
	}
	return b
}

// LogicalAt converts element i to logical. Numeric operands convert by
// zero test; NAN does not convert.
func LogicalAt(v Value, i int) (bool, error) {
	switch t := v.(type) {
	case *Logical:
		return t.Values[i], nil
	case *Integer:
		return t.Values[i] != 0, nil
	case *Float:
		f := t.Values[i]
		if math.IsNaN(f) {
			return false, Scriptf(-1, -1, "NAN cannot be converted to logical")
		}
		return f != 0, nil
	}
	return false, Scriptf(-1, -1, "operand of type %s cannot be converted to logical", v.Kind())
}

// IntegerAt converts element i to integer. Float truncates toward zero and
// must be in int64 range; strings parse.
func IntegerAt(v Value, i int) (int64, error) {
	switch t := v.(type) {
	case *Logical:
		if t.Values[i] {
			return 1, nil
		}
		return 0, nil
	case *Integer:
		return t.Values[i], nil
	case *Float:
		return FloatToInteger(t.Values[i])
	case *String:
		n, err := strconv.ParseInt(strings.TrimSpace(t.Values[i]), 10, 64)
		if err != nil {
			return 0, Scriptf(-1, -1, "string %q cannot be converted to integer", t.Values[i])
		}
		return n, nil
	}
	return 0, Scriptf(-1, -1, "operand of type %s cannot be converted to integer", v.Kind())
}

// FloatToInteger truncates toward zero, rejecting NAN and values outside the
// int64 range.
func FloatToInteger(f float64) (int64, error) {
	if math.IsNaN(f) {
		return 0, Scriptf(-1, -1, "NAN cannot be converted to integer")
	}
	if f >= 9223372036854775808.0 || f < -9223372036854775808.0 {
		return 0, Scriptf(-1, -1, "float value %g is out of range for integer", f)
	}
	return int64(f), nil
}

func FloatAt(v Value, i int) (float64, error) {
	switch t := v.(type) {
	case *Logical:
		if t.Values[i] {
			return 1, nil
		}
		return 0, nil
	case *Integer:
		return float64(t.Values[i]), nil
	case *Float:
		return t.Values[i], nil
	case *String:
		f, err := strconv.ParseFloat(strings.TrimSpace(t.Values[i]), 64)
		if err != nil {
			return 0, Scriptf(-1, -1, "string %q cannot be converted to float", t.Values[i])
		}
		return f, nil
	}
	return 0, Scriptf(-1, -1, "operand of type %s cannot be converted to float", v.Kind())
}

func StringAt(v Value, i int) (string, error) {
	switch t := v.(type) {
	case *Logical:
		if t.Values[i] {
			return "T", nil
		}
		return "F", nil
	case *Integer:
		return strconv.FormatInt(t.Values[i], 10), nil
	case *Float:
		return FormatFloat(t.Values[i]), nil
	case *String:
		return t.Values[i], nil
	}
	return "", Scriptf(-1, -1, "operand of type %s cannot be converted to string", v.Kind())
}

// FormatFloat is the print form used everywhere floats become text.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Compare orders element i of a against element j of b after promoting both
// to their common kind. Returns -1, 0 or 1. Objects compare by identity and
// only for equality.
func Compare(a Value, i int, b Value, j int) (int, error) {
	if a.Kind() == KindObject && b.Kind() == KindObject {
		ao := a.(*Object)
		bo := b.(*Object)
		if ao.Elements[i] == bo.Elements[j] {
			return 0, nil
		}
		return -1, nil
	}
	k, err := PromotedKind(a.Kind(), b.Kind())
	if err != nil {
		return 0, err
	}
	switch k {
	case KindString:
		x, err := StringAt(a, i)
		if err != nil {
			return 0, err
		}
		y, err := StringAt(b, j)
		if err != nil {
			return 0, err
		}
		return strings.Compare(x, y), nil
	case KindFloat:
		x, err := FloatAt(a, i)
		if err != nil {
			return 0, err
		}
		y, err := FloatAt(b, j)
		if err != nil {
			return 0, err
		}
		return compareOrdered(x, y), nil
	default:
		x, err := IntegerAt(a, i)
		if err != nil {
			return 0, err
		}
		y, err := IntegerAt(b, j)
		if err != nil {
			return 0, err
		}
		return compareOrdered(x, y), nil
	}
}

func compareOrdered[T int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
