package value

import (
	"strconv"
	"strings"
)

type Integer struct {
	flags
	Values []int64
}

func NewInteger(vals ...int64) *Integer {
	return &Integer{Values: vals}
}

// IntegerConst returns an immutable integer singleton.
func IntegerConst(n int64) *Integer {
	return &Integer{flags: flags{constant: true}, Values: []int64{n}}
}

func (v *Integer) Kind() Kind { return KindInteger }
func (v *Integer) Count() int { return len(v.Values) }

func (v *Integer) Copy() Value {
	vals := make([]int64, len(v.Values))
	copy(vals, v.Values)
	return &Integer{Values: vals}
}

func (v *Integer) Borrow() Value {
	b := *v
	b.owner = BorrowedEphemeral
	return &b
}

func (v *Integer) NewMatching() Value {
	return &Integer{}
}

func (v *Integer) PushFromIndex(src Value, i int) error {
	if err := v.canMutate(); err != nil {
		return err
	}
	s, ok := src.(*Integer)
	if !ok {
		return Internalf("push from %s into integer", src.Kind())
	}
	v.Values = append(v.Values, s.Values[i])
	return nil
}

func (v *Integer) ValueAt(i int) Value {
	return &Integer{Values: []int64{v.Values[i]}}
}

func (v *Integer) Push(n int64) error {
	if err := v.canMutate(); err != nil {
		return err
	}
	v.Values = append(v.Values, n)
	return nil
}

func (v *Integer) SetAt(i int, n int64) error {
	if err := v.canMutate(); err != nil {
		return err
	}
	v.Values[i] = n
	return nil
}

func (v *Integer) String() string {
	parts := make([]string, len(v.Values))
	for i, n := range v.Values {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(parts, " ")
}
