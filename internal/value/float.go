package value

import "strings"

type Float struct {
	flags
	Values []float64
}

func NewFloat(vals ...float64) *Float {
	return &Float{Values: vals}
}

// FloatConst returns an immutable float singleton.
func FloatConst(f float64) *Float {
	return &Float{flags: flags{constant: true}, Values: []float64{f}}
}

func (v *Float) Kind() Kind { return KindFloat }
func (v *Float) Count() int { return len(v.Values) }

func (v *Float) Copy() Value {
	vals := make([]float64, len(v.Values))
	copy(vals, v.Values)
	return &Float{Values: vals}
}

func (v *Float) Borrow() Value {
	b := *v
	b.owner = BorrowedEphemeral
	return &b
}

func (v *Float) NewMatching() Value {
	return &Float{}
}

func (v *Float) PushFromIndex(src Value, i int) error {
	if err := v.canMutate(); err != nil {
		return err
	}
	s, ok := src.(*Float)
	if !ok {
		return Internalf("push from %s into float", src.Kind())
	}
	v.Values = append(v.Values, s.Values[i])
	return nil
}

func (v *Float) ValueAt(i int) Value {
	return &Float{Values: []float64{v.Values[i]}}
}

func (v *Float) Push(f float64) error {
	if err := v.canMutate(); err != nil {
		return err
	}
	v.Values = append(v.Values, f)
	return nil
}

func (v *Float) SetAt(i int, f float64) error {
	if err := v.canMutate(); err != nil {
		return err
	}
	v.Values[i] = f
	return nil
}

func (v *Float) String() string {
	parts := make([]string, len(v.Values))
	for i, f := range v.Values {
		parts[i] = FormatFloat(f)
	}
	return strings.Join(parts, " ")
}
