package value

import "strings"

type String struct {
	flags
	Values []string
}

func NewString(vals ...string) *String {
	return &String{Values: vals}
}

// StringConst returns an immutable string singleton.
func StringConst(s string) *String {
	return &String{flags: flags{constant: true}, Values: []string{s}}
}

func (v *String) Kind() Kind { return KindString }
func (v *String) Count() int { return len(v.Values) }

func (v *String) Copy() Value {
	vals := make([]string, len(v.Values))
	copy(vals, v.Values)
	return &String{Values: vals}
}

func (v *String) Borrow() Value {
	b := *v
	b.owner = BorrowedEphemeral
	return &b
}

func (v *String) NewMatching() Value {
	return &String{}
}

func (v *String) PushFromIndex(src Value, i int) error {
	if err := v.canMutate(); err != nil {
		return err
	}
	s, ok := src.(*String)
	if !ok {
		return Internalf("push from %s into string", src.Kind())
	}
	v.Values = append(v.Values, s.Values[i])
	return nil
}

func (v *String) ValueAt(i int) Value {
	return &String{Values: []string{v.Values[i]}}
}

func (v *String) Push(s string) error {
	if err := v.canMutate(); err != nil {
		return err
	}
	v.Values = append(v.Values, s)
	return nil
}

func (v *String) SetAt(i int, s string) error {
	if err := v.canMutate(); err != nil {
		return err
	}
	v.Values[i] = s
	return nil
}

func (v *String) String() string {
	parts := make([]string, len(v.Values))
	for i, s := range v.Values {
		parts[i] = `"` + s + `"`
	}
	return strings.Join(parts, " ")
}
