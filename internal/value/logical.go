package value

import "strings"

type Logical struct {
	flags
	Values []bool
}

var (
	// True and False are the process-lifetime T and F singletons.
	True  Value
	False Value
)

func init() {
	var err error
	True, err = Permanent(LogicalConst(true))
	if err != nil {
		panic(err)
	}
	False, err = Permanent(LogicalConst(false))
	if err != nil {
		panic(err)
	}
}

func NewLogical(vals ...bool) *Logical {
	return &Logical{Values: vals}
}

// LogicalConst returns an immutable logical singleton.
func LogicalConst(b bool) *Logical {
	return &Logical{flags: flags{constant: true}, Values: []bool{b}}
}

// FromBool picks the permanent T or F singleton.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

func (l *Logical) Kind() Kind { return KindLogical }
func (l *Logical) Count() int { return len(l.Values) }

func (l *Logical) Copy() Value {
	vals := make([]bool, len(l.Values))
	copy(vals, l.Values)
	return &Logical{Values: vals}
}

func (l *Logical) Borrow() Value {
	b := *l
	b.owner = BorrowedEphemeral
	return &b
}

func (l *Logical) NewMatching() Value {
	return &Logical{}
}

func (l *Logical) PushFromIndex(src Value, i int) error {
	if err := l.canMutate(); err != nil {
		return err
	}
	s, ok := src.(*Logical)
	if !ok {
		return Internalf("push from %s into logical", src.Kind())
	}
	l.Values = append(l.Values, s.Values[i])
	return nil
}

func (l *Logical) ValueAt(i int) Value {
	return &Logical{Values: []bool{l.Values[i]}}
}

func (l *Logical) Push(b bool) error {
	if err := l.canMutate(); err != nil {
		return err
	}
	l.Values = append(l.Values, b)
	return nil
}

func (l *Logical) SetAt(i int, b bool) error {
	if err := l.canMutate(); err != nil {
		return err
	}
	l.Values[i] = b
	return nil
}

func (l *Logical) String() string {
	parts := make([]string, len(l.Values))
	for i, b := range l.Values {
		if b {
			parts[i] = "T"
		} else {
			parts[i] = "F"
		}
	}
	return strings.Join(parts, " ")
}
