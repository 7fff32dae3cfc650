package value

// Null is the zero-length NULL value. The invisible variant is what
// side-effecting and resource-failure builtins return so the console does not
// echo it.
type Null struct {
	flags
}

var (
	// NullValue and NullInvisible are the process-lifetime NULL singletons.
	NullValue     Value
	NullInvisible Value
)

func init() {
	var err error
	NullValue, err = Permanent(&Null{flags: flags{constant: true}})
	if err != nil {
		panic(err)
	}
	NullInvisible, err = Permanent(&Null{flags: flags{constant: true, invisible: true}})
	if err != nil {
		panic(err)
	}
}

func (n *Null) Kind() Kind { return KindNull }
func (n *Null) Count() int { return 0 }

func (n *Null) Copy() Value {
	return &Null{}
}

func (n *Null) Borrow() Value {
	b := *n
	b.owner = BorrowedEphemeral
	return &b
}

func (n *Null) NewMatching() Value {
	return &Null{}
}

func (n *Null) PushFromIndex(src Value, i int) error {
	return Internalf("cannot push onto a NULL value")
}

func (n *Null) ValueAt(i int) Value {
	return &Null{}
}

func (n *Null) String() string { return "NULL" }

// IsInvisible reports whether v carries the invisible flag.
func IsInvisible(v Value) bool {
	return v.Invisible()
}
