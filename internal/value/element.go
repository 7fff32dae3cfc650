package value

import (
	"io"
	"log/slog"
)

// HostContext carries the ambient facilities an element method may use.
type HostContext struct {
	Out     io.Writer
	WorkDir string
	Log     *slog.Logger
}

// Element is the protocol host-defined object classes implement. Elements
// live behind object vectors; the runtime never inspects their insides.
type Element interface {
	ElementType() string
	ReadOnlyMembers() []string
	ReadWriteMembers() []string
	MemberValue(name string) (Value, error)
	SetMemberValue(name string, v Value) error
	Methods() []string
	MethodSignature(name string) (*Signature, bool)
	ExecuteMethod(name string, args []Value, hc *HostContext) (Value, error)
}

// Retainer is implemented by elements holding external resources. The symbol
// table retains on store and releases on removal or overwrite; an element
// reaching zero references may tear its resource down.
type Retainer interface {
	Retain()
	Release()
}

func Retain(e Element) {
	if r, ok := e.(Retainer); ok {
		r.Retain()
	}
}

func Release(e Element) {
	if r, ok := e.(Retainer); ok {
		r.Release()
	}
}
