package value

import (
	"fmt"
	"strings"
)

// Kind masks for argument and return checking. The low bits select kinds;
// the high bits flag the argument as optional or singleton-only.
const (
	MaskNull    uint32 = 0x01
	MaskLogical uint32 = 0x02
	MaskInteger uint32 = 0x04
	MaskFloat   uint32 = 0x08
	MaskString  uint32 = 0x10
	MaskObject  uint32 = 0x20

	MaskOptional  uint32 = 0x80000000
	MaskSingleton uint32 = 0x40000000
	MaskFlagStrip uint32 = 0x3FFFFFFF

	MaskNumeric      = MaskInteger | MaskFloat
	MaskLogicalEquiv = MaskLogical | MaskInteger | MaskFloat
	MaskAnyBase      = MaskNull | MaskLogical | MaskInteger | MaskFloat | MaskString | MaskObject
	MaskAny          = MaskAnyBase | MaskOptional
)

func maskForKind(k Kind) uint32 {
	switch k {
	case KindNull:
		return MaskNull
	case KindLogical:
		return MaskLogical
	case KindInteger:
		return MaskInteger
	case KindFloat:
		return MaskFloat
	case KindString:
		return MaskString
	case KindObject:
		return MaskObject
	}
	return 0
}

// Signature describes one callable: its name, return mask and argument
// masks. Built fluently at registration time; builder misuse panics since it
// is a host programming error, not a script error.
type Signature struct {
	Name        string
	ReturnMask  uint32
	ArgMasks    []uint32
	ArgNames    []string
	HasEllipsis bool
}

func NewSignature(name string, returnMask uint32) *Signature {
	return &Signature{Name: name, ReturnMask: returnMask}
}

func (s *Signature) AddArg(mask uint32, name string) *Signature {
	if s.HasEllipsis {
		panic(fmt.Sprintf("signature %s: argument %q added after ellipsis", s.Name, name))
	}
	if mask&MaskOptional == 0 && len(s.ArgMasks) > 0 {
		last := s.ArgMasks[len(s.ArgMasks)-1]
		if last&MaskOptional != 0 {
			panic(fmt.Sprintf("signature %s: required argument %q after an optional argument", s.Name, name))
		}
	}
	if mask&MaskFlagStrip == 0 {
		panic(fmt.Sprintf("signature %s: argument %q admits no kinds", s.Name, name))
	}
	s.ArgMasks = append(s.ArgMasks, mask)
	s.ArgNames = append(s.ArgNames, name)
	return s
}

func (s *Signature) AddEllipsis() *Signature {
	if s.HasEllipsis {
		panic(fmt.Sprintf("signature %s: duplicate ellipsis", s.Name))
	}
	s.HasEllipsis = true
	return s
}

// requiredCount is how many leading arguments carry no optional flag.
func (s *Signature) requiredCount() int {
	n := 0
	for _, m := range s.ArgMasks {
		if m&MaskOptional != 0 {
			break
		}
		n++
	}
	return n
}

// CheckArguments validates a call site against the signature: arity first,
// then per-argument kind and singleton checks. Positions are 1-based in
// messages. pos/end locate the call for error reporting.
func (s *Signature) CheckArguments(args []Value, pos, end int) error {
	required := s.requiredCount()
	if len(args) < required {
		return Scriptf(pos, end, "function '%s' is missing required argument '%s'", s.Name, s.ArgNames[len(args)])
	}
	if !s.HasEllipsis && len(args) > len(s.ArgMasks) {
		return Scriptf(pos, end, "function '%s' requires at most %d argument(s), but %d were supplied", s.Name, len(s.ArgMasks), len(args))
	}
	for i, arg := range args {
		if i >= len(s.ArgMasks) {
			break // ellipsis arguments are unchecked
		}
		mask := s.ArgMasks[i]
		if mask&maskForKind(arg.Kind()) == 0 {
			return Scriptf(pos, end, "argument %d to function '%s' cannot be type %s", i+1, s.Name, arg.Kind())
		}
		if mask&MaskSingleton != 0 && arg.Kind() != KindNull && arg.Count() != 1 {
			return Scriptf(pos, end, "argument %d to function '%s' must be a singleton (size() == 1), but size() == %d", i+1, s.Name, arg.Count())
		}
	}
	return nil
}

// CheckReturn validates what a builtin or method produced. Violations are
// implementation bugs, so they surface as internal errors.
func (s *Signature) CheckReturn(v Value) error {
	if s.ReturnMask&maskForKind(v.Kind()) == 0 {
		return Internalf("return value of function '%s' cannot be type %s", s.Name, v.Kind())
	}
	if s.ReturnMask&MaskSingleton != 0 && v.Kind() != KindNull && v.Count() != 1 {
		return Internalf("return value of function '%s' must be a singleton (size() == 1), but size() == %d", s.Name, v.Count())
	}
	return nil
}

func maskKindString(mask uint32) string {
	base := mask & MaskFlagStrip
	var s string
	switch base {
	case MaskAnyBase:
		s = "any"
	case MaskNumeric:
		s = "numeric"
	case MaskLogicalEquiv:
		s = "logicalEquiv"
	default:
		var b strings.Builder
		if base&MaskNull != 0 {
			b.WriteByte('N')
		}
		if base&MaskLogical != 0 {
			b.WriteByte('l')
		}
		if base&MaskInteger != 0 {
			b.WriteByte('i')
		}
		if base&MaskFloat != 0 {
			b.WriteByte('f')
		}
		if base&MaskString != 0 {
			b.WriteByte('s')
		}
		if base&MaskObject != 0 {
			b.WriteByte('o')
		}
		s = b.String()
	}
	if mask&MaskSingleton != 0 {
		s += "$"
	}
	return s
}

// String renders the signature the way the console's function() listing
// shows it, with [brackets] around optional arguments and $ marking
// singleton-only positions.
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(maskKindString(s.ReturnMask))
	b.WriteString(")")
	b.WriteString(s.Name)
	b.WriteString("(")
	for i, mask := range s.ArgMasks {
		if i > 0 {
			b.WriteString(", ")
		}
		arg := maskKindString(mask) + " " + s.ArgNames[i]
		if mask&MaskOptional != 0 {
			arg = "[" + arg + "]"
		}
		b.WriteString(arg)
	}
	if s.HasEllipsis {
		if len(s.ArgMasks) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteString(")")
	return b.String()
}
