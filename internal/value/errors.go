package value

import "fmt"

// ScriptError reports a failure of the script being run. Pos and End are
// source offsets; -1 means the raiser had no position and a caller higher up
// should fill one in.
type ScriptError struct {
	Msg string
	Pos int
	End int
}

func (e *ScriptError) Error() string {
	return e.Msg
}

func Scriptf(pos, end int, format string, args ...any) *ScriptError {
	return &ScriptError{Msg: fmt.Sprintf(format, args...), Pos: pos, End: end}
}

// InternalError reports a broken contract between the runtime and its host or
// within the runtime itself. Scripts cannot cause these.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return e.Msg
}

func Internalf(format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}
