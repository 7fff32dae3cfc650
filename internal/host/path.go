package host

import (
	"os"
	"path/filepath"

	"vex/internal/interp"
	"vex/internal/value"
)

// PathElement wraps a filesystem path as an object element. Filesystem
// failures come back as branchable values, never as script errors.
type PathElement struct {
	path string
}

func NewPathElement(path string) *PathElement {
	return &PathElement{path: path}
}

var (
	pathReadLinesSig = value.NewSignature("readLines", value.MaskString|value.MaskNull)
	pathWriteSig     = value.NewSignature("writeLines", value.MaskLogical|value.MaskSingleton).
				AddArg(value.MaskString, "lines")
	pathDeleteSig = value.NewSignature("delete", value.MaskLogical|value.MaskSingleton)
)

func (e *PathElement) ElementType() string        { return "Path" }
func (e *PathElement) ReadOnlyMembers() []string  { return []string{"path", "exists", "size"} }
func (e *PathElement) ReadWriteMembers() []string { return nil }

func (e *PathElement) MemberValue(name string) (value.Value, error) {
	switch name {
	case "path":
		return value.NewString(e.path), nil
	case "exists":
		_, err := os.Stat(e.path)
		return value.FromBool(err == nil), nil
	case "size":
		info, err := os.Stat(e.path)
		if err != nil {
			return value.NewInteger(-1), nil
		}
		return value.NewInteger(info.Size()), nil
	}
	return nil, value.Scriptf(-1, -1, "member '%s' is not defined for element type Path", name)
}

func (e *PathElement) SetMemberValue(name string, v value.Value) error {
	switch name {
	case "path", "exists", "size":
		return value.Scriptf(-1, -1, "member '%s' is read-only", name)
	}
	return value.Scriptf(-1, -1, "member '%s' is not defined for element type Path", name)
}

func (e *PathElement) Methods() []string {
	return []string{"readLines", "writeLines", "delete"}
}

func (e *PathElement) MethodSignature(name string) (*value.Signature, bool) {
	switch name {
	case "readLines":
		return pathReadLinesSig, true
	case "writeLines":
		return pathWriteSig, true
	case "delete":
		return pathDeleteSig, true
	}
	return nil, false
}

func (e *PathElement) resolved(hc *value.HostContext) string {
	if filepath.IsAbs(e.path) || hc.WorkDir == "" {
		return e.path
	}
	return filepath.Join(hc.WorkDir, e.path)
}

func (e *PathElement) ExecuteMethod(name string, args []value.Value, hc *value.HostContext) (value.Value, error) {
	switch name {
	case "readLines":
		data, err := os.ReadFile(e.resolved(hc))
		if err != nil {
			hc.Log.Debug("readLines failed", "path", e.path, "err", err)
			return value.NullValue, nil
		}
		return value.NewString(splitLines(string(data))...), nil
	case "writeLines":
		f, err := os.Create(e.resolved(hc))
		if err != nil {
			hc.Log.Debug("writeLines failed", "path", e.path, "err", err)
			return value.False, nil
		}
		defer f.Close()
		for _, line := range args[0].(*value.String).Values {
			if _, err := f.WriteString(line + "\n"); err != nil {
				return value.False, nil
			}
		}
		return value.True, nil
	case "delete":
		if err := os.Remove(e.resolved(hc)); err != nil {
			return value.False, nil
		}
		return value.True, nil
	}
	return nil, value.Scriptf(-1, -1, "method '%s' is not defined for element type Path", name)
}

func splitLines(s string) []string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

// fnPath is the Path() constructor.
func fnPath(ctx *interp.CallContext, args []value.Value) (value.Value, error) {
	p := args[0].(*value.String).Values[0]
	return value.NewObject("Path", NewPathElement(p)), nil
}
