package interp

import (
	"os"
	"path/filepath"
	"strings"

	"vex/internal/value"
)

// File-facing builtins. These are the resource boundary: failures come back
// as branchable values (NULL or F), never as script errors.
func registerFileFunctions(r *Registry) {
	r.mustRegister(value.NewSignature("readFile", value.MaskString|value.MaskNull).
		AddArg(value.MaskString|value.MaskSingleton, "filePath"), fnReadFile)
	r.mustRegister(value.NewSignature("writeFile", value.MaskLogical|value.MaskSingleton).
		AddArg(value.MaskString|value.MaskSingleton, "filePath").
		AddArg(value.MaskString, "contents").
		AddArg(value.MaskLogical|value.MaskSingleton|value.MaskOptional, "append"), fnWriteFile)
	r.mustRegister(value.NewSignature("fileExists", value.MaskLogical|value.MaskSingleton).
		AddArg(value.MaskString|value.MaskSingleton, "filePath"), fnFileExists)
	r.mustRegister(value.NewSignature("deleteFile", value.MaskLogical|value.MaskSingleton).
		AddArg(value.MaskString|value.MaskSingleton, "filePath"), fnDeleteFile)
}

// resolvePath anchors relative paths at the interpreter's working directory.
func resolvePath(ctx *CallContext, path string) string {
	if filepath.IsAbs(path) || ctx.WorkDir == "" {
		return path
	}
	return filepath.Join(ctx.WorkDir, path)
}

// fnReadFile returns the file's lines, or NULL if it cannot be read.
func fnReadFile(ctx *CallContext, args []value.Value) (value.Value, error) {
	path := resolvePath(ctx, args[0].(*value.String).Values[0])
	data, err := os.ReadFile(path)
	if err != nil {
		ctx.Log.Debug("readFile failed", "path", path, "err", err)
		return value.NullValue, nil
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	return value.NewString(lines...), nil
}

// fnWriteFile writes the lines to the file, reporting success as T or F.
func fnWriteFile(ctx *CallContext, args []value.Value) (value.Value, error) {
	path := resolvePath(ctx, args[0].(*value.String).Values[0])
	lines := args[1].(*value.String).Values
	appendMode := false
	if len(args) == 3 {
		appendMode = args[2].(*value.Logical).Values[0]
	}
	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		ctx.Log.Debug("writeFile failed", "path", path, "err", err)
		return value.False, nil
	}
	defer f.Close()
	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			ctx.Log.Debug("writeFile failed", "path", path, "err", err)
			return value.False, nil
		}
	}
	return value.True, nil
}

func fnFileExists(ctx *CallContext, args []value.Value) (value.Value, error) {
	path := resolvePath(ctx, args[0].(*value.String).Values[0])
	_, err := os.Stat(path)
	return value.FromBool(err == nil), nil
}

func fnDeleteFile(ctx *CallContext, args []value.Value) (value.Value, error) {
	path := resolvePath(ctx, args[0].(*value.String).Values[0])
	if err := os.Remove(path); err != nil {
		ctx.Log.Debug("deleteFile failed", "path", path, "err", err)
		return value.False, nil
	}
	return value.True, nil
}
