// Package host wires host-defined object element classes into a registry:
// Path for filesystem access and Database for database/sql connections.
package host

import (
	"vex/internal/interp"
	"vex/internal/value"
)

// Register adds the host element constructors and their member and method
// names. Call it once, before the first script runs.
func Register(reg *interp.Registry) error {
	if err := reg.RegisterFunction(
		value.NewSignature("Path", value.MaskObject|value.MaskSingleton).
			AddArg(value.MaskString|value.MaskSingleton, "path"),
		fnPath); err != nil {
		return err
	}
	if err := reg.RegisterFunction(
		value.NewSignature("Database", value.MaskObject|value.MaskNull|value.MaskSingleton).
			AddArg(value.MaskString|value.MaskSingleton, "driver").
			AddArg(value.MaskString|value.MaskSingleton, "dsn"),
		fnDatabase); err != nil {
		return err
	}
	reg.RegisterMemberNames(
		"path", "exists", "size", "readLines", "writeLines", "delete",
		"driver", "dsn", "open", "execute", "query", "close",
	)
	return nil
}
