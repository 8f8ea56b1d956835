package escape

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// VerifyPosix escapes value for PosixShell and feeds the result back through
// a real shell field parser, confirming the round trip reproduces value
// exactly. Escaping itself never fails; this is a self check for callers
// that want proof before embedding a value in a generated script.
func VerifyPosix(value string) error {
	if strings.IndexByte(value, 0) >= 0 {
		return fmt.Errorf("value contains a NUL byte, which cannot survive a shell command line")
	}
	quoted := Escape(value, PosixShell)
	fields, err := shell.Fields(quoted, func(string) string { return "" })
	if err != nil {
		return fmt.Errorf("parse escaped value: %w", err)
	}
	if len(fields) != 1 {
		return fmt.Errorf("escaped value split into %d shell words, want 1", len(fields))
	}
	if fields[0] != value {
		return fmt.Errorf("round trip produced %q, want %q", fields[0], value)
	}
	return nil
}
