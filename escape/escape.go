// Package escape quotes argument values for the shells and argument parsers
// a release build hands command lines to.
package escape

import (
	"fmt"
	"strings"
)

// Dialect selects which argument-quoting rules apply. PowerShell composes
// WindowsCRuntime as a sub-step; the dialects are otherwise independent.
type Dialect int

const (
	// PosixShell produces a single word for a POSIX-compliant shell.
	PosixShell Dialect = iota
	// WindowsCRuntime produces a token for the argv splitter Windows native
	// executables conventionally use.
	WindowsCRuntime
	// PowerShell produces a token for a PowerShell command line that itself
	// invokes a native executable.
	PowerShell
)

func (d Dialect) String() string {
	switch d {
	case PosixShell:
		return "posix"
	case WindowsCRuntime:
		return "windows"
	case PowerShell:
		return "powershell"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect maps a CLI or config name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch name {
	case "posix":
		return PosixShell, nil
	case "windows":
		return WindowsCRuntime, nil
	case "powershell":
		return PowerShell, nil
	default:
		return 0, fmt.Errorf("unknown dialect %q (want posix, windows, or powershell)", name)
	}
}

// For returns the dialect used for command lines on a GOOS-style target.
func For(targetOS string) Dialect {
	if targetOS == "windows" {
		return PowerShell
	}
	return PosixShell
}

// Escape returns value quoted as a single argument under dialect d. It is
// total: every input, including the empty string, has a defined output.
// Escaping is not idempotent; do not re-escape an already escaped value.
func Escape(value string, d Dialect) string {
	switch d {
	case PosixShell:
		return posixShell(value)
	case WindowsCRuntime:
		return windowsCRuntime(value)
	case PowerShell:
		return powerShell(value)
	default:
		panic(fmt.Sprintf("escape: unknown dialect %d", int(d)))
	}
}

// appendEscaped copies value into b, handing each code unit listed in
// special to esc and copying ordinary runs verbatim.
func appendEscaped(b *strings.Builder, value, special string, esc func(b *strings.Builder, c byte)) {
	start := 0
	for i := 0; i < len(value); i++ {
		if strings.IndexByte(special, value[i]) < 0 {
			continue
		}
		b.WriteString(value[start:i])
		esc(b, value[i])
		start = i + 1
	}
	b.WriteString(value[start:])
}

// posixShell wraps value in single quotes. A literal single quote ends the
// quoted section, emits an escaped quote, and resumes quoting, so ' becomes
// '\''. Nothing else is special inside single quotes. NUL bytes are assumed
// absent.
func posixShell(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('\'')
	appendEscaped(&b, value, `'`, func(b *strings.Builder, _ byte) {
		b.WriteString(`'\''`)
	})
	b.WriteByte('\'')
	return b.String()
}

// windowsCRuntime produces a token the Microsoft C-runtime argv splitter
// parses back to value. A double quote is doubled (the parser reads "" in a
// quoted section as one literal quote without toggling quote state). A
// percent drops out of the quoted section for that one character, so
// launchers that %-expand inside quotes see it bare and leave it alone.
//
// This is narrower than the canonical Microsoft algorithm on purpose: there
// is no backslash-run counting before quotes. The launchers this output is
// built for use plain quote doubling, and changing the rule would change
// behavior for existing call sites. A backslash immediately before a double
// quote is an untested edge case under this rule set.
func windowsCRuntime(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('"')
	appendEscaped(&b, value, `"%`, func(b *strings.Builder, c byte) {
		switch c {
		case '"':
			b.WriteString(`""`)
		case '%':
			b.WriteString(`"%"`)
		}
	})
	out := b.String()
	// A token already ending in a quote (a trailing percent's re-opening
	// quote, or a doubled literal quote) needs no terminal quote: the
	// argument ends with the string.
	if len(out) == 1 || out[len(out)-1] != '"' {
		out += `"`
	}
	return out
}

// powerShell escapes for the C-runtime parser first, because the called
// native executable re-parses its arguments with that algorithm no matter
// what PowerShell does, then wraps the result in PowerShell single quotes
// with embedded single quotes doubled. The two layers must stay in this
// order; swapping them yields a token only one of the two parsers accepts.
func powerShell(value string) string {
	inner := windowsCRuntime(value)
	var b strings.Builder
	b.Grow(len(inner) + 2)
	b.WriteByte('\'')
	appendEscaped(&b, inner, `'`, func(b *strings.Builder, _ byte) {
		b.WriteString(`''`)
	})
	b.WriteByte('\'')
	return b.String()
}
