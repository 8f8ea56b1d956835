// Package envcheck validates environment constants before a release build
// embeds them in artifacts or hands them to subprocesses.
package envcheck

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// Characters a Windows subprocess launcher's command-line re-assembly can
// reinterpret as variable expansion, redirection, or piping.
const windowsLaunchSpecials = "%<>|^&"

// Constant is a named string value destined for compile-time embedding or a
// subprocess environment variable.
type Constant struct {
	Name  string
	Value string
}

// Options select which invocation modes a constant set must survive. A value
// can be valid under one mode and invalid under the other. TargetOS is a
// GOOS-style name; empty means runtime.GOOS.
type Options struct {
	ForSubprocess         bool
	ForCompiledExecutable bool
	TargetOS              string
}

// ConstantError reports a constant whose value would be corrupted by the
// target platform's argument or environment handling. A ConstantError must
// abort the caller's build: a passing build with a corrupted embedded value
// is worse than a build that never starts.
type ConstantError struct {
	Name      string
	Offending string
	Reason    string
}

func (e *ConstantError) Error() string {
	return fmt.Sprintf("environment constant %s contains %q: %s", e.Name, e.Offending, e.Reason)
}

// Validate sweeps constants in declaration order and returns the first
// violation as a *ConstantError, or nil when every value is safe under opts.
func Validate(constants []Constant, opts Options) error {
	target := opts.TargetOS
	if target == "" {
		target = runtime.GOOS
	}
	for _, c := range constants {
		if err := check(c, opts, target); err != nil {
			return err
		}
	}
	return nil
}

func check(c Constant, opts Options, target string) error {
	if target == "windows" {
		if strings.Contains(c.Value, `"`) {
			return &ConstantError{
				Name:      c.Name,
				Offending: `"`,
				Reason:    "double quotes inside environment variable values are unsafe on Windows in every invocation mode",
			}
		}
		if opts.ForSubprocess {
			if i := strings.IndexAny(c.Value, windowsLaunchSpecials); i >= 0 {
				return &ConstantError{
					Name:      c.Name,
					Offending: string(c.Value[i]),
					Reason:    "the Windows subprocess launcher can reinterpret this as expansion, redirection, or piping",
				}
			}
		}
	}
	if opts.ForCompiledExecutable && strings.Contains(c.Value, ",") {
		return &ConstantError{
			Name:      c.Name,
			Offending: ",",
			Reason:    "native-executable compilation splits embedded constant definitions on commas",
		}
	}
	return nil
}

// FromMap builds a constant set from m in alphabetical name order so that
// repeated sweeps fail on the same constant.
func FromMap(m map[string]string) []Constant {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	constants := make([]Constant, 0, len(names))
	for _, name := range names {
		constants = append(constants, Constant{Name: name, Value: m[name]})
	}
	return constants
}
