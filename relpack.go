// Package relpack sanitizes argument and environment values for release
// packaging across POSIX shells, PowerShell, and Windows native executables.
package relpack

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/jwhitt/relpack/config"
	"github.com/jwhitt/relpack/envcheck"
	"github.com/jwhitt/relpack/escape"
	"github.com/jwhitt/relpack/testhost"
)

type Config struct {
	// ConfigPath overrides the default user config file location.
	ConfigPath string

	// Target is the GOOS-style platform being packaged for. If empty, the
	// config file's target is used, falling back to the host platform.
	Target string

	// Constants overrides the config file's constant set when non-nil.
	Constants []envcheck.Constant

	// Overrides replaces the config-derived test-host overrides when non-nil.
	Overrides *testhost.Overrides

	// Logger is the structured logger. If nil, a discard logger is used.
	Logger *slog.Logger
}

// Sanitizer escapes arguments and validates environment constants for one
// release target. All methods are pure reads of the Sanitizer's state and
// safe for concurrent use.
type Sanitizer struct {
	target    string
	constants []envcheck.Constant
	overrides testhost.Overrides
	logger    *slog.Logger
}

// New builds a Sanitizer, loading file config from cfg.
func New(cfg Config) (*Sanitizer, error) {
	var fileCfg config.Config
	var err error
	if cfg.ConfigPath != "" {
		fileCfg, err = config.LoadFrom(cfg.ConfigPath)
	} else {
		fileCfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	target := cfg.Target
	if target == "" && fileCfg.Target != nil {
		target = *fileCfg.Target
	}
	if target == "" {
		target = runtime.GOOS
	}

	constants := cfg.Constants
	if constants == nil {
		constants = fileCfg.Constants
	}

	var overrides testhost.Overrides
	if fileCfg.TestHost != nil {
		overrides.Host = *fileCfg.TestHost
	}
	if fileCfg.TestGitHost != nil {
		overrides.GitHost = *fileCfg.TestGitHost
	}
	if cfg.Overrides != nil {
		overrides = *cfg.Overrides
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Sanitizer{
		target:    target,
		constants: constants,
		overrides: overrides,
		logger:    logger,
	}, nil
}

// Target returns the GOOS-style platform the sanitizer was built for.
func (s *Sanitizer) Target() string { return s.target }

// Dialect returns the argument dialect for the target's command lines.
func (s *Sanitizer) Dialect() escape.Dialect { return escape.For(s.target) }

// EscapeArgument quotes value as a single argument for the target's command
// lines.
func (s *Sanitizer) EscapeArgument(value string) string {
	return escape.Escape(value, s.Dialect())
}

// CheckConstants validates the constant set under the requested invocation
// modes. A returned error means the build must abort.
func (s *Sanitizer) CheckConstants(forSubprocess, forCompiledExecutable bool) error {
	err := envcheck.Validate(s.constants, envcheck.Options{
		ForSubprocess:         forSubprocess,
		ForCompiledExecutable: forCompiledExecutable,
		TargetOS:              s.target,
	})
	if err != nil {
		s.logger.Error("environment constant rejected", "target", s.target, "error", err)
		return err
	}
	s.logger.Info("environment constants validated", "target", s.target, "count", len(s.constants))
	return nil
}

// RewriteURL applies the test-host overrides to raw. It is a no-op unless an
// override is configured.
func (s *Sanitizer) RewriteURL(raw string) (string, error) {
	rewritten, err := s.overrides.Rewrite(raw)
	if err != nil {
		return "", err
	}
	if rewritten != raw {
		s.logger.Debug("url rewritten for test host", "from", raw, "to", rewritten)
	}
	return rewritten, nil
}
