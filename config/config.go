// Package config loads relpack settings from file and environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/jwhitt/relpack/envcheck"
	"github.com/jwhitt/relpack/testhost"
)

const (
	configFileName = "config.yaml"
	configDirName  = "relpack"
)

var constantNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// constantSet preserves the YAML document order of the constants mapping.
// The validator sweeps constants in declaration order, so decoding into a Go
// map would make failures nondeterministic.
type constantSet []envcheck.Constant

func (s *constantSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("constants must be a mapping of name to value")
	}
	out := make(constantSet, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		val := value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("constant %s must have a scalar value", key.Value)
		}
		out = append(out, envcheck.Constant{Name: key.Value, Value: val.Value})
	}
	*s = out
	return nil
}

// Config for relpack. Pointer fields; nil = unset.
type Config struct {
	Target      *string     `yaml:"target"`
	Constants   constantSet `yaml:"constants"`
	TestHost    *string     `yaml:"test_host"`
	TestGitHost *string     `yaml:"test_git_host"`
}

// LoadFrom loads config from path. Missing files return zero Config, nil.
func LoadFrom(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Load() (Config, error) {
	return LoadFrom(defaultConfigPath())
}

func (c *Config) applyEnvOverrides() {
	if v, ok := os.LookupEnv("RELPACK_TARGET"); ok {
		c.Target = &v
	}
	if v, ok := os.LookupEnv(testhost.EnvHost); ok {
		c.TestHost = &v
	}
	if v, ok := os.LookupEnv(testhost.EnvGitHost); ok {
		c.TestGitHost = &v
	}
}

func (c *Config) validate() error {
	if c.Target != nil {
		switch *c.Target {
		case "windows", "linux", "darwin":
		default:
			return fmt.Errorf("target must be windows, linux, or darwin, got %q", *c.Target)
		}
	}
	for _, constant := range c.Constants {
		if !constantNamePattern.MatchString(constant.Name) {
			return fmt.Errorf("constant name %q is not a valid environment variable name", constant.Name)
		}
	}
	return nil
}

func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName, configFileName)
}
