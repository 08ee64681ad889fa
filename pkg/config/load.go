package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/uiverify/pkg/verify"
)

// LoadFile reads a YAML configuration file on top of DefaultConfig.
// Settings the file leaves out keep their defaults. A file without scenario
// steps runs the built-in scenario.
//
// ${VAR} references in scenario URLs, labels, names, values and paths are
// expanded from the environment; an unset variable is an error. $$ is a
// literal $.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Scenario.Name == "" {
		cfg.Scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg, nil
}

// Parse decodes YAML configuration on top of DefaultConfig.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Scenario = verify.Scenario{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if len(cfg.Scenario.Steps) == 0 {
		// Keep any base_url/timeouts the file set for the built-in steps
		builtin := verify.DefaultScenario()
		builtin.ActionTimeout = pick(cfg.Scenario.ActionTimeout, builtin.ActionTimeout)
		builtin.WaitTimeout = pick(cfg.Scenario.WaitTimeout, builtin.WaitTimeout)
		if cfg.Scenario.BaseURL != "" {
			builtin = builtin.WithBaseURL(cfg.Scenario.BaseURL)
		}
		cfg.Scenario = builtin
	}

	if err := expandScenario(&cfg.Scenario); err != nil {
		return nil, err
	}
	return cfg, nil
}

func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// expandScenario substitutes environment variables in place.
func expandScenario(sc *verify.Scenario) error {
	missing := map[string]bool{}
	expand := func(s string) string {
		return os.Expand(s, func(key string) string {
			if key == "$" {
				return "$"
			}
			v, ok := os.LookupEnv(key)
			if !ok {
				missing[key] = true
			}
			return v
		})
	}

	sc.BaseURL = expand(sc.BaseURL)
	for i := range sc.Steps {
		st := &sc.Steps[i]
		st.URL = expand(st.URL)
		st.Label = expand(st.Label)
		st.Value = expand(st.Value)
		st.Name = expand(st.Name)
		st.Path = expand(st.Path)
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("undefined environment variables: %s (write $$ for a literal $)", strings.Join(names, ", "))
	}
	return nil
}
