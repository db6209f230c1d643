// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// envPrefix namespaces environment overrides, e.g. FREQDETECT_LOG_LEVEL.
const envPrefix = "FREQDETECT_"

// Load builds a Config from defaults, an optional YAML file, and
// environment overrides. If path is empty, "config.yaml" in the working
// directory is used when present; a missing default file is not an
// error, but an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only.
	default:
		return nil, fmt.Errorf("config: failed to read config file %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides patches cfg from the environment. Unparseable values
// are ignored rather than fatal; the subsequent Validate call catches
// anything that matters.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(envPrefix + "WS_ADDR"); v != "" {
		c.WebSocketAddr = v
	}
	if v := os.Getenv(envPrefix + "UDP_ADDR"); v != "" {
		c.UDPAddr = v
	}
	if v := os.Getenv(envPrefix + "SAMPLE_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			c.SampleRate = rate
		}
	}
	if v := os.Getenv(envPrefix + "WINDOW_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.WindowSize = size
		}
	}
}
