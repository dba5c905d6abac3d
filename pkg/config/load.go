package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a jail definition file and decodes it into a Config. It
// populates every scalar field and the cgroup controller parameters;
// Mounts and Mode are never read from disk here, the caller builds
// those directly.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return &c, nil
}
