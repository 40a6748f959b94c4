// Package config loads the pool-size configuration a pool.Allocator is
// initialised with from a YAML file, as an alternative to passing sizes
// programmatically or via the CLI's comma-separated -sizes flag.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PoolConfig is the on-disk shape of a pool-size configuration file:
//
//	pools:
//	  - 16
//	  - 64
//	  - 256
//	  - 4096
type PoolConfig struct {
	Pools []int `yaml:"pools"`
}

// Load reads and parses a PoolConfig from path.
func Load(path string) (PoolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PoolConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg PoolConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return PoolConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(cfg.Pools) == 0 {
		return PoolConfig{}, fmt.Errorf("config: %s declares no pools", path)
	}
	return cfg, nil
}
