package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  Server  `yaml:"server" json:"server"`
	Storage Storage `yaml:"storage" json:"storage"`
	Tasks   Tasks   `yaml:"tasks" json:"tasks"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Storage struct {
	// Backend: "memory" | "file" | "sqlite"
	Backend string `yaml:"backend" json:"backend"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
	DBPath  string `yaml:"db_path" json:"db_path"`
}

type Tasks struct {
	// PriorityLevels sets the display order used when grouping the list
	// view by priority.
	PriorityLevels []string `yaml:"priority_levels" json:"priority_levels"`
}

func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Storage: Storage{
			Backend: "file",
			DataDir: "data",
			DBPath:  "data/tasks.db",
		},
		Tasks: Tasks{
			PriorityLevels: []string{"Low", "Moderate", "High", "Critical"},
		},
	}
}

// Load reads the YAML config at path, falling back to defaults when the
// file does not exist. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "", "memory", "file", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if len(c.Tasks.PriorityLevels) == 0 {
		c.Tasks.PriorityLevels = Default().Tasks.PriorityLevels
	}
	return nil
}
