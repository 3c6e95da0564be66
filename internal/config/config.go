package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Serial struct {
	Port string `yaml:"port"` // e.g. /dev/ttyACM0; empty disables the feed
	Baud int    `yaml:"baud"` // e.g. 115200
}

type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Config struct {
	Addr      string `yaml:"addr"`
	ModelsDir string `yaml:"models_dir"`
	Format    string `yaml:"format"` // "gltf" | "glb"
	Watch     bool   `yaml:"watch"`
	LogLevel  string `yaml:"log_level"`

	Serial Serial `yaml:"serial,omitempty"`
	Window Window `yaml:"window,omitempty"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Or returns v unless it is the zero value, then fallback.
func Or[T comparable](v, fallback T) T {
	var zero T
	if v != zero {
		return v
	}
	return fallback
}
