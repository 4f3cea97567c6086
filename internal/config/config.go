// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Master MasterConfig `yaml:"master"`
}

type MasterConfig struct {
	Serial SerialConfig `yaml:"serial"`
	Bus    BusConfig    `yaml:"bus"`
	Poll   PollConfig   `yaml:"poll"`
	Events EventConfig  `yaml:"events"`
	Peers  []PeerConfig `yaml:"peers"`
}

// ---- SERIAL PORT ----

type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud_rate"`
}

// ---- BUS ----

type BusConfig struct {
	TimeoutMs int `yaml:"timeout_ms"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- EVENTS ----

type EventConfig struct {
	// MinIntervalMs is the minimum spacing between two surfaced
	// button events; repeats inside the window coalesce.
	MinIntervalMs int `yaml:"min_interval_ms"`
}

// ---- PEER ----

type PeerConfig struct {
	Name      string `yaml:"name"`
	Address   uint8  `yaml:"address"` // 7-bit bus address
	FrameSize int    `yaml:"frame_size"`
	Schema    string `yaml:"schema"`
}

// Load reads and decodes a YAML config file.
// It performs no validation and no defaulting.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}
