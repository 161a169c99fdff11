package config

import (
	"fmt"
	"os"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/ruminaider/bag-filter/internal/playback"
	"github.com/ruminaider/bag-filter/internal/ros2"
)

// DefaultLogLines is how many playback output lines the UI keeps.
const DefaultLogLines = 500

// Config represents ~/.bag-filter/config.yaml.
type Config struct {
	// Ros2Bin is the ros2 executable used for both introspection and playback.
	Ros2Bin string `yaml:"ros2_bin"`
	// DomainID is the ROS_DOMAIN_ID injected into playback.
	DomainID int `yaml:"domain_id"`
	// ProfilesFile is loaded on startup when set.
	ProfilesFile string `yaml:"profiles_file,omitempty"`
	// LogLines bounds the playback output buffer in the UI.
	LogLines int `yaml:"log_lines"`
}

// Default returns the built-in configuration. The domain id comes from
// ROS_DOMAIN_ID when it is set to a plain number.
func Default() Config {
	return Config{
		Ros2Bin:  ros2.DefaultTool,
		DomainID: DomainIDFromEnv(os.Getenv),
		LogLines: DefaultLogLines,
	}
}

// DomainIDFromEnv reads ROS_DOMAIN_ID through getenv. Values that are not
// all digits yield 0; values above MaxDomainID clamp to it.
func DomainIDFromEnv(getenv func(string) string) int {
	raw := getenv(ros2.DomainIDEnv)
	if raw == "" {
		return 0
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0
		}
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id > playback.MaxDomainID {
		// All digits, so the only failure is overflow.
		return playback.MaxDomainID
	}
	return id
}

// Parse parses config.yaml bytes on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Marshal serializes a Config to YAML bytes.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate checks field ranges and fills zero values that have defaults.
func (c *Config) Validate() error {
	if c.Ros2Bin == "" {
		c.Ros2Bin = ros2.DefaultTool
	}
	if c.LogLines <= 0 {
		c.LogLines = DefaultLogLines
	}
	if err := playback.ValidateDomainID(c.DomainID); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}
