package paths

import (
	"os"
	"path/filepath"
)

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// ConfigDir returns ~/.bag-filter, or $BAG_FILTER_HOME when set.
func ConfigDir() string {
	if dir := os.Getenv("BAG_FILTER_HOME"); dir != "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(home(), ".bag-filter")
}

// ConfigFile returns ~/.bag-filter/config.yaml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DebugLogFile returns ~/.bag-filter/debug.log.
func DebugLogFile() string {
	return filepath.Join(ConfigDir(), "debug.log")
}

// ExampleProfilesFile returns the default save location for example profiles.
func ExampleProfilesFile() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = home()
	}
	return filepath.Join(wd, "example_profiles.yaml")
}

// Expand resolves a leading ~ and makes p absolute.
func Expand(p string) string {
	if p == "" {
		return ""
	}
	if p == "~" {
		return home()
	}
	if len(p) > 1 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator) {
		p = filepath.Join(home(), p[2:])
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
