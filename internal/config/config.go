// Package config reads pelusa's configuration file.
//
// The file is line based, dnsmasq style: each line is an option name, a
// space, and the rest of the line as its value. Lines starting with # are
// comments. A [name] header starts a section; options before the first
// header are global. The [sessions] section configures session cleanup.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config is a parsed configuration file.
type Config struct {
	Global   map[string]string
	Commands map[string]map[string]string
	Sessions SessionConfig
	// Warnings are non-fatal problems found while loading. They are logged
	// once the command's logger is configured.
	Warnings []string
}

// SessionConfig is the retention policy for per-session carts.
type SessionConfig struct {
	MaxAgeDays           int  `json:"maxAgeDays"`
	MaxCount             int  `json:"maxCount"`
	MaxSizeMB            int  `json:"maxSizeMb"`
	AutoCleanupEnabled   bool `json:"autoCleanupEnabled"`
	CleanupIntervalHours int  `json:"cleanupIntervalHours"`
}

// NewConfig returns an empty configuration with default session policy.
func NewConfig() *Config {
	return &Config{
		Global:   make(map[string]string),
		Commands: make(map[string]map[string]string),
		Sessions: SessionConfig{
			MaxAgeDays:           30,
			MaxCount:             50,
			MaxSizeMB:            20,
			AutoCleanupEnabled:   true,
			CleanupIntervalHours: 24,
		},
		Warnings: make([]string, 0),
	}
}

// Load reads the file at GetConfigPath.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the file at path. A missing file yields the defaults.
// Symlinks are refused.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in config path: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader parses configuration text. Unknown or mistyped options
// become warnings; a bad [sessions] value is an error.
func LoadFromReader(r io.Reader) (*Config, error) {
	c := NewConfig()
	section := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(strings.Trim(line, "[]"))
			if section != "sessions" && c.Commands[section] == nil {
				c.Commands[section] = make(map[string]string)
			}
			continue
		}

		name, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)

		switch section {
		case "":
			c.Global[name] = value
		case "sessions":
			if err := c.Sessions.set(name, value); err != nil {
				return nil, fmt.Errorf("line %d: invalid session option %q: %w", lineNo, name, err)
			}
		default:
			c.Commands[section][name] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	for _, issue := range ValidateConfig(c, DefaultSchema()) {
		c.addWarning("%s", issue)
	}
	return c, nil
}

func (c *Config) addWarning(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func (sc *SessionConfig) set(name, value string) error {
	nonNegative := func(dst *int, min int) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q: %w", value, err)
		}
		if n < min {
			return fmt.Errorf("%s must be at least %d: %d", name, min, n)
		}
		*dst = n
		return nil
	}
	switch name {
	case "maxAgeDays":
		return nonNegative(&sc.MaxAgeDays, 0)
	case "maxCount":
		return nonNegative(&sc.MaxCount, 0)
	case "maxSizeMB":
		return nonNegative(&sc.MaxSizeMB, 0)
	case "cleanupIntervalHours":
		return nonNegative(&sc.CleanupIntervalHours, 1)
	case "autoCleanupEnabled":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		sc.AutoCleanupEnabled = b
		return nil
	default:
		return fmt.Errorf("unknown session option: %s", name)
	}
}

// parseBool accepts true/false, 1/0, yes/no and on/off, in any case.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %s", s)
	}
}

// GetGlobalOption returns a global option and whether it was set.
func (c *Config) GetGlobalOption(name string) (string, bool) {
	v, ok := c.Global[name]
	return v, ok
}

// GetCommandOption returns an option from a command's section, falling
// back to the global value.
func (c *Config) GetCommandOption(command, name string) (string, bool) {
	if v, ok := c.Commands[command][name]; ok {
		return v, true
	}
	return c.GetGlobalOption(name)
}

// SetGlobalOption sets a global option in memory.
func (c *Config) SetGlobalOption(name, value string) { c.Global[name] = value }

// SetCommandOption sets an option in a command's section in memory.
func (c *Config) SetCommandOption(command, name, value string) {
	if c.Commands[command] == nil {
		c.Commands[command] = make(map[string]string)
	}
	c.Commands[command][name] = value
}

// HasWarnings reports whether loading produced warnings.
func (c *Config) HasWarnings() bool { return len(c.Warnings) > 0 }
