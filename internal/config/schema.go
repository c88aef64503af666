package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OptionType is the expected type of an option value.
type OptionType string

const (
	TypeString   OptionType = "string"
	TypeBool     OptionType = "bool"
	TypeInt      OptionType = "int"
	TypeFloat    OptionType = "float"
	TypeDuration OptionType = "duration"
	// TypeChoice values must be one of ConfigOption.Choices.
	TypeChoice OptionType = "choice"
)

// ConfigOption declares one option.
type ConfigOption struct {
	Key         string
	Type        OptionType
	Default     string
	Description string
	// Section is "" for global options.
	Section string
	// EnvVar, if set, overrides the file value.
	EnvVar  string
	Choices []string
}

// ConfigSchema is the set of known options. It drives validation, the
// typed getters, env overrides and `pelusa config schema`.
type ConfigSchema struct {
	options   []*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema returns an empty schema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{bySection: make(map[string]map[string]*ConfigOption)}
}

// Register adds opt; a later registration of the same key wins.
func (s *ConfigSchema) Register(opt ConfigOption) {
	ref := &opt
	s.options = append(s.options, ref)
	if s.bySection[opt.Section] == nil {
		s.bySection[opt.Section] = make(map[string]*ConfigOption)
	}
	s.bySection[opt.Section][opt.Key] = ref
}

// Lookup returns the option for key in section, or nil.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	return s.bySection[section][key]
}

// Options returns the options of one section in registration order.
func (s *ConfigSchema) Options(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns the named (non-global) sections, sorted.
func (s *ConfigSchema) Sections() []string {
	out := make([]string, 0, len(s.bySection))
	for sec := range s.bySection {
		if sec != "" {
			out = append(out, sec)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve returns the effective value of a global option: its environment
// variable if set and not empty, then the file value, then the default.
func (s *ConfigSchema) Resolve(c *Config, key string) string {
	opt := s.Lookup("", key)
	if opt != nil && opt.EnvVar != "" {
		if v := os.Getenv(opt.EnvVar); v != "" {
			return v
		}
	}
	if c != nil {
		if v, ok := c.GetGlobalOption(key); ok {
			return v
		}
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ValidateConfig lists unknown options and values of the wrong type,
// sorted. Options in a command section may also be global options.
func ValidateConfig(c *Config, s *ConfigSchema) []string {
	var issues []string
	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
			continue
		}
		if err := opt.validate(value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}
	for section, opts := range c.Commands {
		for key, value := range opts {
			opt := s.Lookup(section, key)
			if opt == nil {
				opt = s.Lookup("", key)
			}
			if opt == nil {
				issues = append(issues, fmt.Sprintf("unknown option for command %q: %q (value: %q)", section, key, value))
				continue
			}
			if err := opt.validate(value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}
	sort.Strings(issues)
	return issues
}

func (o *ConfigOption) validate(value string) error {
	switch o.Type {
	case TypeString, "":
		return nil
	case TypeBool:
		if _, err := parseBool(value); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
	case TypeFloat:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("expected number, got %q", value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("expected duration, got %q", value)
		}
	case TypeChoice:
		for _, c := range o.Choices {
			if value == c {
				return nil
			}
		}
		return fmt.Errorf("expected one of %s, got %q", strings.Join(o.Choices, ", "), value)
	default:
		return fmt.Errorf("unknown option type %q", o.Type)
	}
	return nil
}

// FormatHelp renders the schema as a reference, global options first.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder
	if opts := s.Options(""); len(opts) > 0 {
		b.WriteString("Global Options:\n")
		for _, o := range opts {
			writeOptionHelp(&b, o)
		}
	}
	for _, sec := range s.Sections() {
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range s.Options(sec) {
			writeOptionHelp(&b, o)
		}
	}
	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-24s %s", o.Key, o.Description)
	var parts []string
	if o.Type != "" && o.Type != TypeString {
		parts = append(parts, "type: "+string(o.Type))
	}
	if len(o.Choices) > 0 {
		parts = append(parts, "one of: "+strings.Join(o.Choices, "|"))
	}
	if o.Default != "" {
		parts = append(parts, "default: "+o.Default)
	}
	if o.EnvVar != "" {
		parts = append(parts, "env: "+o.EnvVar)
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// DefaultSchema declares every option pelusa understands.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	for _, o := range []ConfigOption{
		{Key: "cart.key", Default: "pelusaCart", Description: "Key the cart is stored under in every store"},
		{Key: "cart.local-backend", Type: TypeChoice, Choices: []string{"fs", "sqlite", "memory"}, Default: "fs", Description: "Backend of the user-wide cart store", EnvVar: "PELUSA_CART_BACKEND"},
		{Key: "cart.watch-interval", Type: TypeDuration, Default: "1s", Description: "How often the shop checks for carts saved by other terminals"},
		{Key: "session.id", Description: "Override the terminal session ID", EnvVar: "PELUSA_SESSION_ID"},
		{Key: "pricing.formula", Default: "basePrice * sizeMultiplier + paperExtra", Description: "Price formula (expr syntax)"},
		{Key: "pricing.shipping", Type: TypeFloat, Default: "5.00", Description: "Flat shipping charge"},
		{Key: "pricing.locale", Default: "es", Description: "Locale used to format prices"},
		{Key: "catalog.file", Description: "Product catalog JSON file; empty uses the built-in catalog"},
		{Key: "log.file", Description: "Log file path (JSON output)", EnvVar: "PELUSA_LOG_FILE"},
		{Key: "log.level", Type: TypeChoice, Choices: []string{"debug", "info", "warn", "error"}, Default: "info", Description: "Log level", EnvVar: "PELUSA_LOG_LEVEL"},
		{Key: "log.max-size-mb", Type: TypeInt, Default: "10", Description: "Max log file size in MB before rotation"},
		{Key: "log.max-files", Type: TypeInt, Default: "5", Description: "Max number of rotated log files"},

		{Key: "format", Section: "cart", Type: TypeChoice, Choices: []string{"text", "json"}, Default: "text", Description: "Output format of cart listings"},
		{Key: "format", Section: "catalog", Type: TypeChoice, Choices: []string{"text", "json"}, Default: "text", Description: "Output format of the catalog"},

		{Key: "maxAgeDays", Section: "sessions", Type: TypeInt, Default: "30", Description: "Remove idle session carts older than this many days"},
		{Key: "maxCount", Section: "sessions", Type: TypeInt, Default: "50", Description: "Keep at most this many idle session carts"},
		{Key: "maxSizeMB", Section: "sessions", Type: TypeInt, Default: "20", Description: "Keep idle session carts under this total size"},
		{Key: "autoCleanupEnabled", Section: "sessions", Type: TypeBool, Default: "true", Description: "Clean up session carts in the background while the shop runs"},
		{Key: "cleanupIntervalHours", Section: "sessions", Type: TypeInt, Default: "24", Description: "Hours between background cleanups"},
	} {
		s.Register(o)
	}
	return s
}
