package command

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/joeycumines/pelusa-cart/internal/config"
)

// HelpCommand lists the commands, or describes one.
type HelpCommand struct {
	*BaseCommand
	registry *Registry
}

// NewHelpCommand creates a new help command.
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		BaseCommand: NewBaseCommand("help", "Display help information for commands", "help [command]"),
		registry:    registry,
	}
}

// Execute displays help information.
func (c *HelpCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, "pelusa - a print shop in your terminal, with a cart that follows you")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Usage: pelusa <command> [options] [args...]")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Commands:")
		w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
		for _, name := range c.registry.List() {
			if cmd, err := c.registry.Get(name); err == nil {
				_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, cmd.Description())
			}
		}
		_ = w.Flush()
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Use 'pelusa help <command>' for more information about a command.")
		return nil
	}

	cmd, err := c.registry.Get(args[0])
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Command: %s\n", cmd.Name())
	_, _ = fmt.Fprintf(stdout, "Description: %s\n", cmd.Description())
	_, _ = fmt.Fprintf(stdout, "Usage: pelusa %s\n", cmd.Usage())

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	cmd.SetupFlags(fs)
	fs.PrintDefaults()
	if buf.Len() > 0 {
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Flags:")
		_, _ = fmt.Fprint(stdout, buf.String())
	}
	return nil
}

// VersionCommand prints the version.
type VersionCommand struct {
	*BaseCommand
	version string
}

// NewVersionCommand creates a new version command.
func NewVersionCommand(version string) *VersionCommand {
	return &VersionCommand{
		BaseCommand: NewBaseCommand("version", "Display version information", "version"),
		version:     version,
	}
}

// Execute displays version information.
func (c *VersionCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	_, _ = fmt.Fprintf(stdout, "pelusa version %s\n", c.version)
	return nil
}

// ConfigCommand shows, validates and edits the configuration file.
type ConfigCommand struct {
	*BaseCommand
	config     *config.Config
	configPath string
	showAll    bool
}

// NewConfigCommand creates a new config command. Values set with it are
// written to configPath; an empty path resolves the default location when
// needed.
func NewConfigCommand(cfg *config.Config, configPath string) *ConfigCommand {
	return &ConfigCommand{
		BaseCommand: NewBaseCommand("config", "Manage configuration settings", "config [options] [validate|schema|<key> [value]]"),
		config:      cfg,
		configPath:  configPath,
	}
}

// SetupFlags configures the flags for the config command.
func (c *ConfigCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.showAll, "all", false, "Show every effective option, including defaults")
}

// Execute manages configuration.
func (c *ConfigCommand) Execute(args []string, stdout, stderr io.Writer) error {
	schema := config.DefaultSchema()
	if len(args) == 0 {
		if c.showAll {
			c.printEffective(stdout, schema)
			return nil
		}
		_, _ = fmt.Fprintln(stdout, "Configuration management:")
		_, _ = fmt.Fprintln(stdout, "  config <key>          - Get the effective value of an option")
		_, _ = fmt.Fprintln(stdout, "  config <key> <value>  - Set an option in the config file")
		_, _ = fmt.Fprintln(stdout, "  config -all           - Show every effective option")
		_, _ = fmt.Fprintln(stdout, "  config validate       - Validate the config file")
		_, _ = fmt.Fprintln(stdout, "  config schema         - Describe every option")
		return nil
	}

	switch args[0] {
	case "validate":
		return c.executeValidate(stdout, schema)
	case "schema":
		_, _ = fmt.Fprint(stdout, schema.FormatHelp())
		return nil
	}

	key := args[0]
	switch len(args) {
	case 1:
		if schema.Lookup("", key) == nil {
			if _, ok := c.config.GetGlobalOption(key); !ok {
				_, _ = fmt.Fprintf(stdout, "Configuration key '%s' not found\n", key)
				return nil
			}
		}
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", key, schema.Resolve(c.config, key))
		return nil
	case 2:
		return c.executeSet(key, args[1], stdout, stderr, schema)
	}
	_, _ = fmt.Fprintln(stderr, "Invalid number of arguments")
	return fmt.Errorf("invalid arguments")
}

func (c *ConfigCommand) executeSet(key, value string, stdout, stderr io.Writer, schema *config.ConfigSchema) error {
	candidate := config.NewConfig()
	candidate.SetGlobalOption(key, value)
	if issues := config.ValidateConfig(candidate, schema); len(issues) > 0 {
		return fmt.Errorf("refusing to set %s: %s", key, issues[0])
	}

	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}
	if err := config.SetKeyInFile(path, key, value); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.config.SetGlobalOption(key, value)
	_, _ = fmt.Fprintf(stdout, "Set configuration: %s = %s\n", key, value)
	if opt := schema.Lookup("", key); opt != nil && opt.EnvVar != "" {
		if os.Getenv(opt.EnvVar) != "" {
			_, _ = fmt.Fprintf(stderr, "Note: %s is set and takes precedence\n", opt.EnvVar)
		}
	}
	return nil
}

func (c *ConfigCommand) printEffective(stdout io.Writer, schema *config.ConfigSchema) {
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	for _, opt := range schema.Options("") {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", opt.Key, schema.Resolve(c.config, opt.Key))
	}
	sections := make([]string, 0, len(c.config.Commands))
	for name := range c.config.Commands {
		sections = append(sections, name)
	}
	sort.Strings(sections)
	for _, name := range sections {
		keys := make([]string, 0, len(c.config.Commands[name]))
		for k := range c.config.Commands[name] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "[%s] %s\t%s\n", name, k, c.config.Commands[name][k])
		}
	}
	s := c.config.Sessions
	_, _ = fmt.Fprintf(w, "[sessions] maxAgeDays\t%d\n", s.MaxAgeDays)
	_, _ = fmt.Fprintf(w, "[sessions] maxCount\t%d\n", s.MaxCount)
	_, _ = fmt.Fprintf(w, "[sessions] maxSizeMB\t%d\n", s.MaxSizeMB)
	_, _ = fmt.Fprintf(w, "[sessions] autoCleanupEnabled\t%t\n", s.AutoCleanupEnabled)
	_, _ = fmt.Fprintf(w, "[sessions] cleanupIntervalHours\t%d\n", s.CleanupIntervalHours)
	_ = w.Flush()
}

func (c *ConfigCommand) executeValidate(stdout io.Writer, schema *config.ConfigSchema) error {
	issues := config.ValidateConfig(c.config, schema)
	if _, err := config.Resolve(c.config); err != nil {
		issues = append(issues, err.Error())
	}
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(stdout, "Configuration is valid.")
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "Configuration has %d issue(s):\n", len(issues))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(stdout, "  - %s\n", issue)
	}
	return fmt.Errorf("invalid configuration")
}

// InitCommand writes a starter configuration file.
type InitCommand struct {
	*BaseCommand
	force bool
}

// NewInitCommand creates a new init command.
func NewInitCommand() *InitCommand {
	return &InitCommand{
		BaseCommand: NewBaseCommand("init", "Create a starter configuration file", "init [options]"),
	}
}

// SetupFlags configures the flags for the init command.
func (c *InitCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "Overwrite an existing configuration")
}

const defaultConfig = `# pelusa configuration file
# Format: optionName remainingLineIsTheValue
# Run 'pelusa config schema' for every option.

# Where the user-wide cart lives: fs, sqlite or memory.
cart.local-backend fs
# cart.key pelusaCart
# cart.watch-interval 1s

# Prices are basePrice * sizeMultiplier + paperExtra unless overridden.
# pricing.formula basePrice * sizeMultiplier + paperExtra
pricing.shipping 5.00
pricing.locale es
# catalog.file /path/to/catalog.json

log.level info
# log.file /path/to/pelusa.log

[cart]
format text

[sessions]
maxAgeDays 30
maxCount 50
autoCleanupEnabled true
`

// Execute writes the configuration file.
func (c *InitCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if _, err := os.Stat(configPath); err == nil && !c.force {
		_, _ = fmt.Fprintf(stdout, "Configuration already exists at: %s\n", configPath)
		_, _ = fmt.Fprintln(stdout, "Use -force to overwrite existing configuration")
		return nil
	}
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		return fmt.Errorf("created config does not load: %w", err)
	}
	if cfg.HasWarnings() {
		for _, w := range cfg.Warnings {
			_, _ = fmt.Fprintf(stderr, "Warning: %s\n", w)
		}
	}
	_, _ = fmt.Fprintf(stdout, "Initialized pelusa configuration at: %s\n", configPath)
	return nil
}
