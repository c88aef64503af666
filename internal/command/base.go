// Package command implements the pelusa command line: one Command per
// top-level verb, each parsing its own flag.FlagSet.
package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// Command is a top-level pelusa command.
type Command interface {
	Name() string
	// Description is the one-line summary shown by help.
	Description() string
	Usage() string

	// SetupFlags registers the command's flags on fs before parsing.
	SetupFlags(fs *flag.FlagSet)

	// Execute runs the command with the arguments left after flag parsing.
	Execute(args []string, stdout, stderr io.Writer) error
}

// BaseCommand implements the descriptive half of Command.
type BaseCommand struct {
	name        string
	description string
	usage       string
}

// NewBaseCommand creates a new BaseCommand.
func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{name: name, description: description, usage: usage}
}

func (c *BaseCommand) Name() string        { return c.name }
func (c *BaseCommand) Description() string { return c.description }
func (c *BaseCommand) Usage() string       { return c.usage }

// SetupFlags registers nothing.
func (c *BaseCommand) SetupFlags(fs *flag.FlagSet) {}

// errHelpShown is returned by parseSubcommand when -h was given; callers
// treat it as success.
var errHelpShown = errors.New("help shown")

// subcommand builds the FlagSet of a subcommand such as `cart add`. The
// usage text and flag defaults go to stderr only when asked for with -h.
func subcommand(parent, name, summary string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(parent+" "+name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: %s %s\n\n%s\n", parent, name, summary)
		var hasFlags bool
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			_, _ = fmt.Fprintln(stderr, "\nOptions:")
			fs.SetOutput(stderr)
			fs.PrintDefaults()
			fs.SetOutput(io.Discard)
		}
	}
	return fs
}

// parseSubcommand parses args with fs, mapping -h to errHelpShown.
func parseSubcommand(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelpShown
		}
		return err
	}
	return nil
}

// helpOK maps errHelpShown to nil.
func helpOK(err error) error {
	if errors.Is(err, errHelpShown) {
		return nil
	}
	return err
}
