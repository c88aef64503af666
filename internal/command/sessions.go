package command

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joeycumines/pelusa-cart/internal/config"
	"github.com/joeycumines/pelusa-cart/internal/session"
	"github.com/joeycumines/pelusa-cart/internal/storage"
)

// SessionsCommand inspects and cleans up per-terminal session carts.
type SessionsCommand struct {
	*BaseCommand
	config  *config.Config
	session string
	stdin   io.Reader
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(cfg *config.Config) *SessionsCommand {
	return &SessionsCommand{
		BaseCommand: NewBaseCommand("sessions", "Manage per-terminal session carts", "sessions [options] [list|clean|purge|id]"),
		config:      cfg,
		stdin:       os.Stdin,
	}
}

// SetupFlags configures the flags for the sessions command.
func (c *SessionsCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.session, "session", "", "Session ID of this terminal (overrides auto-discovery)")
}

// Execute runs a sessions subcommand; the default is list.
func (c *SessionsCommand) Execute(args []string, stdout, stderr io.Writer) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = strings.ToLower(args[0]), args[1:]
	}
	switch sub {
	case "list":
		return helpOK(c.list(args, stdout, stderr))
	case "clean":
		return helpOK(c.clean(args, false, stdout, stderr))
	case "purge":
		return helpOK(c.clean(args, true, stdout, stderr))
	case "id":
		if len(args) > 0 {
			return fmt.Errorf("unexpected arguments: %v", args)
		}
		id, source, err := c.currentID()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "%s\t(%s)\n", id, source)
		return nil
	default:
		_, _ = fmt.Fprintf(stderr, "Usage: pelusa %s\n", c.Usage())
		return fmt.Errorf("unknown sessions subcommand: %s", sub)
	}
}

func (c *SessionsCommand) currentID() (id, source string, err error) {
	explicit := c.session
	if explicit == "" {
		explicit = config.DefaultSchema().Resolve(c.config, "session.id")
	}
	return session.GetSessionID(explicit)
}

func (c *SessionsCommand) list(args []string, stdout, stderr io.Writer) error {
	fs := subcommand("sessions", "list", "Show every session cart on disk, oldest first.", stderr)
	format := fs.String("format", "text", "Output format: text|json")
	if err := parseSubcommand(fs, args); err != nil {
		return err
	}
	sessions, err := storage.ScanSessions()
	if err != nil {
		return fmt.Errorf("failed to scan sessions: %w", err)
	}

	switch *format {
	case "json":
		return writeJSON(stdout, sessions)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(stdout, "No sessions.")
		return nil
	}
	current, _, _ := c.currentID()
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSIZE\tUPDATED\tSTATE")
	for _, s := range sessions {
		state := "idle"
		if s.Active {
			state = "active"
		}
		if s.ID == current {
			state += " (this terminal)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.ID, s.Size, s.UpdatedAt.Local().Format(time.DateTime), state)
	}
	return w.Flush()
}

func (c *SessionsCommand) clean(args []string, purge bool, stdout, stderr io.Writer) error {
	name, summary, prompt := "clean", "Remove idle session carts according to the [sessions] policy.",
		"This will permanently remove session carts according to your configured policies. Proceed? (y/N): "
	if purge {
		name, summary, prompt = "purge", "Remove every idle session cart, ignoring the policy.",
			"This will permanently purge all idle session carts. Proceed? (y/N): "
	}
	fs := subcommand("sessions", name, summary, stderr)
	dryRun := fs.Bool("dry-run", false, "Show what would be removed without removing it")
	yes := fs.Bool("y", false, "Assume yes to the confirmation prompt")
	if err := parseSubcommand(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if !*dryRun && !*yes {
		_, _ = fmt.Fprint(stdout, prompt)
		answer, err := bufio.NewReader(c.stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer = strings.TrimSpace(answer)
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			_, _ = fmt.Fprintln(stdout, "aborted")
			return nil
		}
	}

	current, _, err := c.currentID()
	if err != nil {
		return err
	}
	cleaner := cleanerFor(c.config)
	cleaner.DryRun = *dryRun
	cleaner.Purge = purge
	report, err := cleaner.ExecuteCleanup(current)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	verb := "Removed"
	if *dryRun {
		verb = "Would remove"
	}
	for _, id := range report.Removed {
		_, _ = fmt.Fprintf(stdout, "%s %s\n", verb, id)
	}
	_, _ = fmt.Fprintf(stdout, "%s %d session(s), kept %d\n", verb, len(report.Removed), len(report.Skipped))
	return nil
}
