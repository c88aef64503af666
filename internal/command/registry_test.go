package command

import (
	"bytes"
	"flag"
	"io"
	"slices"
	"strings"
	"testing"
)

func newTestFlagSet(cmd Command) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetupFlags(fs)
	return fs
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if got := r.List(); len(got) != 0 {
		t.Fatalf("expected empty registry, got %v", got)
	}

	r.Register(NewVersionCommand("1.0.0"))
	r.Register(NewHelpCommand(r))
	r.Register(NewInitCommand())

	if got, want := r.List(), []string{"help", "init", "version"}; !slices.Equal(got, want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}

	cmd, err := r.Get("version")
	if err != nil {
		t.Fatalf("Get(version): %v", err)
	}
	if cmd.Name() != "version" {
		t.Errorf("expected version, got %s", cmd.Name())
	}

	if _, err := r.Get("missing"); err == nil {
		t.Error("expected an error for an unknown command")
	}

	// Same name replaces.
	r.Register(NewVersionCommand("2.0.0"))
	if got := len(r.List()); got != 3 {
		t.Errorf("expected 3 commands after re-register, got %d", got)
	}
}

func TestSubcommandHelp(t *testing.T) {
	var stderr bytes.Buffer
	fs := subcommand("cart", "add", "Add a print to the cart.", &stderr)
	fs.String("size", "", "Print size")

	err := parseSubcommand(fs, []string{"-h"})
	if err != errHelpShown {
		t.Fatalf("expected errHelpShown, got %v", err)
	}
	if helpOK(err) != nil {
		t.Error("helpOK should map errHelpShown to nil")
	}
	for _, want := range []string{"Usage: cart add", "Add a print to the cart.", "Options:", "-size"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("usage missing %q:\n%s", want, stderr.String())
		}
	}

	if err := parseSubcommand(fs, []string{"-nope"}); err == nil || helpOK(err) == nil {
		t.Errorf("expected a parse error for an unknown flag, got %v", err)
	}
}
