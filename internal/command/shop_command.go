package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/joeycumines/pelusa-cart/internal/config"
	"github.com/joeycumines/pelusa-cart/internal/storage"
	"github.com/joeycumines/pelusa-cart/internal/tui"
)

// ErrNotTerminal is returned by the shop command when stdin or stdout is
// not a terminal.
var ErrNotTerminal = errors.New("the shop needs an interactive terminal; use 'pelusa cart' instead")

// ShopCommand opens the interactive storefront.
type ShopCommand struct {
	*BaseCommand
	config  *config.Config
	session string
	logs    logFlags

	stdin *os.File
	// isTerminal defaults to term.IsTerminal.
	isTerminal func(fd int) bool
	// run defaults to tui.Run.
	run func(ctx context.Context, m tui.Model, in io.Reader, out io.Writer) error
}

// NewShopCommand creates a new shop command.
func NewShopCommand(cfg *config.Config) *ShopCommand {
	return &ShopCommand{
		BaseCommand: NewBaseCommand("shop", "Browse prints and manage the cart interactively", "shop [options]"),
		config:      cfg,
		stdin:       os.Stdin,
		isTerminal:  term.IsTerminal,
		run:         tui.Run,
	}
}

// SetupFlags configures the flags for the shop command.
func (c *ShopCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.session, "session", "", "Session ID for the session cart (overrides auto-discovery)")
	c.logs.register(fs)
}

// Execute runs the storefront until the user quits.
func (c *ShopCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	out, _ := stdout.(*os.File)
	if out == nil || !c.isTerminal(int(c.stdin.Fd())) || !c.isTerminal(int(out.Fd())) {
		return ErrNotTerminal
	}

	logger, logCloser, err := newLogger(c.config, c.logs, stderr, true)
	if err != nil {
		return err
	}
	sf, err := openStorefront(c.config, c.session, logger)
	if err != nil {
		_ = logCloser.Close()
		return err
	}
	sf.onClose(logCloser)
	defer func() {
		if err := sf.Close(); err != nil {
			logger.Warn("failed to close stores", "error", err)
		}
	}()

	stopCleanup := maybeStartCleanupScheduler(c.config, sf.sessionID, logger)
	defer stopCleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher := &storage.Watcher{
		Store:    sf.stores.Local(),
		Key:      sf.settings.CartKey,
		Interval: sf.settings.WatchInterval,
		Own:      sf.stores.Local(),
	}
	model := tui.New(sf.shop, sf.format, watcher.Watch(ctx))

	logger.Info("shop opened", "session", sf.sessionID, "items", len(sf.shop.Items()))
	if err := c.run(ctx, model, c.stdin, out); err != nil {
		return err
	}
	logger.Info("shop closed", "items", len(sf.shop.Items()))
	return nil
}
