package command

import (
	"flag"
	"io"
	"log/slog"

	"github.com/joeycumines/pelusa-cart/internal/config"
	"github.com/joeycumines/pelusa-cart/internal/logging"
)

// logFlags are the logging flags every cart-touching command accepts.
type logFlags struct {
	level string
	file  string
}

func (f *logFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.level, "log-level", "", "Log level (debug, info, warn, error); overrides log.level")
	fs.StringVar(&f.file, "log-file", "", "Path to log file (JSON output); overrides log.file")
}

// newLogger resolves logging as flag, then config (env overrides
// included), then defaults. Interactive commands own the terminal, so
// without a log file their records are dropped instead of going to stderr.
func newLogger(cfg *config.Config, flags logFlags, stderr io.Writer, interactive bool) (*slog.Logger, io.Closer, error) {
	schema := config.DefaultSchema()
	resolve := func(flagValue, key string) string {
		if flagValue != "" {
			return flagValue
		}
		return schema.Resolve(cfg, key)
	}
	opts := logging.Options{
		Level:  resolve(flags.level, "log.level"),
		File:   resolve(flags.file, "log.file"),
		Stderr: stderr,
	}
	if interactive {
		opts.Stderr = nil
	}
	if opts.File != "" {
		s, err := config.Resolve(cfg)
		if err != nil {
			return nil, nil, err
		}
		opts.MaxSizeMB, opts.MaxBackups = s.LogMaxSizeMB, s.LogMaxFiles
	}
	logger, closer, err := logging.New(opts)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range cfg.Warnings {
		logger.Warn("config: " + w)
	}
	return logger, closer, nil
}
