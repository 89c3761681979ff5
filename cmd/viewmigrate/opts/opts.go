package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/viewmigrate/pkg/config"
	"github.com/walteh/viewmigrate/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Verbose    bool
	NoColor    bool
}

// AddFlags registers the persistent flags every command understands
func (o *RootOpts) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: first .viewmigrate.{yaml,yml,json,hcl,toml} in the working directory)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false, "print every transformation applied to each file")
	cmd.PersistentFlags().BoolVar(&o.NoColor, "no-color", false, "disable colored output")
}

// 📚 LoadConfig reads the named config file, or the default one when present,
// or returns the defaults
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	path := o.ConfigFile
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		if path, err = config.Find(wd); err != nil {
			return nil, errors.Errorf("looking for config file: %w", err)
		}
	}

	if path == "" {
		zerolog.Ctx(ctx).Debug().Msg("no config file, using defaults")
		return config.Default(), nil
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// 📝 Logger builds the structured logger for the run
func (o *RootOpts) Logger(w io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: o.NoColor}).Level(level).With().Timestamp().Logger()
}

// 🎯 Console returns the user facing logger for cmd
func (o *RootOpts) Console(ctx context.Context, cmd *cobra.Command) *log.Logger {
	return log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx)).WithVerbose(o.Verbose)
}
