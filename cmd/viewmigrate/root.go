// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/viewmigrate/cmd/viewmigrate/opts"
	"github.com/walteh/viewmigrate/pkg/config"
	"github.com/walteh/viewmigrate/pkg/log"
	"github.com/walteh/viewmigrate/pkg/operation"
	"github.com/walteh/viewmigrate/pkg/text"
)

// migrateFlags are the flags of the root command
type migrateFlags struct {
	patterns []string
	report   string
	backup   bool
	noBackup bool
	dryRun   bool
	diff     bool
	workers  int
	timeout  time.Duration
}

func (f *migrateFlags) addFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.patterns, "patterns", nil, "glob patterns to match view files (default: *.sql, *.view, *_view.sql, view_*.sql, *.ddl)")
	fs.StringVar(&f.report, "report", "", "report path; .json and .yaml write structured reports (default: migration_report_YYYYMMDD_HHMMSS.csv)")
	fs.BoolVar(&f.backup, "backup", false, "create <name>.exasol_backup before rewriting a file (default on)")
	fs.BoolVar(&f.noBackup, "no-backup", false, "do not create backup files")
	fs.BoolVar(&f.dryRun, "dry-run", false, "show what would change without modifying any file")
	fs.BoolVar(&f.diff, "diff", false, "print a line diff for every file that changes")
	fs.IntVar(&f.workers, "workers", 1, "number of files processed at once")
	fs.DurationVar(&f.timeout, "timeout", 0, "give up on a single file after this long (0 disables)")
	cmd.MarkFlagsMutuallyExclusive("backup", "no-backup")

	// --csv-output is the older name of --report
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "csv-output" {
			name = "report"
		}
		return pflag.NormalizedName(name)
	})
}

// apply overrides cfg with every flag that was set on the command line
func (f *migrateFlags) apply(cmd *cobra.Command, cfg *config.Config, args []string) {
	if len(args) == 1 {
		cfg.Root = args[0]
	}

	fs := cmd.Flags()
	if fs.Changed("patterns") {
		cfg.Patterns = f.patterns
	}
	if fs.Changed("report") {
		cfg.Report = f.report
	}
	if fs.Changed("backup") {
		cfg.Backup = f.backup
	}
	if fs.Changed("no-backup") {
		cfg.Backup = !f.noBackup
	}
	if fs.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("timeout") {
		cfg.FileTimeout = f.timeout.String()
	}
}

// 🏃 runMigrate resolves settings and runs the pipeline
func runMigrate(cmd *cobra.Command, root *opts.RootOpts, flags *migrateFlags, args []string) error {
	ctx := cmd.Context()

	cfg, err := root.LoadConfig(ctx)
	if err != nil {
		return err
	}
	flags.apply(cmd, cfg, args)

	if cfg.Root == "" {
		return errors.New("a folder is required")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("invalid settings: %w", err)
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}
	set, err := cfg.RuleSet()
	if err != nil {
		return err
	}

	console := root.Console(ctx, cmd)
	console.Header(fmt.Sprintf("migrating Exasol views in %s", cfg.Root))
	ctx = log.NewContext(ctx, console)

	pipeline, err := operation.New(operation.Options{
		Root:        cfg.Root,
		Patterns:    cfg.Patterns,
		Backup:      cfg.Backup,
		DryRun:      cfg.DryRun,
		Workers:     cfg.Workers,
		FileTimeout: timeout,
		ReportPath:  cfg.ReportPath(time.Now()),
		Rules:       set,
		OnFile:      fileReporter(flags.diff),
		OnDiscover: func(ctx context.Context, paths []string) {
			log.FromContext(ctx).StartRunOperation(ctx, log.RunOperation{
				Root:   cfg.Root,
				Files:  len(paths),
				DryRun: cfg.DryRun,
				Backup: cfg.Backup,
			})
		},
	})
	if err != nil {
		return errors.Errorf("configuring migration: %w", err)
	}

	summary, err := pipeline.Run(ctx)
	if summary != nil {
		console.EndRunOperation(ctx, log.RunTotals{
			Files:      summary.Totals.Files,
			Modified:   summary.Totals.Modified,
			Failed:     summary.Totals.Failed,
			ReportPath: summary.ReportPath,
		})
	}
	if err != nil {
		return err
	}

	if summary.Totals.Files == 0 {
		console.Warning("no view files found matching the patterns")
	}
	if cfg.DryRun && summary.Totals.Modified > 0 {
		console.Infof("dry run: %d files would be modified, none were written", summary.Totals.Modified)
	}

	return nil
}

// fileReporter prints each file as the pipeline finishes it
// fileReporter prints each finished file through the console logger carried
// in ctx
func fileReporter(diff bool) func(context.Context, operation.Outcome) {
	return func(ctx context.Context, out operation.Outcome) {
		console := log.FromContext(ctx)
		console.LogFileOperation(ctx, log.FileOperation{
			Path:    out.Path,
			Status:  out.Status,
			Changes: out.Manifest.Strings(),
			Backup:  out.Backup,
			Err:     out.Err,
		})
		if diff && out.Result != nil && out.Modified() {
			console.Diff(out.Path, text.Diff(out.Result.Original, out.Result.Modified))
			console.LogNewline()
		}
	}
}
