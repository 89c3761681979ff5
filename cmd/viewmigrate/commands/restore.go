package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/viewmigrate/cmd/viewmigrate/opts"
	"github.com/walteh/viewmigrate/pkg/log"
	"github.com/walteh/viewmigrate/pkg/operation"
	"github.com/walteh/viewmigrate/pkg/status"
)

// NewRestoreCmd creates the command that puts backups back in place
func NewRestoreCmd(o *opts.RootOpts) *cobra.Command {
	var (
		patterns []string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "restore [folder]",
		Short: "Undo a migration by restoring .exasol_backup files",
		Long: `Restore copies every <name>.exasol_backup in the folder back over <name>
and removes the backup. Only files matching the patterns are considered.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Root = args[0]
			}
			if cfg.Root == "" {
				return errors.New("a folder is required")
			}
			if cmd.Flags().Changed("patterns") {
				cfg.Patterns = patterns
			}

			console := o.Console(ctx, cmd)
			console.Header(fmt.Sprintf("restoring backups in %s", cfg.Root))
			ctx = log.NewContext(ctx, console)

			mgr := status.New(cfg.Root)
			_, err = operation.Restore(ctx, operation.RestoreOptions{
				Root:     cfg.Root,
				Patterns: cfg.Patterns,
				DryRun:   dryRun || cfg.DryRun,
				Files:    mgr,
				Reporter: mgr,
				OnFile: func(ctx context.Context, out operation.Outcome) {
					log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
						Path:   out.Path,
						Status: out.Status,
						Backup: out.Backup,
						Err:    out.Err,
					})
				},
			})
			if err != nil {
				return errors.Errorf("restoring: %w", err)
			}

			files, err := mgr.ListFiles(ctx)
			if err != nil {
				return errors.Errorf("listing restored files: %w", err)
			}
			failed := 0
			for _, f := range files {
				if f.Status == status.StatusFailed {
					failed++
				}
			}

			switch {
			case len(files) == 0:
				console.Info("no backups found")
			case failed > 0:
				console.Errorf("%d of %d files could not be restored", failed, len(files))
			default:
				console.Successf("restored %d files", len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&patterns, "patterns", nil, "glob patterns of the original files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be restored without touching anything")

	return cmd
}
