package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/viewmigrate/cmd/viewmigrate/opts"
	"github.com/walteh/viewmigrate/pkg/text"
)

// NewConvertCmd rewrites a single definition to stdout. Nothing on disk is
// changed, so it works as a filter in shell pipelines.
func NewConvertCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Print the Snowflake version of one view definition",
		Long: `Convert reads one view definition from a file, or from stdin when the file
is omitted or "-", and prints the rewritten SQL to stdout. With --verbose the
rules that fired are listed on stderr.`,
		Example: `  viewmigrate convert views/orders.sql
  cat orders.sql | viewmigrate convert -v > orders.snowflake.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			set, err := cfg.RuleSet()
			if err != nil {
				return errors.Errorf("building rule set: %w", err)
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Errorf("opening input: %w", err)
				}
				defer f.Close()
				in = f
			}

			result, err := text.NewTransformer(set).TransformReader(ctx, in)
			if err != nil {
				return errors.Errorf("converting: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), result.Modified)
			if o.Verbose {
				for _, change := range result.Manifest.Strings() {
					fmt.Fprintf(cmd.ErrOrStderr(), "• %s\n", change)
				}
			}
			return nil
		},
	}

	return cmd
}
