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
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/walteh/viewmigrate/cmd/viewmigrate/commands"
	"github.com/walteh/viewmigrate/cmd/viewmigrate/opts"
)

func main() {
	ctx := context.Background()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(1)
	}
}

// newRootCmd wires the migrate command and its subcommands
func newRootCmd() *cobra.Command {
	root := &opts.RootOpts{}
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "viewmigrate [folder]",
		Short: "Rewrite Exasol view definitions into Snowflake syntax",
		Long: `viewmigrate rewrites every view definition file in a folder from Exasol to
Snowflake syntax, keeps a backup of each file it changes and writes a report
with one row per file.`,
		Example: `  viewmigrate ./views
  viewmigrate ./views --no-backup --verbose
  viewmigrate ./views --patterns "*.sql" --patterns "*.view"
  viewmigrate ./views --report my_report.csv
  viewmigrate ./views --dry-run --diff --report analysis.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if root.NoColor {
				color.NoColor = true
			}
			logger := root.Logger(cmd.ErrOrStderr())
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, root, flags, args)
		},
	}

	root.AddFlags(cmd)
	flags.addFlags(cmd)

	cmd.AddCommand(
		commands.NewRulesCmd(root),
		commands.NewRestoreCmd(root),
		commands.NewConvertCmd(root),
		newVersionCmd(),
	)

	return cmd
}
