package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/viewmigrate/cmd/viewmigrate/opts"
	"github.com/walteh/viewmigrate/pkg/rules"
)

// NewRulesCmd creates the command that lists the active rule set
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rewrite rules in the order they are applied",
		Long: `Rules prints every rule the migration applies, built-in rules first and
rules from the config file after them, in the order they run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}

			set, err := cfg.RuleSet()
			if err != nil {
				return errors.Errorf("building rule set: %w", err)
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(ruleTable(set, o.Verbose)).Srender()
			if err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	return cmd
}

func ruleTable(set *rules.Set, verbose bool) pterm.TableData {
	header := []string{"#", "Kind", "Case", "Description"}
	if verbose {
		header = append(header, "Match", "Replacement")
	}

	data := pterm.TableData{header}
	for i, r := range set.Rules() {
		caseMode := "insensitive"
		if r.IsCaseSensitive() {
			caseMode = "sensitive"
		}
		row := []string{strconv.Itoa(i + 1), r.Kind().String(), caseMode, r.Description()}
		if verbose {
			row = append(row, r.Source(), strconv.Quote(r.Replacement().String()))
		}
		data = append(data, row)
	}
	return data
}
