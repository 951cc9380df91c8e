package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/formshift/formshift/internal/rules"
)

// rulesCmd represents the rules command.
var rulesCmd = newRulesCmd()

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective classification table",
		Long: `Print the effective classification table: the built-in ruleset with the
operator's overlay (--rules) merged on top. Use it to audit which types will
mandate removal, which flag only, and which base types are protected.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			ruleset, err := rules.Load(viper.GetString(rulesConfigKey))
			if err != nil {
				return err
			}

			return ui.DisplayRules(ruleset)
		},
	}
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
