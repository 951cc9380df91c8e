package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/formshift/formshift/internal/domain"
	m "github.com/formshift/formshift/internal/model"
)

const migrateLongDescription = `Run the full migration engine over the target scope: classify declarations,
cascade breakage to dependents, and mutate source files in place. Removals
comment the declaration's full body out between sentinel lines; flags insert
an advisory TODO block. Both mutations are idempotent, so re-running over
already-mutated output changes nothing.

With --review-only every declaration is treated as protected: the run applies
advisory flags only and performs zero removals.

` + scopeHelp

var migrateParallelFlag int
var migrateReviewOnlyFlag bool
var migrateJournalFlag string

// migrateCmd represents the migrate command.
var migrateCmd = newMigrateCmd()

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [path]",
		Short: "Apply migration mutations to source files",
		Long:  migrateLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			workflow, err := newWorkflow()
			if err != nil {
				return err
			}

			return workflow.Migrate(context.Background(), domain.MigrateArgs{
				ScanArgs: domain.ScanArgs{
					Root:       parseRoot(args),
					Exclude:    viper.GetStringSlice(excludeConfigKey),
					Threads:    viper.GetInt(parallelConfigKey),
					ReviewOnly: viper.GetBool(reviewOnlyConfigKey),
					Reports:    m.Path(viper.GetString(outputFlagName)),
				},
				Journal: m.Path(viper.GetString(journalConfigKey)),
			})
		},
	}

	configureMigrateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func configureMigrateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&migrateParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel workers for snapshot parsing (mutation stays single-threaded)")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().BoolVar(&migrateReviewOnlyFlag, reviewOnlyFlagName, viper.GetBool(reviewOnlyConfigKey), "advisory run: flag everything, remove nothing")
	bindFlagToConfig(cmd.Flags().Lookup(reviewOnlyFlagName), reviewOnlyConfigKey)

	cmd.Flags().StringVar(&migrateJournalFlag, journalFlagName, viper.GetString(journalConfigKey), "append-only audit journal of applied mutations (empty to disable)")
	bindFlagToConfig(cmd.Flags().Lookup(journalFlagName), journalConfigKey)
}
