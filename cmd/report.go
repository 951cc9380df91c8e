package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/formshift/formshift/internal/domain"
	m "github.com/formshift/formshift/internal/model"
)

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "View the most recent migration report",
		Long:  "Render the most recent migration report from the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			workflow, err := newWorkflow()
			if err != nil {
				return err
			}

			return workflow.Report(context.Background(), domain.ReportArgs{
				Reports: m.Path(viper.GetString(outputFlagName)),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
