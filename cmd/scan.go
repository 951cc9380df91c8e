package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/formshift/formshift/internal/domain"
	m "github.com/formshift/formshift/internal/model"
)

const scanLongDescription = `Analyze the target scope and report which declarations would be removed or
flagged, without touching any file.

` + scopeHelp

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [path]",
		Short: "Analyze a project and report migration problems",
		Long:  scanLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			workflow, err := newWorkflow()
			if err != nil {
				return err
			}

			return workflow.Scan(context.Background(), domain.ScanArgs{
				Root:    parseRoot(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Threads: viper.GetInt(parallelConfigKey),
				Reports: m.Path(viper.GetString(outputFlagName)),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
