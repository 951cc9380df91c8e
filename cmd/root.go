// Package cmd provides the root command and CLI setup for formshift.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/formshift/formshift/internal/adapter"
	"github.com/formshift/formshift/internal/controller"
	"github.com/formshift/formshift/internal/domain"
	m "github.com/formshift/formshift/internal/model"
	"github.com/formshift/formshift/internal/rules"
)

var fsAdapter adapter.SourceFSAdapter
var csharpAdapter adapter.CSharpFileAdapter
var reportStore adapter.ReportStore
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// rulesFileFlag points at an operator ruleset overlay.
var rulesFileFlag string

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	csharpAdapter = adapter.NewTreeSitterCSharpAdapter()
	reportStore = adapter.NewReportStore()
}

const scopeHelp = `The target scope is a single file or a whole project directory tree:
  - .                analyze the current directory recursively
  - ./src/Module.Web analyze one project directory
  - Editors/MyEditor.cs  analyze a single file`

const rootLongDescription = `Formshift prepares a C# source tree for migration from a server-rendered
WebForms UI surface to its Blazor successor. It finds declarations that use
types with no equivalent, cascades the breakage to their dependents, and
either comments declarations out or leaves an advisory TODO, depending on
whether a protected base type is involved.

` + scopeHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formshift",
		Short: "WebForms-to-Blazor migration engine",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for migration reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringVarP(&rulesFileFlag, rulesFlagName, "r", viper.GetString(rulesConfigKey), "YAML ruleset overlay merged over the built-in classification table")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rulesFlagName), rulesConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "enable debug logging")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newWorkflow loads the effective ruleset and assembles a workflow for one
// command invocation.
func newWorkflow() (domain.Workflow, error) {
	ruleset, err := rules.Load(viper.GetString(rulesConfigKey))
	if err != nil {
		return nil, err
	}

	return domain.NewWorkflow(fsAdapter, csharpAdapter, reportStore, ui, ruleset), nil
}

// parseRoot turns the positional argument into the target scope, defaulting
// to the current directory.
func parseRoot(args []string) m.Path {
	if len(args) == 0 {
		return m.Path(".")
	}

	return m.Path(args[0])
}
