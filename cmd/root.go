package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"vsat-setup/internal/logger"
)

// debug indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// configPath holds the path to the configuration YAML file. Every value in
// it has a default, so the file is optional.
var configPath string

// statePath is the path to the persistent state file recording what each
// provisioning stage last did.
var statePath = "state.json"

// rootCmd is the base command for the CLI tool `vsat-setup`.
var rootCmd = &cobra.Command{
	Use:   "vsat-setup",
	Short: "FreeCAD environment provisioner for Virtual Satellite visualization",

	// PersistentPreRun is a hook that runs before any subcommand.
	// Here, we initialize the logger based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},
}

// Execute initializes global flags and starts command execution.
// It's the entry point for the CLI when invoked by the user.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")

	_ = rootCmd.Execute()
}

// fail prints a red diagnostic and aborts the run with a non-zero exit.
// Every stage failure is terminal; no cleanup or retry is attempted.
func fail(err error) {
	logger.Error("[ERROR] %v\n", err)
	os.Exit(1)
}
