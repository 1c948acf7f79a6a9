package cmd

import (
	"github.com/spf13/cobra"

	"vsat-setup/internal/config"
	"vsat-setup/internal/logger"
	"vsat-setup/internal/provision"
)

// launchCmd starts the installed application without touching any
// provisioning stage. It fails when the executable is not installed yet.
var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch the installed application detached",
	Run: func(cmd *cobra.Command, args []string) {
		p := provision.New(config.Load(configPath))

		handle, err := p.Launch()
		if err != nil {
			fail(err)
		}
		if err := handle.Release(); err != nil {
			logger.Warn("[WARN] Failed to release launched process: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}
