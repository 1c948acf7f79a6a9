package cmd

import (
	"github.com/spf13/cobra"

	"vsat-setup/internal/config"
	"vsat-setup/internal/logger"
	"vsat-setup/internal/provision"
	"vsat-setup/internal/state"
)

// statusCmd reports the tri-state condition of each marker-guarded stage,
// derived from the filesystem, plus what the state file recorded about the
// last run. "partial" means a previous run left intermediate artifacts
// behind (downloaded archive, staging directory, unmarked destination).
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the provisioning status of each stage",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load(configPath)
		st := state.Load(statePath)
		report := provision.New(cfg).Inspect()

		printStage(provision.StageApp, report.App, st)
		printStage(provision.StageWorkbench, report.Workbench, st)
		printStage(provision.StageAssembly, report.Assembly, st)
	},
}

// printStage renders one stage line, colored by status, with the last-run
// record when one exists.
func printStage(stage string, status provision.Status, st *state.State) {
	line := logger.Info
	switch status {
	case provision.StatusPartial:
		line = logger.Warn
	case provision.StatusAbsent:
		line = logger.Error
	}

	if rec, ok := st.Stages[stage]; ok {
		line("%-12s %-9s last run %s -> %s\n", stage, status, rec.CompletedAt.Format("2006-01-02 15:04:05"), rec.InstallPath)
	} else {
		line("%-12s %s\n", stage, status)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
