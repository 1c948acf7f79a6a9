package cmd

import (
	"github.com/spf13/cobra"

	"vsat-setup/internal/config"
	"vsat-setup/internal/logger"
	"vsat-setup/internal/provision"
	"vsat-setup/internal/state"
)

// noLaunch suppresses the final application launch after provisioning.
var noLaunch bool

// provisionCmd runs the full workflow: directory scaffolding, application
// install, workbench install, assembly plugin install, Python dependencies,
// and finally the application launch. Each stage short-circuits when its
// on-disk marker says it already ran.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision the FreeCAD environment (app, workbench, assembly plugin, deps) and launch",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load(configPath)
		st := state.Load(statePath)
		p := provision.New(cfg)

		if err := p.EnsureLayout(); err != nil {
			fail(err)
		}
		if err := p.InstallApp(st); err != nil {
			state.Save(statePath, st)
			fail(err)
		}
		if err := p.InstallWorkbench(st); err != nil {
			state.Save(statePath, st)
			fail(err)
		}
		if err := p.InstallAssembly(st); err != nil {
			state.Save(statePath, st)
			fail(err)
		}
		if err := p.InstallDependencies(st); err != nil {
			state.Save(statePath, st)
			fail(err)
		}
		state.Save(statePath, st)

		if noLaunch {
			logger.Info("[INFO] Provisioning complete. Launch suppressed by --no-launch.\n")
			return
		}
		handle, err := p.Launch()
		if err != nil {
			fail(err)
		}
		// Fire-and-forget: detach so the application outlives this process.
		if err := handle.Release(); err != nil {
			logger.Warn("[WARN] Failed to release launched process: %v\n", err)
		}
	},
}

// provisionAppCmd installs only the application.
var provisionAppCmd = &cobra.Command{
	Use:   "app",
	Short: "Install only the application",
	Run: func(cmd *cobra.Command, args []string) {
		p, st := provisioner()
		if err := p.EnsureLayout(); err != nil {
			fail(err)
		}
		if err := p.InstallApp(st); err != nil {
			state.Save(statePath, st)
			fail(err)
		}
		state.Save(statePath, st)
	},
}

// provisionWorkbenchCmd installs only the workbench.
var provisionWorkbenchCmd = &cobra.Command{
	Use:   "workbench",
	Short: "Install only the satellite workbench",
	Run: func(cmd *cobra.Command, args []string) {
		p, st := provisioner()
		if err := p.InstallWorkbench(st); err != nil {
			state.Save(statePath, st)
			fail(err)
		}
		state.Save(statePath, st)
	},
}

// provisionAssemblyCmd installs only the assembly plugin.
var provisionAssemblyCmd = &cobra.Command{
	Use:   "assembly",
	Short: "Install only the assembly plugin",
	Run: func(cmd *cobra.Command, args []string) {
		p, st := provisioner()
		if err := p.EnsureLayout(); err != nil {
			fail(err)
		}
		if err := p.InstallAssembly(st); err != nil {
			state.Save(statePath, st)
			fail(err)
		}
		state.Save(statePath, st)
	},
}

// provisionDepsCmd installs only the Python dependencies.
var provisionDepsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Install only the Python dependencies into the bundled interpreter",
	Run: func(cmd *cobra.Command, args []string) {
		p, st := provisioner()
		if err := p.InstallDependencies(st); err != nil {
			state.Save(statePath, st)
			fail(err)
		}
		state.Save(statePath, st)
	},
}

// provisioner loads config and state the way every subcommand needs them.
func provisioner() (*provision.Provisioner, *state.State) {
	return provision.New(config.Load(configPath)), state.Load(statePath)
}

// init adds the provision command tree to the root command.
func init() {
	provisionCmd.Flags().BoolVar(&noLaunch, "no-launch", false, "Skip launching the application after provisioning")

	provisionCmd.AddCommand(provisionAppCmd)
	provisionCmd.AddCommand(provisionWorkbenchCmd)
	provisionCmd.AddCommand(provisionAssemblyCmd)
	provisionCmd.AddCommand(provisionDepsCmd)
	rootCmd.AddCommand(provisionCmd)
}
