package main

import (
	"vsat-setup/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The vsat-setup project provisions a local FreeCAD environment for
// visualizing satellite structures from a Virtual Satellite server:
//   - Downloads the portable FreeCAD archive and installs it once, guarded by the
//     presence of the application executable (no freshness check, no re-download)
//   - Installs the Satellite Importer workbench into FreeCAD's Mod directory,
//     guarded by the workbench's InitGui marker file
//   - Downloads and installs the Assembly4 plugin with the same download-once,
//     extract-once pattern
//   - Installs the declared Python packages into FreeCAD's bundled interpreter
//     via its own pip
//   - Launches FreeCAD as a detached process without managing its lifecycle
//   - Generates satellite structure JSON from a Virtual Satellite project
//     (authentication, entity fetch, visualization inheritance resolution)
//
// Error handling strategy:
//   - Every provisioning failure is terminal: the stage prints a diagnostic and
//     the run aborts with a non-zero exit, leaving partial artifacts in place for
//     the next run's existence checks
//   - A JSON state file records what each stage last did, purely for the status
//     report; the on-disk markers remain the only guards
//
// Integration points:
//   - Fetches archives over HTTP(S) and extracts .7z/.zip/.tar.* in-process
//   - Shells out only to FreeCAD's bundled interpreter (pip) and to the
//     application executable itself at launch
//   - Talks to the Virtual Satellite REST API with bearer-token authentication
func main() {
	cmd.Execute()
}
