package provision

// Status is the tri-state answer to "did this stage complete?". It replaces
// the bare marker-exists check for reporting purposes, so half-finished
// stages (archive downloaded but never extracted, destination created but
// marker missing) are visible instead of indistinguishable from "absent".
type Status int

const (
	// StatusAbsent means no trace of the stage exists on disk.
	StatusAbsent Status = iota
	// StatusPartial means intermediate artifacts exist but the marker does
	// not; a previous run was interrupted or failed mid-stage.
	StatusPartial
	// StatusComplete means the stage's marker is present.
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusPartial:
		return "partial"
	default:
		return "absent"
	}
}

// Report holds the inspection result for the three marker-guarded stages.
// The dependency stage has no on-disk marker and is not inspectable.
type Report struct {
	App       Status
	Workbench Status
	Assembly  Status
}

// Inspect derives the tri-state status of each stage from the filesystem.
// It only stats paths; nothing is downloaded, extracted, or copied.
func (p *Provisioner) Inspect() Report {
	return Report{
		App: inspect(
			fileExists(p.Config.AppExecutablePath()),
			fileExists(p.Config.AppArchivePath()),
			dirExists(stagingDir(p.Config.AppArchivePath())),
			dirExists(p.Config.AppInstallPath()),
		),
		Workbench: inspect(
			fileExists(p.Config.WorkbenchMarkerPath()),
			dirExists(p.Config.WorkbenchDestPath()),
		),
		Assembly: inspect(
			dirExists(p.Config.AssemblyDirPath()),
			fileExists(p.Config.AssemblyArchivePath()),
			dirExists(stagingDir(p.Config.AssemblyArchivePath())),
		),
	}
}

// inspect folds a marker check and any number of partial-artifact checks
// into a Status.
func inspect(marker bool, partials ...bool) Status {
	if marker {
		return StatusComplete
	}
	for _, present := range partials {
		if present {
			return StatusPartial
		}
	}
	return StatusAbsent
}
