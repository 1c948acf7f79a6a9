package provision

import "errors"

// Every provisioning failure is terminal for the run: the operator sees a
// diagnostic, the process exits non-zero, and nothing is retried. These
// sentinels classify the failure so callers and tests can tell the stages'
// failure modes apart with errors.Is.
var (
	// ErrDownload marks a failed remote fetch of an archive.
	ErrDownload = errors.New("download failed")

	// ErrExtraction marks a failed archive extraction.
	ErrExtraction = errors.New("extraction failed")

	// ErrDependencyInstall marks a non-zero exit from the bundled
	// interpreter's package installer.
	ErrDependencyInstall = errors.New("dependency install failed")

	// ErrArchiveRoot marks an extracted archive that does not contain
	// exactly one top-level directory. Picking an arbitrary entry would
	// silently install the wrong tree, so this is an explicit error.
	ErrArchiveRoot = errors.New("archive does not contain a single top-level directory")
)
