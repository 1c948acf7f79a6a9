package provision

import (
	"fmt"
	"os"
	"path/filepath"

	"vsat-setup/internal/config"
	"vsat-setup/internal/logger"
	"vsat-setup/internal/state"
)

// Stage names used for state records and status output.
const (
	StageApp          = "app"
	StageWorkbench    = "workbench"
	StageAssembly     = "assembly"
	StageDependencies = "dependencies"
)

// Provisioner brings a local environment from "nothing present" to
// "application installed with workbench and assembly plugin", idempotently.
// Each stage is a guarded one-shot action: a marker on disk means the stage
// already ran and it is skipped entirely, with no freshness check. Every
// failure is terminal; nothing is retried.
//
// Fetcher and Runner default to the real HTTP downloader and os/exec but
// can be replaced, which is how tests simulate transfer and installer
// failures and how operators could substitute mirrors.
type Provisioner struct {
	Config  config.Config
	Fetcher Downloader
	Runner  Runner
}

// New returns a Provisioner wired with the real downloader and executor.
func New(cfg config.Config) *Provisioner {
	return &Provisioner{
		Config:  cfg,
		Fetcher: &HTTPDownloader{},
		Runner:  ExecRunner{},
	}
}

// EnsureLayout creates the environment root and the download directory.
// Both are create-if-missing; existing directories are not an error.
func (p *Provisioner) EnsureLayout() error {
	for _, dir := range []string{p.Config.Root, p.Config.DownloadDir()} {
		logger.Debug("[DEBUG] Ensuring directory %s\n", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// InstallApp downloads and installs the CAD application.
//
// Guard: the marker executable. When it exists the stage is treated as
// already provisioned and neither the archive nor the staging directory is
// touched, even if they are absent or corrupted.
func (p *Provisioner) InstallApp(st *state.State) error {
	exe := p.Config.AppExecutablePath()
	if fileExists(exe) {
		logger.Info("[INFO] Application already installed (%s exists). Skipping.\n", exe)
		st.Record(StageApp, state.StageState{InstallPath: p.Config.AppInstallPath(), Skipped: true})
		return nil
	}

	if err := p.fetchAndRelocate("application", p.Config.App.ArchiveURL,
		p.Config.AppArchivePath(), p.Config.AppInstallPath()); err != nil {
		return err
	}

	logger.Info("[INFO] Installed application to %s\n", p.Config.AppInstallPath())
	st.Record(StageApp, state.StageState{
		InstallPath: p.Config.AppInstallPath(),
		SourceURL:   p.Config.App.ArchiveURL,
	})
	return nil
}

// InstallWorkbench copies the workbench source tree into the application's
// Mod directory.
//
// Guard: the marker file inside the destination. A stale installed copy is
// never refreshed while the marker exists; delete the destination to force
// a re-copy. When the marker is absent the copy overwrites whatever stale
// files the destination holds.
func (p *Provisioner) InstallWorkbench(st *state.State) error {
	marker := p.Config.WorkbenchMarkerPath()
	if fileExists(marker) {
		logger.Info("[INFO] Workbench already installed (%s exists). Skipping.\n", marker)
		st.Record(StageWorkbench, state.StageState{InstallPath: p.Config.WorkbenchDestPath(), Skipped: true})
		return nil
	}

	src := p.Config.WorkbenchSourcePath()
	dest := p.Config.WorkbenchDestPath()
	logger.Info("[INFO] Installing workbench %s to %s\n", p.Config.Workbench.Name, dest)

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create workbench directory %s: %w", dest, err)
	}
	if err := copyTree(src, dest); err != nil {
		return fmt.Errorf("failed to copy workbench from %s: %w", src, err)
	}

	st.Record(StageWorkbench, state.StageState{InstallPath: dest})
	return nil
}

// InstallAssembly downloads and installs the third-party assembly plugin.
//
// Guard: the versioned extracted directory under the environment root.
func (p *Provisioner) InstallAssembly(st *state.State) error {
	dir := p.Config.AssemblyDirPath()
	if dirExists(dir) {
		logger.Info("[INFO] Assembly plugin already installed (%s exists). Skipping.\n", dir)
		st.Record(StageAssembly, state.StageState{InstallPath: dir, Skipped: true})
		return nil
	}

	if err := p.fetchAndRelocate("assembly plugin", p.Config.Assembly.ArchiveURL,
		p.Config.AssemblyArchivePath(), dir); err != nil {
		return err
	}

	logger.Info("[INFO] Installed assembly plugin to %s\n", dir)
	st.Record(StageAssembly, state.StageState{
		InstallPath: dir,
		SourceURL:   p.Config.Assembly.ArchiveURL,
	})
	return nil
}

// InstallDependencies runs the application's bundled pip against the
// declared package list. It has no marker guard: pip itself is idempotent
// for already-satisfied requirements.
func (p *Provisioner) InstallDependencies(st *state.State) error {
	interp := p.Config.InterpreterPath()
	reqs := p.Config.RequirementsPath()
	logger.Info("[INFO] Installing Python dependencies from %s\n", reqs)

	output, err := p.Runner.Run(interp, "-m", "pip", "install", "-r", reqs)
	logger.Debug("[DEBUG] pip output:\n%s\n", output)
	if err != nil {
		return fmt.Errorf("%w: %s -m pip install -r %s: %v\nOutput: %s", ErrDependencyInstall, interp, reqs, err, output)
	}

	st.Record(StageDependencies, state.StageState{InstallPath: reqs})
	return nil
}

// fetchAndRelocate implements the shared download-once/extract-once pattern
// of the application and assembly stages:
//
//  1. download the archive unless it is already on disk,
//  2. extract it into a freshly cleared staging directory,
//  3. locate the single top-level directory the archive produced,
//  4. copy that directory's contents into installDir, overwriting,
//  5. remove the staging directory (on the copy's failure paths too).
//
// A failed download leaves no staging directory behind, so a re-run starts
// clean from the existence checks.
func (p *Provisioner) fetchAndRelocate(what, url, archivePath, installDir string) error {
	if fileExists(archivePath) {
		logger.Info("[INFO] Archive %s already present. Skipping download.\n", archivePath)
	} else {
		logger.Info("[INFO] Downloading %s from %s\n", what, url)
		if err := p.Fetcher.Fetch(url, archivePath); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDownload, what, err)
		}
	}

	staging := stagingDir(archivePath)
	if err := clearDir(staging); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrExtraction, what, err)
	}
	// Once staging exists it is removed again no matter how the stage ends.
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			logger.Error("[ERROR] Failed to remove staging directory %s: %v\n", staging, err)
		}
	}()

	logger.Info("[INFO] Extracting %s to %s\n", archivePath, staging)
	if err := extractArchive(archivePath, staging); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrExtraction, what, err)
	}

	root, err := archiveRoot(staging)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	logger.Debug("[DEBUG] Relocating %s to %s\n", root, installDir)
	if err := copyTree(root, installDir); err != nil {
		return fmt.Errorf("failed to install %s to %s: %w", what, installDir, err)
	}
	return nil
}

// stagingDir returns the temporary extraction target for an archive,
// kept next to the archive itself.
func stagingDir(archivePath string) string {
	return filepath.Join(filepath.Dir(archivePath), filepath.Base(archivePath)+".staging")
}
