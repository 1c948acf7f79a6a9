package config

import "path/filepath"

// Config describes everything the provisioner needs: where the environment
// lives, where archives come from, which files mark a stage as done, and how
// to reach the Virtual Satellite server. All of it has working defaults
// (see Default) so a config file is only needed to override mirrors, paths,
// or credentials.
type Config struct {
	Root      string    `yaml:"root"`      // Environment root; every other path is relative to it
	Downloads string    `yaml:"downloads"` // Directory archives are downloaded into, relative to Root
	App       App       `yaml:"app"`
	Workbench Workbench `yaml:"workbench"`
	Assembly  Assembly  `yaml:"assembly"`
	Python    Python    `yaml:"python"`
	Server    Server    `yaml:"server"`
}

// App describes the CAD application archive and install layout.
type App struct {
	ArchiveURL string `yaml:"archive_url"` // Remote location of the portable application archive
	Archive    string `yaml:"archive"`     // Local archive filename inside Downloads
	InstallDir string `yaml:"install_dir"` // Install directory name under Root
	Executable string `yaml:"executable"`  // Executable path under InstallDir; presence marks the stage complete
}

// Workbench describes the GUI plugin copied into the application's Mod root.
type Workbench struct {
	Name   string `yaml:"name"`   // Directory name created under <app>/Mod
	Source string `yaml:"source"` // Source tree to copy, relative to Root (or absolute)
	Marker string `yaml:"marker"` // File inside the destination whose presence marks the stage complete
}

// Assembly describes the third-party assembly plugin archive.
type Assembly struct {
	ArchiveURL string `yaml:"archive_url"`
	Archive    string `yaml:"archive"`
	Dir        string `yaml:"dir"` // Versioned extracted directory name under Root; doubles as the marker
}

// Python describes the application's bundled interpreter and the declared
// package list its pip installs.
type Python struct {
	Interpreter  string `yaml:"interpreter"`  // Interpreter path under the application install dir
	Requirements string `yaml:"requirements"` // Requirements file, relative to Root (or absolute)
}

// Server holds the Virtual Satellite connection used by the crawler.
type Server struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Default returns the configuration matching the original single-desktop
// deployment: a portable FreeCAD tree and the Assembly4 plugin side by side
// under the current directory, and a Virtual Satellite server on localhost.
func Default() Config {
	return Config{
		Root:      ".",
		Downloads: "downloads",
		App: App{
			ArchiveURL: "https://github.com/FreeCAD/FreeCAD/releases/download/0.21.2/FreeCAD_0.21.2-2023-12-19-conda-Windows-x86_64-py310.7z",
			Archive:    "FreeCAD.7z",
			InstallDir: "FreeCAD",
			Executable: filepath.Join("bin", "FreeCAD.exe"),
		},
		Workbench: Workbench{
			Name:   "SatelliteWorkbench",
			Source: "workbench",
			Marker: "InitGui.py",
		},
		Assembly: Assembly{
			ArchiveURL: "https://github.com/Zolko-123/FreeCAD_Assembly4/archive/refs/tags/v0.50.13.zip",
			Archive:    "Assembly4.zip",
			Dir:        "FreeCAD_Assembly4-0.50.13",
		},
		Python: Python{
			Interpreter:  filepath.Join("bin", "python.exe"),
			Requirements: "requirements.txt",
		},
		Server: Server{
			BaseURL:  "http://127.0.0.1:8000",
			Username: "admin",
			Password: "admin",
		},
	}
}

// Path helpers. Relative paths in the config are anchored at Root so the
// provisioner and the status report always agree on locations.

// DownloadDir returns the absolute-or-root-relative download directory.
func (c Config) DownloadDir() string { return c.join(c.Downloads) }

// AppArchivePath returns where the application archive lives on disk.
func (c Config) AppArchivePath() string { return filepath.Join(c.DownloadDir(), c.App.Archive) }

// AppInstallPath returns the application install directory.
func (c Config) AppInstallPath() string { return c.join(c.App.InstallDir) }

// AppExecutablePath returns the marker executable for the application stage.
func (c Config) AppExecutablePath() string {
	return filepath.Join(c.AppInstallPath(), c.App.Executable)
}

// ModPath returns the application's plugin-loading root.
func (c Config) ModPath() string { return filepath.Join(c.AppInstallPath(), "Mod") }

// WorkbenchDestPath returns the installed workbench directory.
func (c Config) WorkbenchDestPath() string { return filepath.Join(c.ModPath(), c.Workbench.Name) }

// WorkbenchMarkerPath returns the marker file for the workbench stage.
func (c Config) WorkbenchMarkerPath() string {
	return filepath.Join(c.WorkbenchDestPath(), c.Workbench.Marker)
}

// WorkbenchSourcePath returns the workbench source tree.
func (c Config) WorkbenchSourcePath() string { return c.join(c.Workbench.Source) }

// AssemblyArchivePath returns where the assembly plugin archive lives on disk.
func (c Config) AssemblyArchivePath() string {
	return filepath.Join(c.DownloadDir(), c.Assembly.Archive)
}

// AssemblyDirPath returns the extracted assembly plugin directory, which is
// also the marker for the assembly stage.
func (c Config) AssemblyDirPath() string { return c.join(c.Assembly.Dir) }

// InterpreterPath returns the application's bundled Python interpreter.
func (c Config) InterpreterPath() string {
	return filepath.Join(c.AppInstallPath(), c.Python.Interpreter)
}

// RequirementsPath returns the declared package list consumed by pip.
func (c Config) RequirementsPath() string { return c.join(c.Python.Requirements) }

func (c Config) join(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}
