package provision

import "os/exec"

// Runner executes an external command to completion and returns its
// combined output. The dependency stage shells out to the application's
// bundled pip through this, so tests can fake the installer.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec, blocking until they exit.
type ExecRunner struct{}

// Run executes name with args and returns combined stdout and stderr.
func (ExecRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}
