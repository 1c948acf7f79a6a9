package provision

import (
	"fmt"
	"os/exec"

	"vsat-setup/internal/logger"
)

// Handle refers to a launched application process. The provisioner itself
// is fire-and-forget: it starts the application and returns. Callers that
// want more may Wait on the handle; callers that do not must Release it so
// the OS can reap the process independently.
type Handle struct {
	cmd *exec.Cmd
}

// PID returns the launched process's ID.
func (h *Handle) PID() int { return h.cmd.Process.Pid }

// Wait blocks until the application exits and returns its exit error.
func (h *Handle) Wait() error { return h.cmd.Wait() }

// Release detaches from the process without waiting for it.
func (h *Handle) Release() error { return h.cmd.Process.Release() }

// Launch starts the installed application executable as a detached process
// and returns immediately. The application's lifecycle is not managed
// beyond this point.
func (p *Provisioner) Launch() (*Handle, error) {
	exe := p.Config.AppExecutablePath()
	cmd := exec.Command(exe)
	cmd.Dir = p.Config.AppInstallPath()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", exe, err)
	}

	logger.Info("[INFO] Launched %s (pid %d)\n", exe, cmd.Process.Pid)
	return &Handle{cmd: cmd}, nil
}
