package provision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vsat-setup/internal/state"
)

func TestInspect(t *testing.T) {
	t.Run("nothing provisioned", func(t *testing.T) {
		p, _, _ := testProvisioner(t, nil)
		report := p.Inspect()
		assert.Equal(t, StatusAbsent, report.App)
		assert.Equal(t, StatusAbsent, report.Workbench)
		assert.Equal(t, StatusAbsent, report.Assembly)
	})

	t.Run("downloaded archive without marker is partial", func(t *testing.T) {
		p, _, _ := testProvisioner(t, nil)
		require.NoError(t, os.WriteFile(p.Config.AppArchivePath(), []byte("zip"), 0644))

		assert.Equal(t, StatusPartial, p.Inspect().App)
	})

	t.Run("leftover staging directory is partial", func(t *testing.T) {
		p, _, _ := testProvisioner(t, nil)
		require.NoError(t, os.MkdirAll(stagingDir(p.Config.AssemblyArchivePath()), 0755))

		assert.Equal(t, StatusPartial, p.Inspect().Assembly)
	})

	t.Run("workbench directory without marker is partial", func(t *testing.T) {
		p, _, _ := testProvisioner(t, nil)
		require.NoError(t, os.MkdirAll(p.Config.WorkbenchDestPath(), 0755))

		assert.Equal(t, StatusPartial, p.Inspect().Workbench)
	})

	t.Run("markers mean complete", func(t *testing.T) {
		p, _, _ := testProvisioner(t, nil)

		exe := p.Config.AppExecutablePath()
		require.NoError(t, os.MkdirAll(filepath.Dir(exe), 0755))
		require.NoError(t, os.WriteFile(exe, []byte("bin"), 0755))

		marker := p.Config.WorkbenchMarkerPath()
		require.NoError(t, os.MkdirAll(filepath.Dir(marker), 0755))
		require.NoError(t, os.WriteFile(marker, []byte("init"), 0644))

		require.NoError(t, os.MkdirAll(p.Config.AssemblyDirPath(), 0755))

		report := p.Inspect()
		assert.Equal(t, StatusComplete, report.App)
		assert.Equal(t, StatusComplete, report.Workbench)
		assert.Equal(t, StatusComplete, report.Assembly)
	})

	t.Run("inspect changes nothing on disk", func(t *testing.T) {
		p, dl, run := testProvisioner(t, nil)
		_ = p.Inspect()
		assert.Zero(t, dl.calls)
		assert.Empty(t, run.calls)
		assert.NoDirExists(t, p.Config.AppInstallPath())
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "absent", StatusAbsent.String())
	assert.Equal(t, "partial", StatusPartial.String())
	assert.Equal(t, "complete", StatusComplete.String())
}

// A guarded-complete stage must also read as complete after a real install,
// tying Inspect to what the stages actually produce.
func TestInspectAfterInstall(t *testing.T) {
	p, _, _ := testProvisioner(t, appArchive(t))
	st := state.Load(filepath.Join(p.Config.Root, "state.json"))

	require.NoError(t, p.InstallApp(st))
	assert.Equal(t, StatusComplete, p.Inspect().App)
}
