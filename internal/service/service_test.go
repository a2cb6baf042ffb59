package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/pxefirst/internal/fsops"
	"github.com/danieljhkim/pxefirst/internal/sysexec"
)

const unitPath = "/etc/systemd/system/pxefirst.service"

func callLines(r *sysexec.FakeRunner) []string {
	var out []string
	for _, c := range r.Calls() {
		out = append(out, c.String())
	}
	return out
}

func TestRender(t *testing.T) {
	out, err := Render(Unit{BinaryPath: "/usr/local/sbin/pxefirst", Timeout: 90 * time.Second})
	require.NoError(t, err)

	unit := string(out)
	assert.Contains(t, unit, "Type=oneshot")
	assert.Contains(t, unit, "ConditionPathExists=/sys/firmware/efi")
	assert.Contains(t, unit, "ExecStart=/usr/local/sbin/pxefirst run\n")
	assert.Contains(t, unit, "TimeoutStartSec=90")
	assert.Contains(t, unit, "WantedBy=multi-user.target")
}

func TestRender_WithConfigFile(t *testing.T) {
	out, err := Render(Unit{
		BinaryPath: "/usr/bin/pxefirst",
		ConfigFile: "/etc/pxefirst/site.yaml",
		Timeout:    1500 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Contains(t, string(out), "ExecStart=/usr/bin/pxefirst run --config /etc/pxefirst/site.yaml")
	assert.Contains(t, string(out), "TimeoutStartSec=2")
}

func TestRender_RelativeBinary(t *testing.T) {
	_, err := Render(Unit{BinaryPath: "pxefirst"})
	assert.ErrorIs(t, err, ErrNotAbsolute)
}

func TestInstaller_Install(t *testing.T) {
	fs := fsops.NewMemFS()
	runner := sysexec.NewFakeRunner()
	inst := NewInstaller(fs, runner, logr.Discard(), unitPath)

	res, err := inst.Install(context.Background(), InstallOptions{
		Unit: Unit{BinaryPath: "/usr/local/sbin/pxefirst", Timeout: time.Minute},
	})
	require.NoError(t, err)

	assert.True(t, res.Updated)
	assert.True(t, res.Enabled)
	assert.Equal(t, []string{
		"systemctl daemon-reload",
		"systemctl enable pxefirst.service",
	}, callLines(runner))

	data, err := fs.ReadFile(unitPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ExecStart=/usr/local/sbin/pxefirst run")
}

func TestInstaller_InstallUnchangedNoEnable(t *testing.T) {
	fs := fsops.NewMemFS()
	runner := sysexec.NewFakeRunner()
	inst := NewInstaller(fs, runner, logr.Discard(), unitPath)
	opts := InstallOptions{Unit: Unit{BinaryPath: "/usr/local/sbin/pxefirst", Timeout: time.Minute}, NoEnable: true}

	_, err := inst.Install(context.Background(), opts)
	require.NoError(t, err)

	fs.WriteErr = errors.New("should not be written again")
	res, err := inst.Install(context.Background(), opts)
	require.NoError(t, err)

	assert.False(t, res.Updated)
	assert.False(t, res.Enabled)
	assert.Equal(t, 0, runner.CallCount("systemctl enable pxefirst.service"))
	assert.Equal(t, 2, runner.CallCount("systemctl daemon-reload"))
}

func TestInstaller_InstallErrors(t *testing.T) {
	t.Run("relative unit path", func(t *testing.T) {
		inst := NewInstaller(fsops.NewMemFS(), sysexec.NewFakeRunner(), logr.Discard(), "pxefirst.service")
		_, err := inst.Install(context.Background(), InstallOptions{Unit: Unit{BinaryPath: "/bin/pxefirst"}})
		assert.ErrorIs(t, err, ErrNotAbsolute)
	})

	t.Run("write failure", func(t *testing.T) {
		fs := fsops.NewMemFS()
		fs.WriteErr = errors.New("read-only file system")
		runner := sysexec.NewFakeRunner()
		inst := NewInstaller(fs, runner, logr.Discard(), unitPath)

		_, err := inst.Install(context.Background(), InstallOptions{Unit: Unit{BinaryPath: "/bin/pxefirst"}})
		require.Error(t, err)
		assert.Empty(t, runner.Calls())
	})

	t.Run("enable failure", func(t *testing.T) {
		runner := sysexec.NewFakeRunner()
		runner.On("systemctl enable pxefirst.service", "", errors.New("exit status 1"))
		inst := NewInstaller(fsops.NewMemFS(), runner, logr.Discard(), unitPath)

		_, err := inst.Install(context.Background(), InstallOptions{Unit: Unit{BinaryPath: "/bin/pxefirst"}})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "systemctl enable"))
	})
}

func TestInstaller_Uninstall(t *testing.T) {
	fs := fsops.NewMemFS()
	runner := sysexec.NewFakeRunner()
	inst := NewInstaller(fs, runner, logr.Discard(), unitPath)
	require.NoError(t, fs.AtomicWrite(unitPath, []byte("[Unit]\n"), 0644))

	require.NoError(t, inst.Uninstall(context.Background()))

	assert.Equal(t, []string{
		"systemctl disable pxefirst.service",
		"systemctl daemon-reload",
	}, callLines(runner))
	exists, err := fs.Exists(unitPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInstaller_UninstallDisableFails(t *testing.T) {
	t.Run("unit present", func(t *testing.T) {
		fs := fsops.NewMemFS()
		require.NoError(t, fs.AtomicWrite(unitPath, []byte("[Unit]\n"), 0644))
		runner := sysexec.NewFakeRunner()
		runner.On("systemctl disable pxefirst.service", "", errors.New("exit status 1"))
		inst := NewInstaller(fs, runner, logr.Discard(), unitPath)

		require.NoError(t, inst.Uninstall(context.Background()))
		assert.Empty(t, fs.Files())
		assert.Equal(t, 1, runner.CallCount("systemctl daemon-reload"))
	})

	t.Run("nothing installed", func(t *testing.T) {
		runner := sysexec.NewFakeRunner()
		runner.On("systemctl disable pxefirst.service", "", errors.New("exit status 1"))
		inst := NewInstaller(fsops.NewMemFS(), runner, logr.Discard(), unitPath)

		require.NoError(t, inst.Uninstall(context.Background()))
		assert.Equal(t, 0, runner.CallCount("systemctl daemon-reload"))
	})
}
