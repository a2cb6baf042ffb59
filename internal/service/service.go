// Package service installs pxefirst as a oneshot systemd unit so the boot
// order pass runs once at every startup.
package service

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"text/template"
	"time"

	"github.com/go-logr/logr"

	"github.com/danieljhkim/pxefirst/internal/fsops"
	"github.com/danieljhkim/pxefirst/internal/sysexec"
)

// UnitName is the systemd unit pxefirst installs.
const UnitName = "pxefirst.service"

//go:embed pxefirst.service.tmpl
var unitTemplate string

var unitTmpl = template.Must(template.New(UnitName).Parse(unitTemplate))

// ErrNotAbsolute indicates a unit or binary path that is not absolute.
var ErrNotAbsolute = errors.New("path must be absolute")

// Unit describes the rendered unit file.
type Unit struct {
	// BinaryPath is the pxefirst executable started by the unit.
	BinaryPath string

	// ConfigFile is passed with --config when set.
	ConfigFile string

	// Timeout bounds the whole pass (TimeoutStartSec).
	Timeout time.Duration
}

// TimeoutSeconds is the timeout rounded up to whole seconds.
func (u Unit) TimeoutSeconds() int64 {
	secs := int64(u.Timeout / time.Second)
	if u.Timeout%time.Second != 0 {
		secs++
	}
	return secs
}

// Render returns the unit file content.
func Render(u Unit) ([]byte, error) {
	if !filepath.IsAbs(u.BinaryPath) {
		return nil, fmt.Errorf("binary %q: %w", u.BinaryPath, ErrNotAbsolute)
	}
	var buf bytes.Buffer
	if err := unitTmpl.Execute(&buf, u); err != nil {
		return nil, fmt.Errorf("failed to render unit: %w", err)
	}
	return buf.Bytes(), nil
}

// Installer writes and registers the unit.
type Installer struct {
	fs       fsops.FS
	runner   sysexec.Runner
	logger   logr.Logger
	unitPath string
}

// NewInstaller creates an Installer managing the unit at unitPath.
func NewInstaller(fs fsops.FS, runner sysexec.Runner, logger logr.Logger, unitPath string) *Installer {
	return &Installer{fs: fs, runner: runner, logger: logger, unitPath: unitPath}
}

// InstallOptions controls Install.
type InstallOptions struct {
	Unit Unit

	// NoEnable skips systemctl enable.
	NoEnable bool
}

// InstallResult reports what Install did.
type InstallResult struct {
	UnitPath string `json:"unit_path"`
	Updated  bool   `json:"updated"`
	Enabled  bool   `json:"enabled"`
}

// Install writes the unit atomically, reloads systemd and enables the unit.
//
// Algorithm steps:
//  1. Render the unit
//  2. Compare with the installed file; skip the write when identical
//  3. Atomic write
//  4. systemctl daemon-reload
//  5. systemctl enable (unless NoEnable)
func (i *Installer) Install(ctx context.Context, opts InstallOptions) (*InstallResult, error) {
	if !filepath.IsAbs(i.unitPath) {
		return nil, fmt.Errorf("unit path %q: %w", i.unitPath, ErrNotAbsolute)
	}

	content, err := Render(opts.Unit)
	if err != nil {
		return nil, err
	}

	result := &InstallResult{UnitPath: i.unitPath}

	existing, err := i.fs.ReadFile(i.unitPath)
	if err != nil || !bytes.Equal(existing, content) {
		if err := i.fs.AtomicWrite(i.unitPath, content, 0644); err != nil {
			return nil, fmt.Errorf("failed to write unit file: %w", err)
		}
		result.Updated = true
		i.logger.Info("wrote unit file", "path", i.unitPath, "binary", opts.Unit.BinaryPath)
	} else {
		i.logger.V(1).Info("unit file unchanged", "path", i.unitPath)
	}

	if err := i.systemctl(ctx, "daemon-reload"); err != nil {
		return nil, err
	}

	if !opts.NoEnable {
		if err := i.systemctl(ctx, "enable", UnitName); err != nil {
			return nil, err
		}
		result.Enabled = true
	}

	return result, nil
}

// Uninstall disables the unit, removes the file and reloads systemd.
// A failed disable does not stop the removal. Uninstalling when no unit file
// exists is a no-op.
func (i *Installer) Uninstall(ctx context.Context) error {
	exists, err := i.fs.Exists(i.unitPath)
	if err != nil {
		return fmt.Errorf("failed to check unit file: %w", err)
	}

	if err := i.systemctl(ctx, "disable", UnitName); err != nil {
		if !exists {
			i.logger.V(1).Info("unit not installed", "path", i.unitPath)
			return nil
		}
		i.logger.Info("disable failed, removing unit anyway", "error", err.Error())
	}

	if exists {
		if err := i.fs.Remove(i.unitPath); err != nil {
			return fmt.Errorf("failed to remove unit file: %w", err)
		}
		i.logger.Info("removed unit file", "path", i.unitPath)
	}

	return i.systemctl(ctx, "daemon-reload")
}

func (i *Installer) systemctl(ctx context.Context, args ...string) error {
	if _, err := i.runner.Run(ctx, "systemctl", args...); err != nil {
		return fmt.Errorf("systemctl %s: %w", args[0], err)
	}
	i.logger.V(1).Info("ran systemctl", "args", args)
	return nil
}
