// Package config manages pxefirst configuration and filesystem paths.
//
// Settings are layered with viper: built-in defaults, the YAML config file,
// PXEFIRST_* environment variables and finally command line flags. All
// default paths hang off a root directory (default "/") that can be moved
// with PXEFIRST_ROOT, which is how tests run against a temp directory.
package config

import (
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by pxefirst.
type Paths struct {
	// Root is the filesystem root all other paths are resolved against (default: /)
	Root string

	// ConfigFile is the YAML configuration file
	ConfigFile string

	// LogFile is the append-only event log
	LogFile string

	// UnitFile is the systemd unit installed by `pxefirst install`
	UnitFile string

	// EFIVarsDir is the efivarfs mount whose presence means firmware variables are readable
	EFIVarsDir string
}

// DefaultPaths returns the default paths for pxefirst.
// Paths can be overridden with environment variables:
// - PXEFIRST_ROOT: Override the root directory
func DefaultPaths() *Paths {
	root := os.Getenv("PXEFIRST_ROOT")
	if root == "" {
		root = "/"
	}

	return &Paths{
		Root:       root,
		ConfigFile: filepath.Join(root, "etc", "pxefirst", "config.yaml"),
		LogFile:    filepath.Join(root, "var", "log", "pxefirst.log"),
		UnitFile:   filepath.Join(root, "etc", "systemd", "system", "pxefirst.service"),
		EFIVarsDir: filepath.Join(root, "sys", "firmware", "efi", "efivars"),
	}
}
