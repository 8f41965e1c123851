// Package config manages sidestatus configuration and filesystem paths.
//
// The default root is ~/.sidestatus/ holding config.yaml. The root can be
// moved with SIDESTATUS_ROOT, and the daemon URL overridden with
// SIDE_API_BASE_URL.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// RootEnvKey overrides the sidestatus data directory.
	RootEnvKey = "SIDESTATUS_ROOT"

	// BaseURLEnvKey overrides the daemon API base URL.
	BaseURLEnvKey = "SIDE_API_BASE_URL"
)

// Paths contains all the filesystem paths used by sidestatus.
type Paths struct {
	// Root is the base directory for all sidestatus data (default: ~/.sidestatus)
	Root string

	// Config is the path to the config file
	Config string
}

// DefaultPaths returns the default paths for sidestatus.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnvKey)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".sidestatus")
	}

	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
	}, nil
}
