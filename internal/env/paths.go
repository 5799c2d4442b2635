package env

import (
	"os"
	"path/filepath"
)

const (
	SECURESOCK_CONFIG_DIR_NAME = "securesock"

	SECURESOCK_CONFIG_DIR_ENV = "SECURESOCK_CONFIG_DIR"
	SECURESOCK_CWD_CONFIG_DIR = ".securesock"
)

// In increasing priority order; later entries are merged over earlier ones.
//
// Check in these locations:
// /etc/securesock/
// $XDG_CONFIG_HOME/securesock/ OR $HOME/.config/securesock/
// ./.securesock/
// $SECURESOCK_CONFIG_DIR/
func resolvePaths() []string {
	paths := []string{filepath.Join("/etc/", SECURESOCK_CONFIG_DIR_NAME)}

	if cfgDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(cfgDir, SECURESOCK_CONFIG_DIR_NAME))
	}

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, SECURESOCK_CWD_CONFIG_DIR))
	}

	if p := os.Getenv(SECURESOCK_CONFIG_DIR_ENV); p != "" {
		paths = append(paths, p)
	}

	return paths
}
