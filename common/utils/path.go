package utils

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Executable returns the absolute path of the running binary and its
// directory. Both are empty when the path can't be found.
func Executable() (path, dir string) {
	exe, err := os.Executable()
	if err != nil {
		log.WithError(err).Warning("Can't find executable path")
		return "", ""
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, filepath.Dir(exe)
}
