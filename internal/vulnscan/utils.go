package vulnscan

import (
	"os"

	"github.com/imjasonh/govulncheck-action/config"
)

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// withDir runs fn with dir as working directory and always restores the
// previous one.
func withDir(dir string, fn func() error) (err error) {
	if dir == config.DefaultTarget {
		return fn()
	}

	pwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return err
	}

	defer func() {
		if cerr := os.Chdir(pwd); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn()
}
