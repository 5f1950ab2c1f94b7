// Package fs wraps the filesystem operations used by the resources package.
package fs

import (
	"os"
)

// MkdirAll creates the directory and any missing parents. It is not an error
// for the directory to already exist.
func MkdirAll(path string, perm os.FileMode) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, perm)
}
