package resources

import (
	"path/filepath"
	"strings"

	"github.com/jetsetilly/acpmix/resources/fs"
)

// the directory that all resources are relative to. either the portable
// directory or the directory for the build type
func basePath() (string, error) {
	if checkPortable() {
		return portablePath, nil
	}
	return resourcePath()
}

// JoinPath returns the path of a resource. Path elements are joined and placed
// in the resource directory unless they already begin with it.
//
// Directories leading to the resource are created. The resource itself is not
// touched.
func JoinPath(path ...string) (string, error) {
	base, err := basePath()
	if err != nil {
		return "", err
	}

	p := filepath.Join(path...)
	if !strings.HasPrefix(p, base) {
		p = filepath.Join(base, p)
	}

	err = fs.MkdirAll(filepath.Dir(p), 0700)
	if err != nil {
		return "", err
	}

	return p, nil
}
