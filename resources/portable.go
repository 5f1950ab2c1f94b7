package resources

import (
	"os"
	"path/filepath"
)

const portableMarker = "portable.txt"

// set by init() if the portable marker sits next to the executable
var portablePath string

func checkPortable() bool {
	return portablePath != ""
}

func init() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	dir := filepath.Dir(exe)
	if _, err := os.Stat(filepath.Join(dir, portableMarker)); err != nil {
		return
	}
	portablePath = filepath.Join(dir, "acpmix_userdata")
}
