package resources

import (
	"errors"
	iofs "io/fs"
	"os"
)

// Read the named resource. A resource that has never been written is not an
// error, the empty string is returned.
func Read(filename string) (string, error) {
	pth, err := JoinPath(filename)
	if err != nil {
		return "", err
	}

	b, err := os.ReadFile(pth)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(b), nil
}

// Write the named resource, replacing any previous content. The content is
// written to a temporary file which is then renamed, so an interrupted write
// leaves the previous content in place.
func Write(filename string, content string) error {
	return WriteBytes(filename, []byte(content))
}

// WriteBytes is the same as Write() but for binary content.
func WriteBytes(filename string, content []byte) error {
	pth, err := JoinPath(filename)
	if err != nil {
		return err
	}

	tmp := pth + ".tmp"
	err = os.WriteFile(tmp, content, 0600)
	if err != nil {
		return err
	}
	err = os.Rename(tmp, pth)
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
