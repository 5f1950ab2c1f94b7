//go:build !release

package resources

const configDir = ".acpmix"

func resourcePath() (string, error) {
	return configDir, nil
}
