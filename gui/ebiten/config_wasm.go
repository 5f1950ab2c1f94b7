//go:build wasm

package ebiten

func onWindowOpen() (windowGeometry, error) {
	return windowGeometry{}, nil
}

func onWindowClose(_ windowGeometry) error {
	return nil
}
