//go:build !wasm

package ebiten

import (
	"fmt"

	"github.com/jetsetilly/acpmix/resources"
)

const geometryFile = "window"

func onWindowOpen() (windowGeometry, error) {
	var geom windowGeometry

	s, err := resources.Read(geometryFile)
	if err != nil {
		return geom, err
	}

	// no saved geometry
	if s == "" {
		return geom, nil
	}

	_, err = fmt.Sscanf(s, "%d %d %d %d", &geom.x, &geom.y, &geom.w, &geom.h)
	if err != nil {
		return windowGeometry{}, fmt.Errorf("window geometry: %w", err)
	}

	return geom, nil
}

func onWindowClose(geom windowGeometry) error {
	if !geom.valid() {
		return nil
	}
	s := fmt.Sprintf("%d %d %d %d", geom.x, geom.y, geom.w, geom.h)
	return resources.Write(geometryFile, s)
}
