package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/markdrayton/densitygrid/grid"
	"github.com/markdrayton/densitygrid/source"
)

const (
	formatJSON    = "json"
	formatGeoJSON = "geojson"
)

func marshalResult(r grid.Result[source.Point], format string) ([]byte, error) {
	switch format {
	case formatJSON:
		return json.Marshal(r)
	case formatGeoJSON:
		return json.Marshal(r.FeatureCollection())
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// doWriteFile writes data next to path and renames it into place so readers
// never see a partial file.
func doWriteFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".densitygrid")
	if err != nil {
		return err
	}
	tmpFile := f.Name()

	_, err = f.Write(data)
	if err != nil {
		f.Close()
		os.Remove(tmpFile)
		return err
	}

	err = f.Close()
	if err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}

func writeResult(path, format string, r grid.Result[source.Point]) error {
	data, err := marshalResult(r, format)
	if err != nil {
		return err
	}
	err = doWriteFile(path, data)
	if err != nil {
		return fmt.Errorf("couldn't write %s: %w", path, err)
	}
	log.Debugf("wrote %d cells to %s", len(r.LayerData), path)
	return nil
}
