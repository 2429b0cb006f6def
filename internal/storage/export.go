package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	RunMetadata
	Camera [][3]float64 `json:"camera"`
	Light  [][3]float64 `json:"light"`
}

func newExportData(meta *RunMetadata, track *Track) ExportData {
	data := ExportData{
		RunMetadata: *meta,
		Camera:      make([][3]float64, track.Len()),
		Light:       make([][3]float64, track.Len()),
	}
	for i := range track.Camera {
		data.Camera[i] = track.Camera[i]
		data.Light[i] = track.Light[i]
	}
	return data
}

// ExportJSON writes a run and its track as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, track *Track) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, track))
}

func ExportJSONFile(path string, meta *RunMetadata, track *Track) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportJSON(file, meta, track); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
