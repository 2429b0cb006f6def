// Package storage keeps a record of offline renders: what was rendered and
// the path the camera and light took.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vizanim/internal/behave"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
	Frames     int       `json:"frames"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Elapsed    float64   `json:"elapsed"`
	Behaviours []string  `json:"behaviours"`
	Outputs    []string  `json:"outputs,omitempty"`
}

// Track is the per-frame camera and light position of a run.
type Track struct {
	Camera []mgl64.Vec3
	Light  []mgl64.Vec3
}

func (t *Track) Len() int { return len(t.Camera) }

// Recorder is a behaviour that appends the scene's camera and light
// positions to a track on every tick. Put it last so it sees the positions
// the frame is drawn with.
type Recorder struct {
	Track Track
}

func (r *Recorder) Behave(ctx *behave.TickContext) error {
	r.Track.Camera = append(r.Track.Camera, ctx.Scene.CameraPosition)
	r.Track.Light = append(r.Track.Light, ctx.Scene.Light)
	return nil
}

// Save writes the run's metadata and track and returns its id.
func (s *Store) Save(meta RunMetadata, track *Track) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Source, meta.Timestamp.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "track.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"frame", "cx", "cy", "cz", "lx", "ly", "lz"}); err != nil {
		return "", err
	}
	if track != nil {
		for i := range track.Camera {
			row := []string{strconv.Itoa(i)}
			for _, v := range []mgl64.Vec3{track.Camera[i], track.Light[i]} {
				for _, x := range v {
					row = append(row, strconv.FormatFloat(x, 'f', 6, 64))
				}
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrack(runID string) (*Track, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "track.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	track := &Track{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 7 {
			return nil, fmt.Errorf("track %s line %d: expected 7 fields, got %d", runID, i+1, len(record))
		}
		var vals [6]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("track %s line %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		track.Camera = append(track.Camera, mgl64.Vec3{vals[0], vals[1], vals[2]})
		track.Light = append(track.Light, mgl64.Vec3{vals[3], vals[4], vals[5]})
	}
	return track, nil
}
