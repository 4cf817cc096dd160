package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/rigidsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Bodies      int                `json:"bodies"`
	Masses      []float64          `json:"masses"`
	Metrics     map[string]float64 `json:"metrics"`
	EnergyDrift float64            `json:"energy_drift"`
}

// Save writes a run directory named after the scenario and the current
// time. The caller fills Scenario, Seed, Dt, Duration and Masses; the rest
// is taken from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(meta.Scenario, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics
	meta.EnergyDrift = result.EnergyDrift
	if len(result.Samples) > 0 {
		meta.Bodies = len(result.Samples[0].Bodies)
	}

	if err := writeRun(runDir, meta, result.Samples); err != nil {
		// never leave a half-written run behind
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save %s: %w", runID, err)
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, samples []sim.Snapshot) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return err
	}
	if err := WriteCSV(csvFile, samples); err != nil {
		csvFile.Close()
		return err
	}
	return csvFile.Close()
}

func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

// Header returns the states.csv column names for n bodies.
func Header(n int) []string {
	header := []string{"time", "energy"}
	for i := 0; i < n; i++ {
		for _, c := range []string{"x", "y", "z", "qw", "qx", "qy", "qz", "lx", "ly", "lz"} {
			header = append(header, fmt.Sprintf("b%d_%s", i, c))
		}
	}
	return header
}

// WriteCSV writes samples in the states.csv layout.
func WriteCSV(out io.Writer, samples []sim.Snapshot) error {
	w := csv.NewWriter(out)

	if len(samples) == 0 {
		w.Flush()
		return w.Error()
	}

	if err := w.Write(Header(len(samples[0].Bodies))); err != nil {
		return err
	}

	for _, snap := range samples {
		row := []string{formatFloat(snap.Time), formatFloat(snap.Energy)}
		for _, b := range snap.Bodies {
			q := b.Orientation
			vals := []float64{
				b.Position[0], b.Position[1], b.Position[2],
				q.W, q.V[0], q.V[1], q.V[2],
				b.AngularMomentum[0], b.AngularMomentum[1], b.AngularMomentum[2],
			}
			for _, v := range vals {
				row = append(row, formatFloat(v))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// List returns every readable run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// CSVPath is the location of a run's states.csv.
func (s *Store) CSVPath(runID string) string {
	return filepath.Join(s.baseDir, runID, statesFile)
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(s.CSVPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadSeries(file)
}

// ExportJSON writes the metadata and every sample row as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, series *Series) error {
	data := struct {
		*RunMetadata
		Columns []string    `json:"columns"`
		Rows    [][]float64 `json:"rows"`
	}{
		RunMetadata: meta,
		Columns:     series.Header,
		Rows:        series.Rows,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
