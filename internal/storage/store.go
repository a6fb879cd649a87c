// Package storage persists headless run telemetry: a metadata.json and a
// trace.csv per run under a base directory. Traces are written for offline
// plotting and analysis; they are never replayed into a simulator.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

var ErrUnknownColumn = errors.New("storage: unknown trace column")

// Columns is the trace.csv header.
var Columns = []string{"tick", "time", "charges", "kinetic_energy", "net_charge", "reading", "merges"}

// TraceRow is one sampled tick.
type TraceRow struct {
	Tick          int
	Time          float64
	Charges       int
	KineticEnergy float64
	NetCharge     float64
	Reading       float64
	Merges        int
}

func (r TraceRow) Record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }
	return []string{
		strconv.Itoa(r.Tick),
		f(r.Time),
		strconv.Itoa(r.Charges),
		f(r.KineticEnergy),
		f(r.NetCharge),
		f(r.Reading),
		strconv.Itoa(r.Merges),
	}
}

// Column returns the named value as a float.
func (r TraceRow) Column(name string) (float64, error) {
	switch name {
	case "tick":
		return float64(r.Tick), nil
	case "time":
		return r.Time, nil
	case "charges":
		return float64(r.Charges), nil
	case "kinetic_energy":
		return r.KineticEnergy, nil
	case "net_charge":
		return r.NetCharge, nil
	case "reading":
		return r.Reading, nil
	case "merges":
		return float64(r.Merges), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

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
	ID        string             `json:"id" yaml:"id"`
	Scenario  string             `json:"scenario" yaml:"scenario"`
	Timestamp time.Time          `json:"timestamp" yaml:"timestamp"`
	Dt        float64            `json:"dt" yaml:"dt"`
	Ticks     int                `json:"ticks" yaml:"ticks"`
	Charges   int                `json:"initial_charges" yaml:"initial_charges"`
	Levels    []float64          `json:"levels,omitempty" yaml:"levels,omitempty"`
	Metrics   map[string]float64 `json:"metrics" yaml:"metrics"`
}

// Save writes a new run and returns its id. meta.ID and meta.Timestamp are
// filled in.
func (s *Store) Save(meta RunMetadata, rows []TraceRow) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Scenario, now.UnixMilli())
	meta.Timestamp = now
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

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(Columns); err != nil {
		return "", err
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
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

	runs := make([]RunMetadata, 0, len(entries))
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
	slices.SortFunc(runs, func(a, b RunMetadata) int { return a.Timestamp.Compare(b.Timestamp) })
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

// Latest returns the id of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("storage: no runs in %s", s.baseDir)
	}
	return runs[len(runs)-1].ID, nil
}

// LoadTrace reads every row of a run's trace. Malformed rows are skipped.
func (s *Store) LoadTrace(runID string) ([]TraceRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []TraceRow{}, nil
	}

	rows := make([]TraceRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row, err := parseRow(rec)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadColumn reads a single trace column.
func (s *Store) LoadColumn(runID, column string) ([]float64, error) {
	if !slices.Contains(Columns, column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	rows, err := s.LoadTrace(runID)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i], _ = r.Column(column)
	}
	return out, nil
}

func parseRow(rec []string) (TraceRow, error) {
	if len(rec) != len(Columns) {
		return TraceRow{}, fmt.Errorf("storage: row has %d fields", len(rec))
	}
	var (
		row  TraceRow
		errs []error
	)
	atoi := func(s string) int {
		v, err := strconv.Atoi(s)
		errs = append(errs, err)
		return v
	}
	atof := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		errs = append(errs, err)
		return v
	}
	row.Tick = atoi(rec[0])
	row.Time = atof(rec[1])
	row.Charges = atoi(rec[2])
	row.KineticEnergy = atof(rec[3])
	row.NetCharge = atof(rec[4])
	row.Reading = atof(rec[5])
	row.Merges = atoi(rec[6])
	return row, errors.Join(errs...)
}
