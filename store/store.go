// Package store persists level progress as a versioned JSON document.
// Reads degrade to defaults rather than failing; saved results only ever
// improve, and unlocking is monotonic.
package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaVersion gates loads and imports: a document with any other
// version is discarded in favor of defaults (no migration).
const SchemaVersion = 1

//go:embed schema.json
var backupSchemaJSON string

var backupSchema = jsonschema.MustCompileString("schema.json", backupSchemaJSON)

// Progress holds the per-level progression state.
type Progress struct {
	UnlockedLevels  []int           `json:"unlockedLevels"`
	CompletedLevels []int           `json:"completedLevels"`
	LevelStars      map[int]int     `json:"levelStars"`
	LevelBestTimes  map[int]float64 `json:"levelBestTimes"`
}

// Record is the full persisted document. Animations and sandbox scenes
// are carried opaquely for the presentation layer.
type Record struct {
	Version       int                        `json:"version"`
	Progress      Progress                   `json:"progress"`
	Animations    map[string]json.RawMessage `json:"animations"`
	SandboxScenes map[string]json.RawMessage `json:"sandboxScenes"`
	Preferences   map[string]any             `json:"preferences"`
}

func defaultRecord() Record {
	return Record{
		Version: SchemaVersion,
		Progress: Progress{
			UnlockedLevels:  []int{0},
			CompletedLevels: []int{},
			LevelStars:      map[int]int{},
			LevelBestTimes:  map[int]float64{},
		},
		Animations:    map[string]json.RawMessage{},
		SandboxScenes: map[string]json.RawMessage{},
		Preferences:   map[string]any{},
	}
}

// Store owns the persisted record and its file location.
type Store struct {
	path string
	rec  Record
}

// Open loads the record at path, falling back to a default record on any
// read failure or version mismatch. It never returns an error.
func Open(path string) *Store {
	if path == "" {
		path = "progress.json"
	}
	s := &Store{path: path, rec: defaultRecord()}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("reading progress file, using defaults", "path", path, "error", err)
		}
		return s
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Warn("parsing progress file, using defaults", "path", path, "error", err)
		return s
	}
	if rec.Version != SchemaVersion {
		slog.Warn("progress schema version mismatch, using defaults",
			"path", path, "got", rec.Version, "want", SchemaVersion)
		return s
	}

	normalize(&rec)
	s.rec = rec
	return s
}

func normalize(rec *Record) {
	if rec.Progress.UnlockedLevels == nil {
		rec.Progress.UnlockedLevels = []int{0}
	}
	if rec.Progress.CompletedLevels == nil {
		rec.Progress.CompletedLevels = []int{}
	}
	if rec.Progress.LevelStars == nil {
		rec.Progress.LevelStars = map[int]int{}
	}
	if rec.Progress.LevelBestTimes == nil {
		rec.Progress.LevelBestTimes = map[int]float64{}
	}
}

// Save writes the record atomically (temp file + rename).
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling progress: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".progress-*.json")
	if err != nil {
		return fmt.Errorf("creating temp progress file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing progress file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing progress file: %w", err)
	}
	return nil
}

// RecordResult saves a completed level: stars and best time only ever
// improve, completing a level unlocks the next, and unlocking is
// monotonic.
func (s *Store) RecordResult(level, stars int, elapsed float64) error {
	p := &s.rec.Progress

	if stars > p.LevelStars[level] {
		p.LevelStars[level] = stars
	}
	if best, ok := p.LevelBestTimes[level]; !ok || elapsed < best {
		p.LevelBestTimes[level] = elapsed
	}
	if !containsInt(p.CompletedLevels, level) {
		p.CompletedLevels = append(p.CompletedLevels, level)
	}
	s.unlock(level)
	s.unlock(level + 1)

	return s.Save()
}

func (s *Store) unlock(level int) {
	if !containsInt(s.rec.Progress.UnlockedLevels, level) {
		s.rec.Progress.UnlockedLevels = append(s.rec.Progress.UnlockedLevels, level)
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Stars returns the best star count recorded for a level.
func (s *Store) Stars(level int) int {
	return s.rec.Progress.LevelStars[level]
}

// BestTime returns the best completion time recorded for a level.
func (s *Store) BestTime(level int) (float64, bool) {
	t, ok := s.rec.Progress.LevelBestTimes[level]
	return t, ok
}

// IsUnlocked reports whether a level is playable.
func (s *Store) IsUnlocked(level int) bool {
	return containsInt(s.rec.Progress.UnlockedLevels, level)
}

// IsCompleted reports whether a level has ever been completed.
func (s *Store) IsCompleted(level int) bool {
	return containsInt(s.rec.Progress.CompletedLevels, level)
}

// Export serializes the full record as a backup document.
func (s *Store) Export() ([]byte, error) {
	data, err := json.MarshalIndent(s.rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("exporting progress: %w", err)
	}
	return data, nil
}

// Import replaces the record with a backup document. Malformed input is
// rejected without touching the existing record.
func (s *Store) Import(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing backup: %w", err)
	}
	if err := backupSchema.Validate(doc); err != nil {
		return fmt.Errorf("validating backup: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decoding backup: %w", err)
	}
	if rec.Version != SchemaVersion {
		return fmt.Errorf("backup schema version %d, want %d", rec.Version, SchemaVersion)
	}

	normalize(&rec)
	prev := s.rec
	s.rec = rec
	if err := s.Save(); err != nil {
		s.rec = prev
		return err
	}
	return nil
}
