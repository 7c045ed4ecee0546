package store

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "progress.json")
}

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	s := Open(tempStorePath(t))

	if !s.IsUnlocked(0) {
		t.Error("level 0 not unlocked by default")
	}
	if s.IsUnlocked(1) {
		t.Error("level 1 unlocked by default")
	}
	if s.Stars(0) != 0 {
		t.Errorf("default stars = %d, want 0", s.Stars(0))
	}
	if _, ok := s.BestTime(0); ok {
		t.Error("default record has a best time")
	}
}

func TestRoundTrip(t *testing.T) {
	path := tempStorePath(t)

	s := Open(path)
	if err := s.RecordResult(0, 2, 71.5); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	reopened := Open(path)
	if got := reopened.Stars(0); got != 2 {
		t.Errorf("stars after reload = %d, want 2", got)
	}
	if best, ok := reopened.BestTime(0); !ok || best != 71.5 {
		t.Errorf("best time after reload = %v (%v), want 71.5", best, ok)
	}
	if !reopened.IsCompleted(0) {
		t.Error("completion lost on reload")
	}
	if !reopened.IsUnlocked(1) {
		t.Error("next-level unlock lost on reload")
	}
}

func TestResultsOnlyImprove(t *testing.T) {
	s := Open(tempStorePath(t))

	if err := s.RecordResult(3, 2, 80); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	// A worse run must not regress stars or best time.
	if err := s.RecordResult(3, 1, 120); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	if got := s.Stars(3); got != 2 {
		t.Errorf("stars = %d after worse run, want 2", got)
	}
	if best, _ := s.BestTime(3); best != 80 {
		t.Errorf("best time = %v after worse run, want 80", best)
	}

	if err := s.RecordResult(3, 3, 50); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	if got := s.Stars(3); got != 3 {
		t.Errorf("stars = %d after better run, want 3", got)
	}
	if best, _ := s.BestTime(3); best != 50 {
		t.Errorf("best time = %v after better run, want 50", best)
	}
}

func TestCompletedLevelsDeduplicated(t *testing.T) {
	s := Open(tempStorePath(t))
	s.RecordResult(2, 1, 100)
	s.RecordResult(2, 3, 40)

	count := 0
	for _, lvl := range s.rec.Progress.CompletedLevels {
		if lvl == 2 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("level 2 appears %d times in completed list, want 1", count)
	}
}

func TestVersionMismatchFallsBackToDefaults(t *testing.T) {
	path := tempStorePath(t)
	doc := `{"version": 99, "progress": {"unlockedLevels": [0,1,2,3], "completedLevels": [0,1,2]}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(path)
	if s.IsUnlocked(3) {
		t.Error("future-version record was honored")
	}
	if s.IsCompleted(0) {
		t.Error("future-version completions were honored")
	}
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	path := tempStorePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(path)
	if !s.IsUnlocked(0) || s.IsUnlocked(1) {
		t.Error("corrupt file did not degrade to defaults")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := Open(tempStorePath(t))
	s.RecordResult(0, 3, 42)
	s.RecordResult(1, 2, 88)

	backup, err := s.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	other := Open(tempStorePath(t))
	if err := other.Import(backup); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if got := other.Stars(0); got != 3 {
		t.Errorf("imported stars = %d, want 3", got)
	}
	if best, _ := other.BestTime(1); best != 88 {
		t.Errorf("imported best time = %v, want 88", best)
	}
	if !other.IsUnlocked(2) {
		t.Error("imported unlocks incomplete")
	}
}

func TestImportRejectsBadBackups(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{broken"},
		{"missing progress", `{"version": 1}`},
		{"wrong types", `{"version": 1, "progress": {"unlockedLevels": "all", "completedLevels": []}}`},
		{"wrong version", `{"version": 2, "progress": {"unlockedLevels": [0], "completedLevels": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open(tempStorePath(t))
			s.RecordResult(0, 3, 30)

			if err := s.Import([]byte(tt.data)); err == nil {
				t.Fatal("Import succeeded, want error")
			}
			// The existing record must survive a rejected import.
			if got := s.Stars(0); got != 3 {
				t.Errorf("stars = %d after rejected import, want 3", got)
			}
		})
	}
}

func TestImportKeepsRecordWhenSaveFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "progress")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	s := Open(filepath.Join(dir, "progress.json"))
	if err := s.RecordResult(0, 3, 30); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	// Removing the directory makes the atomic save fail; a valid backup
	// must then be rejected without replacing the in-memory record.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	backup := `{"version": 1, "progress": {"unlockedLevels": [0, 1, 2], "completedLevels": [0], "levelStars": {"0": 1}, "levelBestTimes": {"0": 999}}}`
	if err := s.Import([]byte(backup)); err == nil {
		t.Fatal("Import succeeded with an unwritable store")
	}

	if got := s.Stars(0); got != 3 {
		t.Errorf("stars = %d after failed import, want 3", got)
	}
	if best, _ := s.BestTime(0); best != 30 {
		t.Errorf("best time = %v after failed import, want 30", best)
	}
	if s.IsUnlocked(2) {
		t.Error("failed import leaked the backup's unlocks")
	}
}

func TestSaveIsAtomicReplacement(t *testing.T) {
	path := tempStorePath(t)
	s := Open(path)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.RecordResult(0, 1, 200)

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "progress.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only progress.json", names)
	}
}
