package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"agrorelay/internal/model"
	"agrorelay/internal/repository"
)

var _ repository.StateStore = (*StateRepository)(nil)

func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "state.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db, dbPath
}

func TestDatabase_Connection(t *testing.T) {
	db, dbPath := setupTestDB(t)
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should exist")
	}
}

func TestStateRepository_UnknownDevice(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewStateRepository(db)
	defer repo.Close()

	if _, found, err := repo.GetCommand("ghost"); err != nil || found {
		t.Errorf("Expected no command, found=%v err=%v", found, err)
	}
	if _, found, err := repo.GetAutocapture("ghost"); err != nil || found {
		t.Errorf("Expected no autocapture, found=%v err=%v", found, err)
	}
	if _, found, err := repo.GetResult("ghost"); err != nil || found {
		t.Errorf("Expected no result, found=%v err=%v", found, err)
	}
}

func TestStateRepository_CommandUpsert(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewStateRepository(db)
	defer repo.Close()

	if err := repo.SetCommand("AGROD1", model.CommandCapture); err != nil {
		t.Fatalf("SetCommand failed: %v", err)
	}
	if err := repo.SetCommand("AGROD1", model.CommandPumpOn); err != nil {
		t.Fatalf("SetCommand failed: %v", err)
	}

	command, found, err := repo.GetCommand("AGROD1")
	if err != nil || !found {
		t.Fatalf("GetCommand failed: found=%v err=%v", found, err)
	}
	if command != model.CommandPumpOn {
		t.Errorf("Expected PUMP_ON, got %s", command)
	}
}

func TestStateRepository_Autocapture(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewStateRepository(db)
	defer repo.Close()

	want := model.Autocapture{Enabled: true, Interval: 2.5}
	if err := repo.SetAutocapture("AGROD1", want); err != nil {
		t.Fatalf("SetAutocapture failed: %v", err)
	}

	got, found, err := repo.GetAutocapture("AGROD1")
	if err != nil || !found {
		t.Fatalf("GetAutocapture failed: found=%v err=%v", found, err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestStateRepository_ResultRoundTrip(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewStateRepository(db)
	defer repo.Close()

	result := model.Result{
		"crop":       "Cotton",
		"status":     "Diseased",
		"confidence": "High",
	}
	if err := repo.SetResult("AGROD1", result); err != nil {
		t.Fatalf("SetResult failed: %v", err)
	}
	if err := repo.SetResult("AGROD1", model.Result{"status": "Healthy", "confidence": 0.5}); err != nil {
		t.Fatalf("SetResult failed: %v", err)
	}

	got, found, err := repo.GetResult("AGROD1")
	if err != nil || !found {
		t.Fatalf("GetResult failed: found=%v err=%v", found, err)
	}
	if got.Status() != "Healthy" {
		t.Errorf("Expected overwritten result, got %v", got)
	}
	if _, ok := got["crop"]; ok {
		t.Errorf("Results must be replaced, not merged: %v", got)
	}
	if got["confidence"] != 0.5 {
		t.Errorf("Expected confidence 0.5, got %v", got["confidence"])
	}
}

func TestStateRepository_SurvivesReopen(t *testing.T) {
	db, dbPath := setupTestDB(t)
	repo := NewStateRepository(db)
	repo.SetCommand("AGROD1", model.CommandPumpOff)
	repo.Close()

	db2, err := New(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	repo2 := NewStateRepository(db2)
	defer repo2.Close()

	command, found, err := repo2.GetCommand("AGROD1")
	if err != nil || !found || command != model.CommandPumpOff {
		t.Errorf("Expected PUMP_OFF after reopen, got %q found=%v err=%v", command, found, err)
	}
}
