package memory

import (
	"fmt"
	"sync"
	"testing"

	"agrorelay/internal/model"
	"agrorelay/internal/repository"
)

var _ repository.StateStore = (*Store)(nil)

func TestStore_UnknownDevice(t *testing.T) {
	s := NewStore()

	if _, found, _ := s.GetCommand("nope"); found {
		t.Error("Expected no command for unknown device")
	}
	if _, found, _ := s.GetAutocapture("nope"); found {
		t.Error("Expected no autocapture for unknown device")
	}
	if result, found, _ := s.GetResult("nope"); found || result != nil {
		t.Errorf("Expected no result for unknown device, got %v", result)
	}
}

func TestStore_LastWriteWins(t *testing.T) {
	s := NewStore()

	s.SetCommand("d1", model.CommandCapture)
	s.SetCommand("d1", model.CommandPumpOn)

	command, found, err := s.GetCommand("d1")
	if err != nil || !found {
		t.Fatalf("GetCommand failed: found=%v err=%v", found, err)
	}
	if command != model.CommandPumpOn {
		t.Errorf("Expected PUMP_ON, got %s", command)
	}

	s.SetAutocapture("d1", model.Autocapture{Enabled: true, Interval: 5})
	cfg, _, _ := s.GetAutocapture("d1")
	if !cfg.Enabled || cfg.Interval != 5 {
		t.Errorf("Unexpected autocapture: %+v", cfg)
	}
}

func TestStore_ResultIsCopied(t *testing.T) {
	s := NewStore()

	original := model.Result{"status": "Healthy"}
	s.SetResult("d1", original)
	original["status"] = "mutated"

	stored, _, _ := s.GetResult("d1")
	if stored.Status() != "Healthy" {
		t.Errorf("Stored result should not follow caller mutation, got %s", stored.Status())
	}

	stored["status"] = "mutated again"
	again, _, _ := s.GetResult("d1")
	if again.Status() != "Healthy" {
		t.Errorf("Returned result should be a copy, got %s", again.Status())
	}
}

func TestStore_ConcurrentDevices(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("dev%d", i)
			for j := 0; j < 50; j++ {
				s.SetCommand(id, fmt.Sprintf("CMD_%d", j))
				s.GetCommand(id)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		command, _, _ := s.GetCommand(fmt.Sprintf("dev%d", i))
		if command != "CMD_49" {
			t.Errorf("dev%d: expected CMD_49, got %s", i, command)
		}
	}
}
