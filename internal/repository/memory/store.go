package memory

import (
	"sync"

	"agrorelay/internal/model"
)

// Store is the process-lifetime StateStore. Every operation is a single-key
// overwrite or read, so one RWMutex is enough.
type Store struct {
	mu          sync.RWMutex
	commands    map[string]string
	autocapture map[string]model.Autocapture
	results     map[string]model.Result
}

// NewStore creates an empty in-memory state store.
func NewStore() *Store {
	return &Store{
		commands:    make(map[string]string),
		autocapture: make(map[string]model.Autocapture),
		results:     make(map[string]model.Result),
	}
}

func (s *Store) SetCommand(deviceID, command string) error {
	s.mu.Lock()
	s.commands[deviceID] = command
	s.mu.Unlock()
	return nil
}

func (s *Store) GetCommand(deviceID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	command, ok := s.commands[deviceID]
	return command, ok, nil
}

func (s *Store) SetAutocapture(deviceID string, cfg model.Autocapture) error {
	s.mu.Lock()
	s.autocapture[deviceID] = cfg
	s.mu.Unlock()
	return nil
}

func (s *Store) GetAutocapture(deviceID string) (model.Autocapture, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.autocapture[deviceID]
	return cfg, ok, nil
}

func (s *Store) SetResult(deviceID string, result model.Result) error {
	s.mu.Lock()
	s.results[deviceID] = result.Clone()
	s.mu.Unlock()
	return nil
}

func (s *Store) GetResult(deviceID string) (model.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[deviceID]
	return result.Clone(), ok, nil
}

// Close is a no-op; it exists to satisfy repository.StateStore.
func (s *Store) Close() error {
	return nil
}
