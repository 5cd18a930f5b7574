package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"agrorelay/internal/model"
)

// StateRepository implements repository.StateStore on top of SQLite so the
// mailbox, autocapture settings and results survive a restart.
type StateRepository struct {
	db *DB
}

// NewStateRepository creates a new SQLite state repository.
func NewStateRepository(db *DB) *StateRepository {
	return &StateRepository{db: db}
}

// SetCommand upserts the command slot of a device.
func (r *StateRepository) SetCommand(deviceID, command string) error {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().Exec(`
		INSERT INTO commands (pi_id, command, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(pi_id) DO UPDATE SET command = excluded.command, updated_at = CURRENT_TIMESTAMP
	`, deviceID, command)
	if err != nil {
		return fmt.Errorf("failed to save command: %w", err)
	}
	return nil
}

// GetCommand retrieves the command slot of a device.
func (r *StateRepository) GetCommand(deviceID string) (string, bool, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var command string
	err := r.db.Conn().QueryRow(`SELECT command FROM commands WHERE pi_id = ?`, deviceID).Scan(&command)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get command: %w", err)
	}
	return command, true, nil
}

// SetAutocapture upserts the autocapture configuration of a device.
func (r *StateRepository) SetAutocapture(deviceID string, cfg model.Autocapture) error {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().Exec(`
		INSERT INTO autocapture (pi_id, enabled, interval, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(pi_id) DO UPDATE SET enabled = excluded.enabled, interval = excluded.interval, updated_at = CURRENT_TIMESTAMP
	`, deviceID, cfg.Enabled, cfg.Interval)
	if err != nil {
		return fmt.Errorf("failed to save autocapture: %w", err)
	}
	return nil
}

// GetAutocapture retrieves the autocapture configuration of a device.
func (r *StateRepository) GetAutocapture(deviceID string) (model.Autocapture, bool, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var cfg model.Autocapture
	err := r.db.Conn().QueryRow(`SELECT enabled, interval FROM autocapture WHERE pi_id = ?`, deviceID).
		Scan(&cfg.Enabled, &cfg.Interval)
	if err == sql.ErrNoRows {
		return model.Autocapture{}, false, nil
	}
	if err != nil {
		return model.Autocapture{}, false, fmt.Errorf("failed to get autocapture: %w", err)
	}
	return cfg, true, nil
}

// SetResult stores the latest result of a device as a JSON document.
func (r *StateRepository) SetResult(deviceID string, result model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	r.db.Lock()
	defer r.db.Unlock()

	_, err = r.db.Conn().Exec(`
		INSERT INTO results (pi_id, result, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(pi_id) DO UPDATE SET result = excluded.result, updated_at = CURRENT_TIMESTAMP
	`, deviceID, string(data))
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetResult retrieves the latest result of a device.
func (r *StateRepository) GetResult(deviceID string) (model.Result, bool, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var data string
	err := r.db.Conn().QueryRow(`SELECT result FROM results WHERE pi_id = ?`, deviceID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get result: %w", err)
	}

	var result model.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode result: %w", err)
	}
	return result, true, nil
}

// Close closes the underlying database.
func (r *StateRepository) Close() error {
	return r.db.Close()
}
