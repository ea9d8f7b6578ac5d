package account

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"TradingAdvisor/internal/model"
)

// LoadState reads the account state from a YAML file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*model.AccountState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.AccountState{}, nil
		}
		return nil, err
	}
	var state model.AccountState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse account state: %w", err)
	}
	return &state, nil
}

// SaveState writes the account state to a YAML file, creating its directory.
func SaveState(filePath string, state *model.AccountState) error {
	state.UpdatedAt = time.Now()
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0o644)
}
