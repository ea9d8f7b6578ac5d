package account

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"TradingAdvisor/internal/model"
	"TradingAdvisor/internal/strategy"
)

var (
	ErrInvalidSize     = errors.New("account size must be positive")
	ErrInvalidFraction = errors.New("risk fraction must be in (0, 0.1]")
)

// MaxRiskFraction caps the per-trade risk a user can set from chat.
const MaxRiskFraction = 0.1

// Manager guards the account state and persists every change.
type Manager struct {
	mu       sync.Mutex
	state    *model.AccountState
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string, defaults strategy.Params) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	// Initialize if fresh state
	defaults = defaults.WithDefaults()
	if !validSize(state.AccountSize) {
		state.AccountSize = defaults.AccountSize
	}
	if !validFraction(state.RiskFraction) {
		state.RiskFraction = defaults.RiskFraction
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetState returns a copy of the current account state.
func (m *Manager) GetState() model.AccountState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// SetAccountSize updates the account size and returns the state before the change.
func (m *Manager) SetAccountSize(size float64) (model.AccountState, error) {
	if !validSize(size) {
		return model.AccountState{}, fmt.Errorf("%w: %.2f", ErrInvalidSize, size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	before := *m.state
	m.state.AccountSize = size
	if err := m.save(); err != nil {
		m.state.AccountSize = before.AccountSize
		return before, fmt.Errorf("save account state: %w", err)
	}
	return before, nil
}

// SetRiskFraction updates the per-trade risk fraction and returns the state before the change.
func (m *Manager) SetRiskFraction(fraction float64) (model.AccountState, error) {
	if !validFraction(fraction) {
		return model.AccountState{}, fmt.Errorf("%w: %.4f", ErrInvalidFraction, fraction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	before := *m.state
	m.state.RiskFraction = fraction
	if err := m.save(); err != nil {
		m.state.RiskFraction = before.RiskFraction
		return before, fmt.Errorf("save account state: %w", err)
	}
	return before, nil
}

// Apply returns p with the account size and risk fraction taken from the state.
func (m *Manager) Apply(p strategy.Params) strategy.Params {
	s := m.GetState()
	p.AccountSize = s.AccountSize
	p.RiskFraction = s.RiskFraction
	return p
}

func validSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// validFraction also rejects NaN, which fails every comparison.
func validFraction(v float64) bool {
	return v > 0 && v <= MaxRiskFraction
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
