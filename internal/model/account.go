package model

import "time"

// AccountState is the persisted sizing configuration of the user's account.
type AccountState struct {
	AccountSize  float64   `yaml:"account_size"`
	RiskFraction float64   `yaml:"risk_fraction"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// RiskBudget is the amount at stake per trade.
func (s AccountState) RiskBudget() float64 {
	return s.AccountSize * s.RiskFraction
}
