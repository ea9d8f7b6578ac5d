package strategy

// Params tunes the engine. Zero fields take the value from DefaultParams.
type Params struct {
	FastPeriod            int     `yaml:"fast_period"`
	SlowPeriod            int     `yaml:"slow_period"`
	RSIPeriod             int     `yaml:"rsi_period"`
	ATRPeriod             int     `yaml:"atr_period"`
	ADXPeriod             int     `yaml:"adx_period"`
	PivotRadius           int     `yaml:"pivot_radius"`
	AccountSize           float64 `yaml:"account_size"`
	RiskFraction          float64 `yaml:"risk_fraction"`
	StopATRMultiple       float64 `yaml:"stop_atr_multiple"`
	NearTargetATRMultiple float64 `yaml:"near_target_atr_multiple"`
	FarTargetATRMultiple  float64 `yaml:"far_target_atr_multiple"`
	RecentPatternBars     int     `yaml:"recent_pattern_bars"`
}

// ATRFallbackFraction is the share of the close used as ATR when the
// indicator is undefined.
const ATRFallbackFraction = 0.02

// DefaultParams returns the stock configuration.
func DefaultParams() Params {
	return Params{
		FastPeriod:            20,
		SlowPeriod:            50,
		RSIPeriod:             14,
		ATRPeriod:             14,
		ADXPeriod:             14,
		PivotRadius:           2,
		AccountSize:           10000,
		RiskFraction:          0.02,
		StopATRMultiple:       2,
		NearTargetATRMultiple: 2,
		FarTargetATRMultiple:  4,
		RecentPatternBars:     3,
	}
}

// WithDefaults fills zero fields from DefaultParams.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.FastPeriod <= 0 {
		p.FastPeriod = d.FastPeriod
	}
	if p.SlowPeriod <= 0 {
		p.SlowPeriod = d.SlowPeriod
	}
	if p.RSIPeriod <= 0 {
		p.RSIPeriod = d.RSIPeriod
	}
	if p.ATRPeriod <= 0 {
		p.ATRPeriod = d.ATRPeriod
	}
	if p.ADXPeriod <= 0 {
		p.ADXPeriod = d.ADXPeriod
	}
	if p.PivotRadius <= 0 {
		p.PivotRadius = d.PivotRadius
	}
	if p.AccountSize == 0 {
		p.AccountSize = d.AccountSize
	}
	if p.RiskFraction == 0 {
		p.RiskFraction = d.RiskFraction
	}
	if p.StopATRMultiple <= 0 {
		p.StopATRMultiple = d.StopATRMultiple
	}
	if p.NearTargetATRMultiple <= 0 {
		p.NearTargetATRMultiple = d.NearTargetATRMultiple
	}
	if p.FarTargetATRMultiple <= 0 {
		p.FarTargetATRMultiple = d.FarTargetATRMultiple
	}
	if p.RecentPatternBars <= 0 {
		p.RecentPatternBars = d.RecentPatternBars
	}
	return p
}
