package calculator

import (
	"errors"

	"TradingAdvisor/internal/model"
)

// RSI computes the Relative Strength Index with simple rolling averages of
// gains and losses over period changes. A point needs period+1 closes.
//
// avg_loss == 0 yields 100 when there were gains and 50 for a flat window,
// so the value never divides by zero.
func RSI(closes []float64, period int) Series {
	out := invalidSeries(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var sumGain, sumLoss float64
	for i := 1; i < len(closes); i++ {
		sumGain += gains[i]
		sumLoss += losses[i]
		if i > period {
			sumGain -= gains[i-period]
			sumLoss -= losses[i-period]
		}
		if i < period {
			continue
		}
		out[i] = model.Some(rsiValue(sumGain/float64(period), sumLoss/float64(period)))
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	// Rolling sums can leave tiny negative residue after subtraction.
	if avgLoss <= 1e-12 {
		if avgGain <= 1e-12 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// CalculateRSI returns the RSI for the most recent bar.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	v, ok := RSI(extractCloses(bars), period).Last()
	if !ok {
		return 0, ErrInsufficientData
	}
	return v, nil
}
