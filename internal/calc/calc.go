// Package calc holds the stand-alone trading calculators. They share no
// state with the position engine.
package calc

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrInvalidInput = errors.New("invalid calculator input")
	ErrImpossible   = errors.New("target cannot be reached")
)

func invalid(msg string) error {
	return errors.Wrap(ErrInvalidInput, msg)
}

// PositionSize is the unit quantity that loses exactly risk when price
// moves from entry to stop.
func PositionSize(risk, entry, stop float64) (float64, error) {
	switch {
	case risk <= 0:
		return 0, invalid("risk must be positive")
	case entry <= 0 || stop <= 0:
		return 0, invalid("entry and stop must be positive")
	case entry == stop:
		return 0, invalid("entry and stop must differ")
	}
	return risk / math.Abs(entry-stop), nil
}

// Kelly returns the Kelly fraction in percent for a win rate (percent)
// and a reward:risk ratio. Negative means the bet has no edge.
func Kelly(winRatePct, rewardRisk float64) (float64, error) {
	switch {
	case winRatePct < 0 || winRatePct > 100:
		return 0, invalid("win rate must be within 0..100")
	case rewardRisk <= 0:
		return 0, invalid("reward:risk must be positive")
	}
	p := winRatePct / 100
	q := 1 - p
	return (rewardRisk*p - q) / rewardRisk * 100, nil
}

// DrawdownRecovery is the gain in percent needed to recover from lossPct.
func DrawdownRecovery(lossPct float64) (float64, error) {
	switch {
	case lossPct < 0:
		return 0, invalid("loss must not be negative")
	case lossPct >= 100:
		return 0, ErrImpossible
	}
	return (1/(1-lossPct/100) - 1) * 100, nil
}

// AverageDown is how many units to buy at price to bring the average of
// qty units held at avg down to target. Zero means nothing needs buying.
func AverageDown(qty, avg, price, target float64) (float64, error) {
	if qty <= 0 || avg <= 0 || price <= 0 || target <= 0 {
		return 0, invalid("all inputs must be positive")
	}
	if price >= avg || target >= avg {
		return 0, nil
	}
	if target <= price {
		return 0, ErrImpossible
	}
	need := qty * (target - avg) / (price - target)
	return math.Max(need, 0), nil
}

// Compound grows principal by ratePct per period over periods.
func Compound(principal, ratePct, periods float64) (float64, error) {
	switch {
	case principal <= 0:
		return 0, invalid("principal must be positive")
	case periods <= 0:
		return 0, invalid("periods must be positive")
	case ratePct <= -100:
		return 0, invalid("rate must be above -100")
	}
	return principal * math.Pow(1+ratePct/100, periods), nil
}

type Danger string

const (
	DangerHigh   Danger = "HIGH"
	DangerMedium Danger = "MEDIUM"
	DangerLow    Danger = "LOW"
)

type RuinStats struct {
	ExpectedValue float64 `json:"expected_value"`
	StepsToDeath  int     `json:"steps_to_death"`
	Danger        Danger  `json:"danger"`
}

// Ruin estimates per-trade expectancy (in R) and how many straight
// losses at riskPct of the account wipe it out.
func Ruin(winRatePct, rewardRisk, riskPct float64) (RuinStats, error) {
	switch {
	case winRatePct < 0 || winRatePct > 100:
		return RuinStats{}, invalid("win rate must be within 0..100")
	case rewardRisk <= 0:
		return RuinStats{}, invalid("reward:risk must be positive")
	case riskPct <= 0 || riskPct > 100:
		return RuinStats{}, invalid("risk per trade must be within (0, 100]")
	}

	w := winRatePct / 100
	stats := RuinStats{
		ExpectedValue: w*rewardRisk - (1 - w),
		StepsToDeath:  int(math.Floor(100 / riskPct)),
	}
	switch {
	case stats.StepsToDeath < 10:
		stats.Danger = DangerHigh
	case stats.StepsToDeath < 20:
		stats.Danger = DangerMedium
	default:
		stats.Danger = DangerLow
	}
	return stats, nil
}
