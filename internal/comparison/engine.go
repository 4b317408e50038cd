package comparison

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/SensanoJM/dcompc-cms/internal/domain"
)

// FieldChange is the variance of a single field between two snapshots.
type FieldChange struct {
	Delta         float64       `json:"delta"`
	PercentChange PercentChange `json:"percent_change"`
}

// PercentChange is either a numeric relative change or a sentinel for the
// zero-baseline transitions: "new" when a value appeared from nothing and
// "closed" when it vanished to nothing. The sentinel cases must render
// distinctly from a literal 0% or a very large percentage, so they marshal
// as strings while numeric changes marshal as numbers.
type PercentChange struct {
	value    float64
	sentinel string
}

const (
	sentinelNew    = "new"
	sentinelClosed = "closed"
)

func percentOf(value float64) PercentChange { return PercentChange{value: value} }
func percentNew() PercentChange             { return PercentChange{sentinel: sentinelNew} }
func percentClosed() PercentChange          { return PercentChange{sentinel: sentinelClosed} }

// IsNew reports whether the baseline was zero and the value appeared.
func (p PercentChange) IsNew() bool { return p.sentinel == sentinelNew }

// IsClosed reports whether the baseline was zero and the value vanished.
func (p PercentChange) IsClosed() bool { return p.sentinel == sentinelClosed }

// Value returns the numeric percentage; only meaningful when neither
// sentinel is set.
func (p PercentChange) Value() float64 { return p.value }

func (p PercentChange) MarshalJSON() ([]byte, error) {
	if p.sentinel != "" {
		return json.Marshal(p.sentinel)
	}
	return []byte(strconv.FormatFloat(p.value, 'f', -1, 64)), nil
}

func (p *PercentChange) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		p.sentinel = asString
		p.value = 0
		return nil
	}
	p.sentinel = ""
	return json.Unmarshal(data, &p.value)
}

// Compare computes per-field deltas and percentage changes between two
// snapshots of the same client, covering the six currency fields plus the
// derived net worth. The zero transitions are first-class rules: a value
// appearing from a zero baseline is "new", a value dropping to zero is
// "closed", and the percent change is 0 only when both sides are zero.
func Compare(current, baseline domain.SnapshotFields) map[string]FieldChange {
	pairs := []struct {
		name     string
		current  float64
		baseline float64
	}{
		{"fixed_deposit", current.FixedDeposit, baseline.FixedDeposit},
		{"savings", current.Savings, baseline.Savings},
		{"loan_balance", current.LoanBalance, baseline.LoanBalance},
		{"arrears", current.Arrears, baseline.Arrears},
		{"fines", current.Fines, baseline.Fines},
		{"mortuary", current.Mortuary, baseline.Mortuary},
		{"net_worth", current.NetWorth(), baseline.NetWorth()},
	}

	result := make(map[string]FieldChange, len(pairs))
	for _, pair := range pairs {
		result[pair.name] = fieldChange(pair.current, pair.baseline)
	}
	return result
}

func fieldChange(current, baseline float64) FieldChange {
	delta := current - baseline

	switch {
	case baseline == 0 && current == 0:
		return FieldChange{Delta: 0, PercentChange: percentOf(0)}
	case baseline == 0:
		return FieldChange{Delta: delta, PercentChange: percentNew()}
	case current == 0:
		return FieldChange{Delta: delta, PercentChange: percentClosed()}
	}

	return FieldChange{
		Delta:         delta,
		PercentChange: percentOf(delta / math.Abs(baseline) * 100),
	}
}
