package sidechannel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Threshold describes the usage limit enforced by the alarm.
//
// The alarm compares each period's summed traffic with the per-period value,
// so it fires only when every one of EvaluationPeriods consecutive periods
// reaches Total/EvaluationPeriods. Bursty traffic that crosses Total in fewer
// periods goes unnoticed; the window is an approximation of "Total bytes over
// PeriodSeconds*EvaluationPeriods".
type Threshold struct {
	TotalBytes        int64
	PeriodSeconds     int32
	EvaluationPeriods int32
}

// Validate checks the threshold can be expressed as an alarm.
func (t Threshold) Validate() error {
	switch {
	case t.TotalBytes <= 0:
		return fmt.Errorf("threshold must be positive, got %d", t.TotalBytes)
	case t.PeriodSeconds < 60 || t.PeriodSeconds%60 != 0:
		return fmt.Errorf("period must be a positive multiple of 60 seconds, got %d", t.PeriodSeconds)
	case t.EvaluationPeriods < 1:
		return fmt.Errorf("evaluation periods must be at least 1, got %d", t.EvaluationPeriods)
	}
	return nil
}

// PerPeriod returns the per-period threshold, rounded to two decimal places.
func (t Threshold) PerPeriod() float64 {
	if t.EvaluationPeriods < 1 {
		return float64(t.TotalBytes)
	}
	value, _ := decimal.NewFromInt(t.TotalBytes).
		DivRound(decimal.NewFromInt32(t.EvaluationPeriods), 2).
		Float64()
	return value
}

// Window returns the time span the alarm evaluates.
func (t Threshold) Window() time.Duration {
	return time.Duration(t.PeriodSeconds) * time.Duration(t.EvaluationPeriods) * time.Second
}

// Description is the alarm description shown in the console.
func (t Threshold) Description() string {
	return fmt.Sprintf("Stops the VPN instance when combined network usage reaches %s over %s",
		humanBytes(t.TotalBytes), t.Window())
}

func humanBytes(n int64) string {
	const gib = 1 << 30
	if n >= gib && n%gib == 0 {
		return fmt.Sprintf("%d GiB", n/gib)
	}
	return fmt.Sprintf("%d bytes", n)
}
