package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MiningStatus is the result of a status check. It is a pure read: the
// cooldown uses the last-reward-timestamp model, so polling status never
// credits anything.
type MiningStatus struct {
	Eligible  bool
	Remaining time.Duration
	Balance   decimal.Decimal
	Cooldown  time.Duration
}

// ClaimResult is the outcome of a claim attempt. Success=false with a nil
// error means the cooldown is still running; Remaining says for how long.
type ClaimResult struct {
	Success   bool
	Reward    decimal.Decimal
	Balance   decimal.Decimal
	Remaining time.Duration
}
