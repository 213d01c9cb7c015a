package model

import "time"

// QuotaState is the persisted usage row for one quota source. It is
// mutated only by the quota ledger.
type QuotaState struct {
	Source     string    `json:"source"`
	LastReset  time.Time `json:"last_reset"` // UTC midnight of the last reset
	UsageCount int       `json:"usage_count"`
}

// QuotaLimit is the configured budget for a quota source.
type QuotaLimit struct {
	DailyLimit  int     `json:"daily_limit" mapstructure:"daily_limit"`
	RefreshDays float64 `json:"refresh_days" mapstructure:"refresh_days"`
}
