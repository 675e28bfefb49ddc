package config

import "time"

const (
	// Deadline extension granted by /tasks/extend-deadline, once per participation
	DeadlineExtension = 12 * time.Hour

	// Catalog defaults when a task leaves them unset
	DefaultDailyLimit            = 5
	DefaultCompletionWindowHours = 24

	// Simulated payout rail
	PayoutCurrency     = "usd"
	PayoutMethod       = "standard"
	PayoutArrivalDelay = 48 * time.Hour

	// HTTP request timeout
	RequestTimeout = 15 * time.Second

	// Graceful shutdown budget
	ShutdownTimeout = 10 * time.Second
)
