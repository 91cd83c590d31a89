package config

import "time"

const (
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultSQLiteBusyMS    = 5000
	DefaultRateLimitWindow = time.Minute
)
