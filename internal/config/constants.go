package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// How long the dispatch worker blocks on an empty queue before checking
// for shutdown.
const QueuePollInterval = time.Second

// Background job intervals
const RetentionJobInterval = time.Hour

// Session codes are 8 uppercase alphanumeric characters; collisions are
// pre-checked this many times before the insert is allowed to fail on the
// primary key.
const (
	SessionCodeLength      = 8
	SessionCodeMaxAttempts = 5
)
