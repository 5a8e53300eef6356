package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	TaskWait          time.Duration // Timeout for waiting on an async task (UPID) to stop
	TaskPollInterval  time.Duration // Interval between task status polls
	Delete            time.Duration // Timeout for delete operations
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - PVEKIT_TIMEOUT_TASK_WAIT (default: 10m)
//   - PVEKIT_TASK_POLL_INTERVAL (default: 1s)
//   - PVEKIT_TIMEOUT_DELETE (default: 5m)
//   - PVEKIT_RETRY_MAX_ATTEMPTS (default: 5)
//   - PVEKIT_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		TaskWait:          parseDuration("PVEKIT_TIMEOUT_TASK_WAIT", 10*time.Minute),
		TaskPollInterval:  parseDuration("PVEKIT_TASK_POLL_INTERVAL", time.Second),
		Delete:            parseDuration("PVEKIT_TIMEOUT_DELETE", 5*time.Minute),
		RetryMaxAttempts:  parseInt("PVEKIT_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("PVEKIT_RETRY_INITIAL_DELAY", time.Second),
	}
}

// TestTimeouts returns aggressive timeouts suitable for unit tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		TaskWait:          2 * time.Second,
		TaskPollInterval:  10 * time.Millisecond,
		Delete:            2 * time.Second,
		RetryMaxAttempts:  2,
		RetryInitialDelay: 10 * time.Millisecond,
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
