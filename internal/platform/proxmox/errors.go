package proxmox

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx response from the Proxmox API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	// Errors carries per-parameter messages from the API's "errors" map.
	Errors map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Status
	}
	if len(e.Errors) == 0 {
		return fmt.Sprintf("proxmox api: %d %s", e.StatusCode, msg)
	}
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.TrimSpace(e.Errors[k])))
	}
	return fmt.Sprintf("proxmox api: %d %s (%s)", e.StatusCode, msg, strings.Join(parts, "; "))
}

// TaskError is an asynchronous task that stopped with a non-OK exit status.
type TaskError struct {
	UPID       string
	ExitStatus string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.UPID, e.ExitStatus)
}

// ErrTaskTimeout is returned when a task did not reach a terminal state
// within the configured wait timeout.
var ErrTaskTimeout = errors.New("timeout expired waiting for task")

// IsNotFound reports whether err indicates a missing resource. The API is
// not consistent here: some endpoints return 404, others a 500 with a
// "does not exist" style message.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusNotFound {
		return true
	}
	msg := strings.ToLower(apiErr.Error())
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such") ||
		strings.Contains(msg, "not found")
}

// IsAlreadyExists reports whether err indicates the resource is already
// present, which idempotent creates treat as success.
func IsAlreadyExists(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Error()), "already exist")
}

// IsLocked reports whether err indicates the resource is locked by a
// running task. Locked errors are retryable.
func IsLocked(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusConflict {
		return true
	}
	msg := strings.ToLower(apiErr.Error())
	return strings.Contains(msg, "can't lock") ||
		strings.Contains(msg, "got lock request timeout") ||
		strings.Contains(msg, "is locked")
}

// IsAuthFailure reports whether err indicates invalid or expired credentials.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized
}
