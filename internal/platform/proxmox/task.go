package proxmox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UPID is a unique task identifier as returned by asynchronous endpoints,
// e.g. "UPID:pve1:0000C530:000325B2:67A0E9C7:qmstart:100:root@pam:".
type UPID string

// Node extracts the node the task runs on.
func (u UPID) Node() (string, error) {
	parts := strings.Split(string(u), ":")
	if len(parts) < 8 || parts[0] != "UPID" || parts[1] == "" {
		return "", fmt.Errorf("malformed upid %q", u)
	}
	return parts[1], nil
}

// TaskType extracts the task type (qmstart, vzshutdown, ...).
func (u UPID) TaskType() (string, error) {
	parts := strings.Split(string(u), ":")
	if len(parts) < 8 || parts[0] != "UPID" {
		return "", fmt.Errorf("malformed upid %q", u)
	}
	return parts[5], nil
}

// GetTaskStatus fetches the current status of a task.
func (c *Client) GetTaskStatus(ctx context.Context, node string, upid UPID) (*TaskStatus, error) {
	var status TaskStatus
	path := fmt.Sprintf("/nodes/%s/tasks/%s/status", node, upid)
	if err := c.get(ctx, path, nil, &status); err != nil {
		return nil, fmt.Errorf("failed to retrieve task status from node %s: %w", node, err)
	}
	return &status, nil
}

// WaitForTask polls the task until it reaches a terminal state. It returns
// nil on success (including WARN exit states), a *TaskError when the task
// stopped with a failure, and ErrTaskTimeout when the configured wait
// timeout elapses first.
func (c *Client) WaitForTask(ctx context.Context, upid UPID) error {
	if upid == "" {
		return nil
	}
	node, err := upid.Node()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.TaskWait)
	defer cancel()

	ticker := time.NewTicker(c.timeouts.TaskPollInterval)
	defer ticker.Stop()

	for {
		status, err := c.GetTaskStatus(ctx, node, upid)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s", ErrTaskTimeout, upid)
			}
			return err
		}
		if status.Finished() {
			if status.OK() {
				return nil
			}
			return &TaskError{UPID: string(upid), ExitStatus: status.ExitStatus}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s", ErrTaskTimeout, upid)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
