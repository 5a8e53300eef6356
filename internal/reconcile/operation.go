package reconcile

import (
	"context"
	"fmt"

	"github.com/pvekit/pvekit/internal/config"
	"github.com/pvekit/pvekit/internal/platform/proxmox"
	"github.com/pvekit/pvekit/internal/util/retry"
)

// ensureFuncs defines the calls needed to drive a resource to its desired
// state.
type ensureFuncs[T any] struct {
	// get retrieves the current state, nil when the resource is absent.
	get func(ctx context.Context) (*T, error)
	// create brings the resource into existence.
	create func(ctx context.Context) error
	// needsUpdate compares the current state against the manifest. When
	// nil an existing resource is always considered up to date.
	needsUpdate func(current *T) bool
	// update reconciles an existing resource that diverged.
	update func(ctx context.Context, current *T) error
}

// ensure reconciles one resource: absent resources are created, diverged
// resources updated, matching resources left alone. In check mode the
// mutation is skipped and only reported.
func ensure[T any](ctx context.Context, kind, name string, check bool, funcs ensureFuncs[T]) Result {
	current, err := funcs.get(ctx)
	if err != nil {
		return failedResult(kind, name, fmt.Errorf("failed to read current state: %w", err))
	}

	if current == nil {
		if check {
			return changedResult(kind, name, "would be created")
		}
		if err := funcs.create(ctx); err != nil {
			// A concurrent writer beat us to it; the resource exists,
			// which is the state we wanted.
			if proxmox.IsAlreadyExists(err) {
				return okResult(kind, name, "already exists")
			}
			return failedResult(kind, name, err)
		}
		return changedResult(kind, name, "created")
	}

	if funcs.needsUpdate == nil || !funcs.needsUpdate(current) {
		return okResult(kind, name, "up to date")
	}
	if check {
		return changedResult(kind, name, "would be updated")
	}
	if err := funcs.update(ctx, current); err != nil {
		return failedResult(kind, name, err)
	}
	return changedResult(kind, name, "updated")
}

// deleteFuncs defines the calls needed to remove a resource.
type deleteFuncs[T any] struct {
	get func(ctx context.Context) (*T, error)
	del func(ctx context.Context, current *T) error
	// guard may refuse deletion based on the current state (a pool that
	// still has members). A non-nil error fails the resource.
	guard func(current *T) error
}

// remove deletes one resource. Absent resources are a no-op. Locked
// resources are retried with backoff; any other error aborts the retry
// loop immediately.
func remove[T any](ctx context.Context, kind, name string, check bool, timeouts *config.Timeouts, funcs deleteFuncs[T]) Result {
	current, err := funcs.get(ctx)
	if err != nil {
		return failedResult(kind, name, fmt.Errorf("failed to read current state: %w", err))
	}
	if current == nil {
		return okResult(kind, name, "already absent")
	}
	if funcs.guard != nil {
		if err := funcs.guard(current); err != nil {
			return failedResult(kind, name, err)
		}
	}
	if check {
		return changedResult(kind, name, "would be deleted")
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Delete)
	defer cancel()

	err = retry.Do(ctx, func() error {
		if err := funcs.del(ctx, current); err != nil {
			if proxmox.IsLocked(err) {
				return err
			}
			if proxmox.IsNotFound(err) {
				return nil
			}
			return retry.Fatal(err)
		}
		return nil
	},
		retry.WithMaxAttempts(timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(timeouts.RetryInitialDelay),
	)
	if err != nil {
		return failedResult(kind, name, err)
	}
	return changedResult(kind, name, "deleted")
}
