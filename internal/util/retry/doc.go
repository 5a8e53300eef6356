// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable max attempts,
// initial delay, and maximum delay. It is used for Proxmox VE API calls
// that fail while a resource is locked by a running task.
package retry
