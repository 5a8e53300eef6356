// Package proxmox provides a client for the Proxmox VE REST API.
//
// The API wraps every payload in a {"data": ...} envelope, encodes booleans
// as 0/1 and returns a UPID for asynchronous operations that must be polled
// to a terminal state. This package hides those quirks behind typed,
// per-resource manager interfaces that are combined into [ClusterManager].
package proxmox
