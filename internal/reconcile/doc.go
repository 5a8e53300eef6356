// Package reconcile applies a declarative cluster manifest against a
// Proxmox VE cluster.
//
// Reconciliation runs in ordered phases (access, storage, sdn, firewall,
// ha, guests). Inside a phase, independent resource kinds run in
// parallel. Every resource yields a Result; a failed resource marks the
// run failed but does not stop unrelated resources from reconciling.
package reconcile
