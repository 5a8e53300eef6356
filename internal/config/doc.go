// Package config defines the cluster manifest, connection settings and
// timeout configuration for pvekit.
//
// The manifest (pvekit.yaml) declares the desired state of a Proxmox VE
// cluster: pools, access control, storage, HA, firewall, SDN and guest
// power state. Connection settings come from the environment (PROXMOX_*
// variables) and may be overridden per manifest.
package config
