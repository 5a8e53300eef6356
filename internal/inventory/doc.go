// Package inventory builds an Ansible-compatible dynamic inventory from
// live cluster resources. Hosts are grouped by guest type, node, power
// status, pool and tag, with per-host variables under _meta.hostvars.
// A file cache with a TTL avoids hammering the API on repeated runs.
package inventory
