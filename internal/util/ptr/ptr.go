// Package ptr provides helpers for taking the address of values.
package ptr

// To returns a pointer to v.
func To[T any](v T) *T { return &v }

// Bool returns a pointer to the given bool value.
func Bool(b bool) *bool { return To(b) }
