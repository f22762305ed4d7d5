// Package config handles configuration for rule resolution.
// It provides a nested key-value tree, a deep merge that fills in
// defaults without overwriting user-set values, and a sealed store
// for dotted-path lookups during resolution.
package config
