// Package env reads ad-hoc process environment overrides that sit outside
// the OAKLINE_ config tree, such as log formatting toggles set per deploy.
package env

import "os"

// Get returns the value of the environment variable, or the fallback when
// the variable is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// IsSet reports whether the environment variable carries a non-empty value.
func IsSet(key string) bool {
	return os.Getenv(key) != ""
}
