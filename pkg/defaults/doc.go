// Package defaults centralizes timeout constants so wait budgets are
// consistent across the CLI and documented in one place.
package defaults
