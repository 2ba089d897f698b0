// Package shared holds helpers used by tests across packages.
//
// testutil captures slog records so tests can assert on what a component
// logged without parsing text output.
package shared
