// Package shared holds helpers used by more than one package. The testutil
// subpackage captures slog records so tests can assert on log output.
package shared
