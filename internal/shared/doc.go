// Package shared holds code used across the bikeshare packages that belongs
// to no single component.
//
// The testutil subpackage provides a capturing slog handler and small
// trip-log fixtures shaped like the real city datasets. It is only imported
// from _test.go files.
package shared
