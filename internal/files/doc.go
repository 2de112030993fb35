// Package files discovers dataset files in the data directory.
package files
