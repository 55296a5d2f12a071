// Package corpus discovers annotation source files under a directory tree.
package corpus
