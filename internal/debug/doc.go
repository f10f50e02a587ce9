// Package debug builds the optional file logger used by the command-line
// tool. Log files rotate; the directory is created on demand.
package debug
