// Command imagegrouper groups images whose difference hashes are identical.
//
// Usage:
//
//	imagegrouper [flags] <file-or-dir>...
//	imagegrouper inspect [--side N] <file>...
//	imagegrouper config show|init
//
// The grouping result is printed to stdout as a JSON object mapping each
// shared digest to the paths that produced it. Diagnostics go to stderr.
package main
