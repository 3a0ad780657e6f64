// Package commands implements the offline worker CLI: it runs the same
// aggregation as the API against a dataset file and prints or exports the
// resulting tables.
package commands
