// Package loader builds an index.Index from an annotation corpus on disk.
//
// Load runs a fixed sequence of passes. Each pass folds records into a
// single index.Builder under its own precedence rule:
//
//	side-tables  flavor masks and the deprecated-name list
//	api          official documentation; always writes
//	deprecated   always overwrites, marking functions deprecated
//	wiki         community docs; only fills gaps
//	widget       widget docs; always writes and registers methods
//	framework    scraped framework code; only fills gaps
//	tables       enums, events and console variables
//	flavors      tags functions with the game flavors they exist in
//
// A missing side file leaves its table empty and is logged at warn level.
// Loading the same corpus twice yields identical indexes.
package loader
