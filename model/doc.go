// Package model defines the records produced by annotation parsing and
// held by the index: functions, classes, enums, events and the flavor tags
// attached to functions.
//
// Records are plain values. They are built once during a load and are not
// mutated afterwards; callers that need to modify a record should Clone it.
package model
