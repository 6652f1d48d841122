// Package scfdata loads and prepares SCF summary-extract microdata for
// the empirical statistics engine.
//
// The package covers the record-level stages that run before any
// statistic is computed: reading the extract and the auxiliary
// credit-card questionnaire table from csv/xlsx files, the left outer
// join that zeroes revolving balances for pays-in-full respondents, the
// optional inflation adjustment between data vintages, and the collapse
// of the five imputation implicates into one household row.
//
// All stages are pure functions over immutable snapshots: each returns a
// fresh slice and never mutates its input. Data-integrity defects
// (duplicate merge keys, implicate counts other than five) abort with an
// INTEGRITY error carrying the offending unit.
package scfdata
