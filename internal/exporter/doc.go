// Package exporter writes the engine's results as CSV tables.
//
// Three files are produced per run: the pooled Lorenz curve, the
// per-group Lorenz curves (with an extra group column), and a long-format
// summary table of the scalar statistics. All numeric cells use fixed
// decimal places so reruns over the same inputs are byte-identical.
//
// Export happens strictly after the engine has produced a complete
// Results value; a failed run never leaves partial output behind.
package exporter
