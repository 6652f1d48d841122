// Package empirical implements the weighted empirical-distribution
// engine over SCF household microdata.
//
// The engine turns prepared extract records into the published summary
// statistics: education-group population shares, weighted moments of log
// quarterly income for the age-25 cohort, weighted median
// wealth-to-income ratios, Lorenz-curve coordinates (pooled and per
// group), fixed-percentile wealth-share read-offs, and weighted wealth
// quartile shares.
//
// # Pipeline
//
// Stages run in a fixed order, each a pure function of the previous
// snapshot plus named constants:
//
//  1. Balance merge and implicate aggregation (package scfdata)
//  2. Domain filter: age band, non-negative income
//  3. Income tail trim: drop the bottom weighted share of income
//  4. Unit construction: wealth variants, negative-wealth drop,
//     education classification
//  5. Weighted statistics and Lorenz/quantile computation
//
// The negative-wealth drop must follow the income tail trim; the two
// filters are defined over different intermediate populations and
// reordering them changes results.
//
// # Determinism
//
// Every sort carries a unit-id tie-break, so repeated runs over the same
// input produce byte-identical output sequences. The published numbers
// are transcribed by hand and must not drift run to run.
//
// # Conventions replicated from the reference computation
//
// Two easy-to-get-wrong conventions are implemented as separately tested
// functions: the weighted median is a step function (the observed value
// where cumulative weight first reaches one half, no interpolation), and
// percentile read-offs take the last Lorenz observation strictly below
// the break point rather than interpolating the crossing.
//
// Empty populations are always an explicit EMPTY_POPULATION error,
// never a silent zero or NaN: the outputs feed model calibration, where
// a silent zero would be materially wrong.
package empirical
