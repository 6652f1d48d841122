package config

// Application constants - fixed methodology values for the SCF analysis
const (
	// Application Info
	AppName    = "SCF Stats"
	AppVersion = "1.0.0"

	// Sample Selection
	// Working-age band for the estimation sample, inclusive on both ends.
	DefaultMinAge = 25.0
	DefaultMaxAge = 62.0
	// Bottom share of the income-weighted population dropped before any
	// wealth statistic is computed.
	DefaultTailTrimThreshold = 0.05

	// Wealth Construction
	// Cash-equivalent adjustment applied to checking/savings balances.
	// Fixed methodological convention, not tunable per run.
	DefaultCashMultiplier = 1.05

	// Implicates
	// The summary extract carries 5 imputation replicates per household,
	// and the per-implicate weight is inflated accordingly.
	ImplicatesPerUnit = 5

	// Statistics
	// Age of the "newborn" cohort whose income moments seed the model.
	DefaultNewbornAge = 25.0
	// Annual income is converted to quarterly before taking logs.
	QuartersPerYear = 4.0

	// Inflation Adjustment
	// Factor converting the current-vintage extract (2022$) back to the
	// paper-vintage 2013$ series. Determined empirically by comparing the
	// two vintages of the same extract.
	DefaultInflationFactor = 1.1587

	// Wealth Variants
	VariantKaplan          = "kaplan"
	VariantWithInstallment = "installment"

	// File Paths (relative to working directory)
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"

	// Output Files
	LorenzAllFileName     = "LorenzAll.csv"
	LorenzByGroupFileName = "LorenzEd.csv"
	SummaryFileName       = "summary.csv"

	// Log Settings
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultLogOutput   = "console"
	DefaultLogFilePath = "logs/app.log"
)

// DefaultPercentileBreaks are the population-percent break points at which
// cumulative wealth shares are read off the Lorenz curve.
var DefaultPercentileBreaks = []float64{20, 40, 60, 80}
