package empirical

import (
	"fmt"
	"math"

	"scfstats/internal/config"
	"scfstats/internal/errors"
)

// EducationGroup is the three-way ordinal education classification.
type EducationGroup int

const (
	// GroupDropout - no high school degree
	GroupDropout EducationGroup = 1
	// GroupHighSchool - high school degree or some college
	GroupHighSchool EducationGroup = 2
	// GroupCollege - four-year college degree
	GroupCollege EducationGroup = 3
)

// Groups lists the education groups in their fixed ordinal order.
var Groups = []EducationGroup{GroupDropout, GroupHighSchool, GroupCollege}

// String returns the string representation of the group
func (g EducationGroup) String() string {
	switch g {
	case GroupDropout:
		return "no_high_school"
	case GroupHighSchool:
		return "high_school"
	case GroupCollege:
		return "college"
	default:
		return "unknown"
	}
}

// WealthVariant selects which liquid-wealth definition drives the run.
type WealthVariant string

const (
	// VariantKaplan is the published measure: cash-like assets plus
	// directly-held securities net of revolving credit-card debt.
	VariantKaplan WealthVariant = WealthVariant(config.VariantKaplan)
	// VariantWithInstallment additionally nets out non-vehicle
	// installment debt. Used for the documented robustness check.
	VariantWithInstallment WealthVariant = WealthVariant(config.VariantWithInstallment)
)

// ParseWealthVariant converts a configuration string to a WealthVariant.
func ParseWealthVariant(s string) (WealthVariant, error) {
	switch WealthVariant(s) {
	case VariantKaplan:
		return VariantKaplan, nil
	case VariantWithInstallment:
		return VariantWithInstallment, nil
	default:
		return "", errors.NewConfigError(
			fmt.Sprintf("unknown wealth variant %q", s), nil)
	}
}

// Unit is one surviving household. It is created once per run; the only
// field-level derivations are the wealth measures and the group label,
// computed in a fixed order during unit construction.
type Unit struct {
	UnitID int64
	Weight float64
	Age    float64
	Group  EducationGroup
	Income float64

	// Both wealth definitions are always computed so a variant switch is
	// a pure re-selection, not a recomputation.
	WealthWithInstallment float64
	WealthKaplan          float64

	// LiquidWealth is the active variant's value; surviving units
	// satisfy LiquidWealth >= 0 (violators are dropped, never clamped).
	LiquidWealth float64
}

// Population is a set of units plus weights normalized to sum to one
// over exactly this set. It is always rebuilt from the current surviving
// units; normalized weights are never carried across a filtering step.
type Population struct {
	Units       []Unit
	NormWeights []float64
}

// LorenzPoint is one observation of a Lorenz curve, keyed by ascending
// wealth with unit id as the tie-break.
type LorenzPoint struct {
	UnitID           int64
	Group            EducationGroup
	CumPopulationPct float64
	CumWealthPct     float64
}

// AnalysisParams is the full tunable surface of the engine. Defaults
// come from the named methodology constants.
type AnalysisParams struct {
	MinAge            float64       `validate:"gte=0"`
	MaxAge            float64       `validate:"gtefield=MinAge"`
	TailTrimThreshold float64       `validate:"gte=0,lt=1"`
	CashMultiplier    float64       `validate:"gt=0"`
	NewbornAge        float64       `validate:"gte=0"`
	Variant           WealthVariant `validate:"oneof=kaplan installment"`
	PercentileBreaks  []float64     `validate:"min=1,dive,gt=0,lt=100"`
}

// DefaultParams returns the parameters used for the published results.
func DefaultParams() AnalysisParams {
	breaks := make([]float64, len(config.DefaultPercentileBreaks))
	copy(breaks, config.DefaultPercentileBreaks)
	return AnalysisParams{
		MinAge:            config.DefaultMinAge,
		MaxAge:            config.DefaultMaxAge,
		TailTrimThreshold: config.DefaultTailTrimThreshold,
		CashMultiplier:    config.DefaultCashMultiplier,
		NewbornAge:        config.DefaultNewbornAge,
		Variant:           VariantKaplan,
		PercentileBreaks:  breaks,
	}
}

// GroupShare carries a share both as the raw fraction and in the
// display convention (percent, one decimal).
type GroupShare struct {
	Raw        float64
	DisplayPct float64
}

// IncomeMoments are the weighted moments of log quarterly income for the
// newborn cohort of one group.
type IncomeMoments struct {
	MeanLogQuarterly float64
	SDLogQuarterly   float64
	// MeanQuarterly is exp of the mean log, the geometric-mean income level.
	MeanQuarterly float64
	// Display conventions: level in $1000s at one decimal, dispersion at two.
	MeanQuarterlyDisplay float64
	SDDisplay            float64
}

// MedianRatio is the weighted median wealth-to-income ratio of a group.
type MedianRatio struct {
	Raw float64
	// AnnualPct is the ratio against annual income in percent (two
	// decimals); QuarterlyPct re-expresses it against quarterly income.
	AnnualPct    float64
	QuarterlyPct float64
}

// PercentileShare is a Lorenz read-off: the cumulative wealth share held
// below a population-percent break point.
type PercentileShare struct {
	BreakPct       float64
	WealthSharePct float64
	DisplayPct     float64
}

// QuartileShares carries each pooled wealth quartile's share of total
// weighted wealth, as raw fractions and in the display convention
// (percent, two decimals).
type QuartileShares struct {
	Raw        [4]float64
	DisplayPct [4]float64
}

// GroupStats bundles every per-group statistic of one run.
type GroupStats struct {
	Group            EducationGroup
	PopulationShare  GroupShare
	WealthShare      GroupShare
	Moments          IncomeMoments
	Median           MedianRatio
	PercentileShares []PercentileShare
}

// Results is the complete output of one engine run. It is immutable once
// computed; a failed run produces no Results at all.
type Results struct {
	Variant        WealthVariant
	SurvivingUnits int

	Groups []GroupStats

	PooledLorenz []LorenzPoint
	GroupLorenz  []LorenzPoint

	PooledPercentileShares []PercentileShare
	Quartiles              QuartileShares
}

// roundTo rounds v to the given number of decimal places. Used only for
// the display representations; raw values are always carried alongside.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
