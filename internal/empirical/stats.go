package empirical

import (
	"math"
	"sort"

	"scfstats/internal/config"
	"scfstats/internal/errors"
)

// NewPopulation builds a Population from the current surviving units,
// recomputing normalized weights from scratch.
func NewPopulation(units []Unit) (Population, error) {
	weights := make([]float64, len(units))
	for i, u := range units {
		weights[i] = u.Weight
	}
	normWeights, err := normalizeWeights(weights, "population")
	if err != nil {
		return Population{}, err
	}
	return Population{Units: units, NormWeights: normWeights}, nil
}

// Subset restricts the population to one education group, renormalizing
// weights so the group's internal weights sum to one. An empty group is
// fatal: every statistic over it would be undefined.
func (p Population) Subset(g EducationGroup) (Population, error) {
	var units []Unit
	for _, u := range p.Units {
		if u.Group == g {
			units = append(units, u)
		}
	}
	if len(units) == 0 {
		return Population{}, errors.NewEmptyPopulationError("no surviving units in group").
			WithContext("group", g.String())
	}
	return NewPopulation(units)
}

// TotalWeightedWealth is the population's wealth denominator:
// sum over units of normalized weight times liquid wealth.
func (p Population) TotalWeightedWealth() float64 {
	total := 0.0
	for i, u := range p.Units {
		total += p.NormWeights[i] * u.LiquidWealth
	}
	return total
}

// GroupShares computes each group's share of the full population's
// normalized weight. The raw fraction is kept for calibration consumers;
// the display value is in percent at one decimal.
func GroupShares(pop Population) (map[EducationGroup]GroupShare, error) {
	if len(pop.Units) == 0 {
		return nil, errors.NewEmptyPopulationError("no surviving units for group shares")
	}

	shares := make(map[EducationGroup]GroupShare, len(Groups))
	for i, u := range pop.Units {
		s := shares[u.Group]
		s.Raw += pop.NormWeights[i]
		shares[u.Group] = s
	}
	for g, s := range shares {
		s.DisplayPct = roundTo(s.Raw*100, 1)
		shares[g] = s
	}
	return shares, nil
}

// GroupWealthShares computes each group's share of total weighted liquid
// wealth, in the pooled population's weighting.
func GroupWealthShares(pop Population) (map[EducationGroup]GroupShare, error) {
	if len(pop.Units) == 0 {
		return nil, errors.NewEmptyPopulationError("no surviving units for wealth shares")
	}
	total := pop.TotalWeightedWealth()
	if total <= 0 {
		return nil, errors.NewEmptyPopulationError("non-positive total weighted wealth").
			WithContext("total", total)
	}

	shares := make(map[EducationGroup]GroupShare, len(Groups))
	for i, u := range pop.Units {
		s := shares[u.Group]
		s.Raw += pop.NormWeights[i] * u.LiquidWealth / total
		shares[u.Group] = s
	}
	for g, s := range shares {
		s.DisplayPct = roundTo(s.Raw*100, 1)
		shares[g] = s
	}
	return shares, nil
}

// LogIncomeMoments computes the weighted mean and standard deviation of
// log quarterly income over one group's newborn cohort: units in group g
// whose age equals newbornAge. Annual income is divided by four before
// taking logs. The variance uses the standard weighted-sample formula
// sum(w*(x-mu)^2)/sum(w) and is reported as a standard deviation.
//
// A cohort unit with zero income has no log income; it is rejected
// explicitly rather than letting -Inf propagate into the moments.
func LogIncomeMoments(pop Population, g EducationGroup, newbornAge float64) (IncomeMoments, error) {
	var logs, weights []float64
	for i, u := range pop.Units {
		if u.Group != g || u.Age != newbornAge {
			continue
		}
		if u.Income <= 0 {
			return IncomeMoments{}, errors.NewValidationError("non-positive income in log-income cohort", nil).
				WithContext("unit_id", u.UnitID).
				WithContext("group", g.String()).
				WithContext("income", u.Income)
		}
		logs = append(logs, math.Log(u.Income/config.QuartersPerYear))
		weights = append(weights, pop.NormWeights[i])
	}
	if len(logs) == 0 {
		return IncomeMoments{}, errors.NewEmptyPopulationError("no newborn-cohort units in group").
			WithContext("group", g.String()).
			WithContext("age", newbornAge)
	}

	sumW := 0.0
	for _, w := range weights {
		sumW += w
	}
	if sumW <= 0 {
		return IncomeMoments{}, errors.NewEmptyPopulationError("non-positive weight total for income moments").
			WithContext("group", g.String())
	}

	mean := 0.0
	for i, x := range logs {
		mean += weights[i] * x
	}
	mean /= sumW

	variance := 0.0
	for i, x := range logs {
		variance += weights[i] * (x - mean) * (x - mean)
	}
	variance /= sumW

	m := IncomeMoments{
		MeanLogQuarterly: mean,
		SDLogQuarterly:   math.Sqrt(variance),
		MeanQuarterly:    math.Exp(mean),
	}
	m.MeanQuarterlyDisplay = roundTo(m.MeanQuarterly/1000, 1)
	m.SDDisplay = roundTo(m.SDLogQuarterly, 2)
	return m, nil
}

// weightedObs pairs one observation with its weight; the unit id makes
// the sort order fully reproducible when values tie.
type weightedObs struct {
	unitID int64
	value  float64
	weight float64
}

// weightedMedian is the step-function weighted median: the exact
// observed value at which cumulative normalized weight, in ascending
// value order, first reaches one half. No interpolation between
// bracketing observations is performed.
func weightedMedian(obs []weightedObs) (float64, error) {
	if len(obs) == 0 {
		return 0, errors.NewEmptyPopulationError("no observations for weighted median")
	}

	sorted := make([]weightedObs, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].value != sorted[j].value {
			return sorted[i].value < sorted[j].value
		}
		return sorted[i].unitID < sorted[j].unitID
	})

	weights := make([]float64, len(sorted))
	for i, o := range sorted {
		weights[i] = o.weight
	}
	normWeights, err := normalizeWeights(weights, "weighted median")
	if err != nil {
		return 0, err
	}

	cum := 0.0
	for i, o := range sorted {
		cum += normWeights[i]
		if cum >= 0.5 {
			return o.value, nil
		}
	}
	// Floating-point shortfall: the cumulative sum never quite reached
	// one half, so the answer is the last observation.
	return sorted[len(sorted)-1].value, nil
}

// MedianWealthToIncome computes the weighted median of the per-unit
// wealth-to-income ratio within one group, with group-renormalized
// weights.
func MedianWealthToIncome(pop Population, g EducationGroup) (MedianRatio, error) {
	group, err := pop.Subset(g)
	if err != nil {
		return MedianRatio{}, err
	}

	obs := make([]weightedObs, len(group.Units))
	for i, u := range group.Units {
		if u.Income <= 0 {
			return MedianRatio{}, errors.NewValidationError("non-positive income for wealth-to-income ratio", nil).
				WithContext("unit_id", u.UnitID).
				WithContext("group", g.String()).
				WithContext("income", u.Income)
		}
		obs[i] = weightedObs{
			unitID: u.UnitID,
			value:  u.LiquidWealth / u.Income,
			weight: group.NormWeights[i],
		}
	}

	median, err := weightedMedian(obs)
	if err != nil {
		return MedianRatio{}, err
	}

	r := MedianRatio{Raw: median}
	r.AnnualPct = roundTo(median*100, 2)
	r.QuarterlyPct = r.AnnualPct * config.QuartersPerYear
	return r, nil
}
