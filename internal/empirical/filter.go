package empirical

import (
	"sort"

	"scfstats/internal/errors"
	"scfstats/internal/scfdata"
)

// FilterDomain drops households outside the estimation domain: age
// outside [MinAge, MaxAge] (inclusive on both ends) or negative income.
func FilterDomain(households []scfdata.Household, params AnalysisParams) []scfdata.Household {
	kept := make([]scfdata.Household, 0, len(households))
	for _, h := range households {
		if h.Age < params.MinAge || h.Age > params.MaxAge {
			continue
		}
		if h.Income < 0 {
			continue
		}
		kept = append(kept, h)
	}
	return kept
}

// TrimIncomeTail drops the bottom income tail by weighted population
// share: households are sorted by ascending income (unit id breaking
// ties), and every household whose inclusive cumulative normalized
// weight is below the threshold is removed. This trims the bottom share
// of the income-weighted population, not of the household count.
//
// Weights are normalized over the households passed in; the caller must
// hand over the current surviving set, never a stale superset.
func TrimIncomeTail(households []scfdata.Household, threshold float64) ([]scfdata.Household, error) {
	if len(households) == 0 {
		return nil, errors.NewEmptyPopulationError("no households to trim")
	}

	sorted := make([]scfdata.Household, len(households))
	copy(sorted, households)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Income != sorted[j].Income {
			return sorted[i].Income < sorted[j].Income
		}
		return sorted[i].UnitID < sorted[j].UnitID
	})

	weights := make([]float64, len(sorted))
	for i, h := range sorted {
		weights[i] = h.Weight
	}
	normWeights, err := normalizeWeights(weights, "income tail trim")
	if err != nil {
		return nil, err
	}

	kept := make([]scfdata.Household, 0, len(sorted))
	cum := 0.0
	for i, h := range sorted {
		cum += normWeights[i]
		if cum < threshold {
			continue
		}
		kept = append(kept, h)
	}

	if len(kept) == 0 {
		return nil, errors.NewEmptyPopulationError("income tail trim removed every household")
	}
	return kept, nil
}

// normalizeWeights scales raw sampling weights so they sum to one over
// exactly the set passed in. An empty set or a non-positive weight total
// makes every downstream share undefined and is therefore fatal.
func normalizeWeights(weights []float64, what string) ([]float64, error) {
	if len(weights) == 0 {
		return nil, errors.NewEmptyPopulationError("no observations for " + what)
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil, errors.NewEmptyPopulationError("non-positive weight total for " + what).
			WithContext("total_weight", total)
	}
	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / total
	}
	return normalized, nil
}
