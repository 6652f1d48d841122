package empirical

import (
	"fmt"
	"sort"

	"scfstats/internal/errors"
)

// sortByWealth returns the population's unit indices ordered by
// ascending liquid wealth, with unit id breaking ties. Every Lorenz and
// quantile computation uses this order so repeated runs emit
// byte-identical sequences.
func sortByWealth(pop Population) []int {
	indices := make([]int, len(pop.Units))
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(a, b int) bool {
		ua, ub := pop.Units[indices[a]], pop.Units[indices[b]]
		if ua.LiquidWealth != ub.LiquidWealth {
			return ua.LiquidWealth < ub.LiquidWealth
		}
		return ua.UnitID < ub.UnitID
	})
	return indices
}

// LorenzCurve computes the Lorenz sequence of the population: cumulative
// population share against cumulative share of weighted liquid wealth,
// both in percent, ordered by ascending wealth.
func LorenzCurve(pop Population) ([]LorenzPoint, error) {
	if len(pop.Units) == 0 {
		return nil, errors.NewEmptyPopulationError("no units for Lorenz curve")
	}
	total := pop.TotalWeightedWealth()
	if total <= 0 {
		return nil, errors.NewEmptyPopulationError("non-positive total weighted wealth for Lorenz curve").
			WithContext("total", total)
	}

	points := make([]LorenzPoint, 0, len(pop.Units))
	cumPop, cumWealth := 0.0, 0.0
	for _, idx := range sortByWealth(pop) {
		u := pop.Units[idx]
		cumPop += pop.NormWeights[idx] * 100
		cumWealth += pop.NormWeights[idx] * u.LiquidWealth / total * 100
		points = append(points, LorenzPoint{
			UnitID:           u.UnitID,
			Group:            u.Group,
			CumPopulationPct: cumPop,
			CumWealthPct:     cumWealth,
		})
	}
	return points, nil
}

// LorenzCurveByGroup computes one Lorenz sequence per education group
// over the group's own survivors with group-renormalized weights. The
// wealth denominator is the group's own total weighted wealth, so each
// group's curve ends at (100, 100); the result is NOT a slice of the
// pooled curve. Sequences are concatenated in group order.
func LorenzCurveByGroup(pop Population) ([]LorenzPoint, error) {
	var points []LorenzPoint
	for _, g := range Groups {
		group, err := pop.Subset(g)
		if err != nil {
			return nil, err
		}
		groupPoints, err := LorenzCurve(group)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g, err)
		}
		points = append(points, groupPoints...)
	}
	return points, nil
}

// ShareBelowPercentile reads the cumulative wealth share off a single
// Lorenz sequence at a population-percent break point: it reports the
// largest cumulative wealth value among observations whose cumulative
// population percent is strictly below the break. The last observation
// before the crossing is taken as-is, never interpolated, which
// systematically understates the curve slightly at round percentiles.
// This replicates the reference read-off convention exactly.
func ShareBelowPercentile(points []LorenzPoint, breakPct float64) (float64, error) {
	found := false
	max := 0.0
	for _, p := range points {
		if p.CumPopulationPct >= breakPct {
			continue
		}
		if !found || p.CumWealthPct > max {
			max = p.CumWealthPct
			found = true
		}
	}
	if !found {
		return 0, errors.NewEmptyPopulationError("no observations below percentile break").
			WithContext("break_pct", breakPct)
	}
	return max, nil
}

// readPercentileShares evaluates ShareBelowPercentile at each break point.
func readPercentileShares(points []LorenzPoint, breaks []float64) ([]PercentileShare, error) {
	shares := make([]PercentileShare, 0, len(breaks))
	for _, b := range breaks {
		v, err := ShareBelowPercentile(points, b)
		if err != nil {
			return nil, err
		}
		shares = append(shares, PercentileShare{
			BreakPct:       b,
			WealthSharePct: v,
			DisplayPct:     roundTo(v, 2),
		})
	}
	return shares, nil
}

// WealthQuartileShares assigns each unit to one of four weighted
// quartile bins of the pooled wealth distribution and reports each bin's
// share of total weighted wealth. Binning is weight-aware: a unit
// belongs to the quartile containing the midpoint of its weight interval
// on the cumulative scale, so bins hold a quarter of the population
// weight each, not a quarter of the unit count.
func WealthQuartileShares(pop Population) (QuartileShares, error) {
	var q QuartileShares
	if len(pop.Units) == 0 {
		return q, errors.NewEmptyPopulationError("no units for wealth quartiles")
	}
	total := pop.TotalWeightedWealth()
	if total <= 0 {
		return q, errors.NewEmptyPopulationError("non-positive total weighted wealth for quartiles").
			WithContext("total", total)
	}

	cum := 0.0
	for _, idx := range sortByWealth(pop) {
		w := pop.NormWeights[idx]
		midpoint := cum + w/2
		cum += w

		bin := int(midpoint * 4)
		if bin > 3 {
			bin = 3
		}
		q.Raw[bin] += w * pop.Units[idx].LiquidWealth / total
	}

	for i, raw := range q.Raw {
		q.DisplayPct[i] = roundTo(raw*100, 2)
	}
	return q, nil
}
