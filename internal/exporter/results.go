package exporter

import (
	"fmt"
	"log/slog"

	"scfstats/internal/config"
	"scfstats/internal/empirical"
)

// lorenzDecimals keeps the curve read-off precision of the published
// tables without trailing float noise.
const lorenzDecimals = 6

// ResultsExporter writes the engine output as the three published CSV
// tables: the pooled Lorenz curve, the per-group Lorenz curves, and the
// scalar summary statistics.
type ResultsExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewResultsExporter creates a results exporter rooted at outDir.
func NewResultsExporter(outDir string, logger *slog.Logger) *ResultsExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultsExporter{
		writer: NewCSVWriter(outDir, logger),
		logger: logger,
	}
}

// ExportAll writes every output table. It must only ever be called with
// a complete Results value; a failed run produces no files at all.
func (e *ResultsExporter) ExportAll(results *empirical.Results) error {
	if err := e.exportLorenz(config.LorenzAllFileName, results.PooledLorenz, false); err != nil {
		return fmt.Errorf("pooled lorenz: %w", err)
	}
	if err := e.exportLorenz(config.LorenzByGroupFileName, results.GroupLorenz, true); err != nil {
		return fmt.Errorf("group lorenz: %w", err)
	}
	if err := e.exportSummary(results); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	return nil
}

// exportLorenz writes one Lorenz sequence, optionally with the group
// label column used by the per-group table.
func (e *ResultsExporter) exportLorenz(fileName string, points []empirical.LorenzPoint, withGroup bool) error {
	headers := []string{"unit_id", "cum_population_pct", "cum_wealth_pct"}
	if withGroup {
		headers = []string{"unit_id", "group", "cum_population_pct", "cum_wealth_pct"}
	}

	records := make([][]string, 0, len(points))
	for _, p := range points {
		row := []string{formatInt(p.UnitID)}
		if withGroup {
			row = append(row, p.Group.String())
		}
		row = append(row,
			formatFloat(p.CumPopulationPct, lorenzDecimals),
			formatFloat(p.CumWealthPct, lorenzDecimals))
		records = append(records, row)
	}

	return e.writer.WriteTable(fileName, headers, records)
}

// exportSummary writes the scalar statistics in long format, one row per
// (statistic, group) pair. Pooled statistics carry the group label "all".
func (e *ResultsExporter) exportSummary(results *empirical.Results) error {
	headers := []string{"statistic", "group", "value"}
	var records [][]string

	add := func(statistic, group, value string) {
		records = append(records, []string{statistic, group, value})
	}

	add("wealth_variant", "all", string(results.Variant))
	add("surviving_units", "all", formatInt(int64(results.SurvivingUnits)))

	for _, g := range results.Groups {
		name := g.Group.String()
		add("population_share_pct", name, formatFloat(g.PopulationShare.DisplayPct, 1))
		add("wealth_share_pct", name, formatFloat(g.WealthShare.DisplayPct, 1))
		add("mean_log_quarterly_income", name, formatFloat(g.Moments.MeanLogQuarterly, 4))
		add("sd_log_quarterly_income", name, formatFloat(g.Moments.SDLogQuarterly, 4))
		add("mean_quarterly_income_thousands", name, formatFloat(g.Moments.MeanQuarterlyDisplay, 1))
		add("median_wealth_to_annual_income_pct", name, formatFloat(g.Median.AnnualPct, 2))
		add("median_wealth_to_quarterly_income_pct", name, formatFloat(g.Median.QuarterlyPct, 2))
		for _, p := range g.PercentileShares {
			add(percentileStatistic(p.BreakPct), name, formatFloat(p.DisplayPct, 2))
		}
	}

	for _, p := range results.PooledPercentileShares {
		add(percentileStatistic(p.BreakPct), "all", formatFloat(p.DisplayPct, 2))
	}
	for i, share := range results.Quartiles.DisplayPct {
		add(fmt.Sprintf("wealth_share_quartile_%d_pct", i+1), "all", formatFloat(share, 2))
	}

	return e.writer.WriteTable(config.SummaryFileName, headers, records)
}

func percentileStatistic(breakPct float64) string {
	return fmt.Sprintf("wealth_share_below_p%d_pct", int(breakPct))
}
