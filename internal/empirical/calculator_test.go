package empirical

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "scfstats/internal/errors"
	"scfstats/internal/scfdata"
)

// householdRows builds the five implicate rows of one sampling unit. All
// implicates share the template's values; only the record identifier and
// implicate number vary.
func householdRows(template scfdata.RawRecord) []scfdata.RawRecord {
	rows := make([]scfdata.RawRecord, 0, 5)
	for imp := 1; imp <= 5; imp++ {
		r := template
		r.ImplicateID = imp
		r.RecordID = template.UnitID*10 + int64(imp)
		rows = append(rows, r)
	}
	return rows
}

// pipelineFixture is six households, two per education group, all inside
// the age window. Each group pairs a light unit (5% of the population
// weight, so the income-tail trim keeps it exactly) with a heavy one;
// the light unit is the poorer of the pair, putting a Lorenz observation
// below every percentile break in every group.
func pipelineFixture() []scfdata.RawRecord {
	var records []scfdata.RawRecord
	specs := []struct {
		unitID int64
		edCode int
		weight float64
		liquid float64
	}{
		{1, 1, 0.3, 1000},
		{2, 1, 1.7, 2000},
		{3, 2, 0.3, 3000},
		{4, 3, 1.7, 4000},
		{5, 4, 0.3, 5000},
		{6, 4, 1.7, 6000},
	}
	for _, s := range specs {
		records = append(records, householdRows(scfdata.RawRecord{
			UnitID:        s.unitID,
			Weight:        s.weight,
			Age:           25,
			EducationCode: s.edCode,
			Income:        40000,
			LiquidCash:    s.liquid,
		})...)
	}
	return records
}

func testCalculator(t *testing.T) *Calculator {
	t.Helper()
	return NewCalculator(DefaultParams(), slog.Default())
}

func TestCalculatorRun(t *testing.T) {
	t.Run("full pipeline over a balanced fixture", func(t *testing.T) {
		c := testCalculator(t)

		results, err := c.Run(context.Background(), pipelineFixture(), nil)
		require.NoError(t, err)

		assert.Equal(t, VariantKaplan, results.Variant)
		assert.Equal(t, 6, results.SurvivingUnits)
		require.Len(t, results.Groups, 3)

		shareSum := 0.0
		for i, g := range results.Groups {
			assert.Equal(t, Groups[i], g.Group)
			assert.InDelta(t, 100.0/3, g.PopulationShare.Raw*100, 1e-9)
			shareSum += g.PopulationShare.Raw

			// All incomes are $40k annual, so every group's newborn cohort
			// has quarterly mean $10k with zero dispersion.
			assert.InDelta(t, 10000, g.Moments.MeanQuarterly, 1e-6)
			assert.InDelta(t, 0, g.Moments.SDLogQuarterly, 1e-9)
			assert.InDelta(t, 10.0, g.Moments.MeanQuarterlyDisplay, 1e-12)
		}
		assert.InDelta(t, 1.0, shareSum, 1e-12)

		// The heavy unit carries 85% of its group's weight, so cumulative
		// weight first reaches one half on it: the dropout median is unit
		// 2's wealth, 2000*1.05 = 2100, against income 40000.
		dropout := results.Groups[0]
		assert.InDelta(t, 2100.0/40000, dropout.Median.Raw, 1e-12)
		assert.InDelta(t, 5.25, dropout.Median.AnnualPct, 1e-9)

		require.Len(t, results.PooledLorenz, 6)
		last := results.PooledLorenz[len(results.PooledLorenz)-1]
		assert.InDelta(t, 100, last.CumPopulationPct, 1e-9)
		assert.InDelta(t, 100, last.CumWealthPct, 1e-9)

		require.Len(t, results.GroupLorenz, 6)
		for _, g := range Groups {
			curve := groupPoints(results.GroupLorenz, g)
			require.Len(t, curve, 2)
			assert.InDelta(t, 100, curve[1].CumPopulationPct, 1e-9)
			assert.InDelta(t, 100, curve[1].CumWealthPct, 1e-9)
		}

		quartileSum := 0.0
		for _, s := range results.Quartiles.Raw {
			quartileSum += s
		}
		assert.InDelta(t, 1.0, quartileSum, 1e-12)
	})

	t.Run("reruns are identical", func(t *testing.T) {
		c := testCalculator(t)

		first, err := c.Run(context.Background(), pipelineFixture(), nil)
		require.NoError(t, err)
		second, err := c.Run(context.Background(), pipelineFixture(), nil)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("pays-in-full answer zeroes the revolving balance", func(t *testing.T) {
		records := pipelineFixture()
		for i := range records {
			if records[i].UnitID == 2 {
				records[i].CreditCardBalance = 500
			}
		}
		var answers []scfdata.BalanceAnswer
		for imp := 1; imp <= 5; imp++ {
			answers = append(answers, scfdata.BalanceAnswer{
				UnitID: 2, ImplicateID: imp, PaysInFull: scfdata.PaysInFullCode,
			})
		}

		c := testCalculator(t)

		without, err := c.Run(context.Background(), records, nil)
		require.NoError(t, err)
		with, err := c.Run(context.Background(), records, answers)
		require.NoError(t, err)

		// Unit 2 is the dropout group's median. Without the answer its
		// wealth is 2100 - 500; the answer restores the full 2100.
		assert.InDelta(t, 1600.0/40000, without.Groups[0].Median.Raw, 1e-12)
		assert.InDelta(t, 2100.0/40000, with.Groups[0].Median.Raw, 1e-12)
	})

	t.Run("duplicate extract record aborts the run", func(t *testing.T) {
		records := pipelineFixture()
		records = append(records, records[0])

		c := testCalculator(t)
		_, err := c.Run(context.Background(), records, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIntegrity))
	})

	t.Run("everything filtered out aborts the run", func(t *testing.T) {
		records := pipelineFixture()
		for i := range records {
			records[i].Age = 70
		}

		c := testCalculator(t)
		_, err := c.Run(context.Background(), records, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptyPopulation))
	})

	t.Run("invalid parameters are rejected before any work", func(t *testing.T) {
		params := DefaultParams()
		params.TailTrimThreshold = 1.5

		c := NewCalculator(params, slog.Default())
		_, err := c.Run(context.Background(), pipelineFixture(), nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})

	t.Run("missing group in the surviving sample aborts the run", func(t *testing.T) {
		var records []scfdata.RawRecord
		for _, r := range pipelineFixture() {
			if r.EducationCode == 4 {
				continue
			}
			records = append(records, r)
		}

		c := testCalculator(t)
		_, err := c.Run(context.Background(), records, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptyPopulation))
	})
}
