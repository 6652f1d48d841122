package scfdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "scfstats/internal/errors"
)

func TestMergeBalances(t *testing.T) {
	t.Run("pays in full zeroes balance", func(t *testing.T) {
		records := []RawRecord{
			{UnitID: 1, ImplicateID: 1, CreditCardBalance: 2500},
		}
		answers := []BalanceAnswer{
			{UnitID: 1, ImplicateID: 1, PaysInFull: PaysInFullCode},
		}

		merged, err := MergeBalances(records, answers)
		require.NoError(t, err)
		require.Len(t, merged, 1)
		assert.Zero(t, merged[0].CreditCardBalance)
		assert.True(t, merged[0].PaysBalanceInFull)
	})

	t.Run("other answers keep balance", func(t *testing.T) {
		records := []RawRecord{
			{UnitID: 1, ImplicateID: 1, CreditCardBalance: 2500},
		}
		answers := []BalanceAnswer{
			{UnitID: 1, ImplicateID: 1, PaysInFull: 2},
		}

		merged, err := MergeBalances(records, answers)
		require.NoError(t, err)
		assert.InDelta(t, 2500, merged[0].CreditCardBalance, 1e-12)
		assert.False(t, merged[0].PaysBalanceInFull)
	})

	t.Run("unmatched record defaults to keeping balance", func(t *testing.T) {
		records := []RawRecord{
			{UnitID: 7, ImplicateID: 3, CreditCardBalance: 900},
		}

		merged, err := MergeBalances(records, nil)
		require.NoError(t, err)
		assert.InDelta(t, 900, merged[0].CreditCardBalance, 1e-12)
		assert.False(t, merged[0].PaysBalanceInFull)
	})

	t.Run("duplicate answer key is fatal", func(t *testing.T) {
		answers := []BalanceAnswer{
			{UnitID: 1, ImplicateID: 1, PaysInFull: 1},
			{UnitID: 1, ImplicateID: 1, PaysInFull: 2},
		}

		_, err := MergeBalances(nil, answers)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIntegrity))
	})

	t.Run("duplicate record key is fatal", func(t *testing.T) {
		records := []RawRecord{
			{UnitID: 1, ImplicateID: 2},
			{UnitID: 1, ImplicateID: 2},
		}

		_, err := MergeBalances(records, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIntegrity))
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		records := []RawRecord{
			{UnitID: 1, ImplicateID: 1, CreditCardBalance: 100},
		}
		answers := []BalanceAnswer{
			{UnitID: 1, ImplicateID: 1, PaysInFull: PaysInFullCode},
		}

		_, err := MergeBalances(records, answers)
		require.NoError(t, err)
		assert.InDelta(t, 100, records[0].CreditCardBalance, 1e-12)
	})
}

func TestAdjustInflation(t *testing.T) {
	t.Run("scales dollar fields only", func(t *testing.T) {
		records := []RawRecord{{
			UnitID: 1, ImplicateID: 1, Weight: 3.5, Age: 40, EducationCode: 4,
			Income: 1158.7, LiquidCash: 2317.4, CertificatesOfDeposit: 1158.7,
			MutualFunds: 1158.7, Stocks: 1158.7, Bonds: 1158.7,
			CreditCardBalance: 1158.7, InstallmentDebt: 1158.7,
			VehicleInstallmentDebt: 1158.7,
		}}

		adjusted, err := AdjustInflation(records, 1.1587)
		require.NoError(t, err)
		r := adjusted[0]
		assert.InDelta(t, 1000, r.Income, 1e-9)
		assert.InDelta(t, 2000, r.LiquidCash, 1e-9)
		assert.InDelta(t, 1000, r.CertificatesOfDeposit, 1e-9)
		assert.InDelta(t, 1000, r.VehicleInstallmentDebt, 1e-9)
		// non-dollar fields untouched
		assert.InDelta(t, 3.5, r.Weight, 1e-12)
		assert.InDelta(t, 40, r.Age, 1e-12)
		assert.Equal(t, 4, r.EducationCode)
	})

	t.Run("non-positive factor rejected", func(t *testing.T) {
		_, err := AdjustInflation(nil, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})
}
