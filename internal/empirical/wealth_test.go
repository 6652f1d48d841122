package empirical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "scfstats/internal/errors"
	"scfstats/internal/scfdata"
)

func TestWealthVariants(t *testing.T) {
	h := scfdata.Household{
		LiquidCash:             1000,
		CertificatesOfDeposit:  500,
		MutualFunds:            200,
		Stocks:                 300,
		Bonds:                  100,
		CreditCardBalance:      400,
		InstallmentDebt:        600,
		VehicleInstallmentDebt: 250,
	}

	withInstallment, kaplan := wealthVariants(h, 1.05)
	// 1000*1.05 + 500 + 200 + 300 + 100 - 400 = 1750
	assert.InDelta(t, 1750, kaplan, 1e-9)
	// kaplan - (600 - 250) = 1400
	assert.InDelta(t, 1400, withInstallment, 1e-9)
}

func TestBuildUnits(t *testing.T) {
	base := scfdata.Household{
		UnitID: 1, Weight: 10, Age: 30, EducationCode: 4, Income: 50000,
		LiquidCash: 1000,
	}

	t.Run("selects configured variant", func(t *testing.T) {
		h := base
		h.InstallmentDebt = 300

		params := DefaultParams()
		units, err := BuildUnits([]scfdata.Household{h}, params)
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.InDelta(t, units[0].WealthKaplan, units[0].LiquidWealth, 1e-12)
		assert.Equal(t, GroupCollege, units[0].Group)

		params.Variant = VariantWithInstallment
		units, err = BuildUnits([]scfdata.Household{h}, params)
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.InDelta(t, units[0].WealthWithInstallment, units[0].LiquidWealth, 1e-12)
	})

	t.Run("variants differ only through non-vehicle installment debt", func(t *testing.T) {
		same := base
		same.InstallmentDebt = 400
		same.VehicleInstallmentDebt = 400

		differs := base
		differs.UnitID = 2
		differs.InstallmentDebt = 400
		differs.VehicleInstallmentDebt = 100

		units, err := BuildUnits([]scfdata.Household{same, differs}, DefaultParams())
		require.NoError(t, err)
		require.Len(t, units, 2)

		assert.InDelta(t, units[0].WealthKaplan, units[0].WealthWithInstallment, 1e-12)
		assert.InDelta(t, 300, units[1].WealthKaplan-units[1].WealthWithInstallment, 1e-12)
	})

	t.Run("negative wealth units are dropped not clamped", func(t *testing.T) {
		h := base
		h.CreditCardBalance = 5000 // kaplan = 1050 - 5000 < 0

		units, err := BuildUnits([]scfdata.Household{h, base}, DefaultParams())
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.Equal(t, base.UnitID, units[0].UnitID)
	})

	t.Run("drop depends on the active variant", func(t *testing.T) {
		// Positive under kaplan, negative once installment debt is netted.
		h := base
		h.InstallmentDebt = 2000

		params := DefaultParams()
		units, err := BuildUnits([]scfdata.Household{h}, params)
		require.NoError(t, err)
		assert.Len(t, units, 1)

		params.Variant = VariantWithInstallment
		units, err = BuildUnits([]scfdata.Household{h}, params)
		require.NoError(t, err)
		assert.Empty(t, units)
	})

	t.Run("bad education code is a validation error", func(t *testing.T) {
		h := base
		h.EducationCode = 7

		_, err := BuildUnits([]scfdata.Household{h}, DefaultParams())
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("unknown variant is a config error", func(t *testing.T) {
		params := DefaultParams()
		params.Variant = WealthVariant("networth")

		_, err := BuildUnits([]scfdata.Household{base}, params)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})
}
