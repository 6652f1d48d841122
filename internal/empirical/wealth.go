package empirical

import (
	stderrors "errors"

	apperrors "scfstats/internal/errors"
	"scfstats/internal/scfdata"
)

// wealthVariants computes both liquid-wealth definitions from one
// household's balance-sheet fields. Checking and savings balances carry
// the fixed cash-equivalent multiplier; both measures net out revolving
// credit-card debt, and the installment variant additionally nets out
// installment debt excluding vehicle loans.
func wealthVariants(h scfdata.Household, cashMultiplier float64) (withInstallment, kaplan float64) {
	base := h.LiquidCash*cashMultiplier +
		h.CertificatesOfDeposit +
		h.MutualFunds +
		h.Stocks +
		h.Bonds -
		h.CreditCardBalance

	kaplan = base
	withInstallment = base - (h.InstallmentDebt - h.VehicleInstallmentDebt)
	return withInstallment, kaplan
}

// BuildUnits turns surviving households into engine units: both wealth
// variants are computed, the configured variant becomes the active
// LiquidWealth, the education code is classified, and units with
// negative active wealth are dropped. The negative-wealth drop is
// order-sensitive and must run after the income tail trim, which is why
// it lives here and not in the filter stage.
func BuildUnits(households []scfdata.Household, params AnalysisParams) ([]Unit, error) {
	if _, err := ParseWealthVariant(string(params.Variant)); err != nil {
		return nil, err
	}

	units := make([]Unit, 0, len(households))
	for _, h := range households {
		group, err := ClassifyEducation(h.EducationCode)
		if err != nil {
			var appErr *apperrors.AppError
			if stderrors.As(err, &appErr) {
				appErr.WithContext("unit_id", h.UnitID)
			}
			return nil, err
		}

		withInstallment, kaplan := wealthVariants(h, params.CashMultiplier)

		u := Unit{
			UnitID:                h.UnitID,
			Weight:                h.Weight,
			Age:                   h.Age,
			Group:                 group,
			Income:                h.Income,
			WealthWithInstallment: withInstallment,
			WealthKaplan:          kaplan,
		}
		switch params.Variant {
		case VariantWithInstallment:
			u.LiquidWealth = withInstallment
		default:
			u.LiquidWealth = kaplan
		}

		if u.LiquidWealth < 0 {
			continue
		}
		units = append(units, u)
	}

	return units, nil
}
