package scfdata

import (
	"fmt"

	"scfstats/internal/errors"
)

// MergeBalances performs a left outer join of the balance-answer table
// onto the extract rows, keyed by (unit, implicate). Records without a
// matching answer keep the sentinel answer zero. A record whose answer
// equals PaysInFullCode has its revolving credit-card balance forced to
// zero regardless of the joined balance.
//
// Duplicate keys in either input are a data-integrity defect and abort
// the merge; they are never resolved last-write-wins.
func MergeBalances(records []RawRecord, answers []BalanceAnswer) ([]RawRecord, error) {
	byKey := make(map[mergeKey]BalanceAnswer, len(answers))
	for _, a := range answers {
		key := mergeKey{a.UnitID, a.ImplicateID}
		if _, exists := byKey[key]; exists {
			return nil, errors.NewIntegrityError("duplicate key in balance answers", nil).
				WithContext("unit_id", a.UnitID).
				WithContext("implicate_id", a.ImplicateID)
		}
		byKey[key] = a
	}

	seen := make(map[mergeKey]struct{}, len(records))
	merged := make([]RawRecord, 0, len(records))
	for _, r := range records {
		key := mergeKey{r.UnitID, r.ImplicateID}
		if _, exists := seen[key]; exists {
			return nil, errors.NewIntegrityError("duplicate key in extract records", nil).
				WithContext("unit_id", r.UnitID).
				WithContext("implicate_id", r.ImplicateID)
		}
		seen[key] = struct{}{}

		if a, ok := byKey[key]; ok && a.PaysInFull == PaysInFullCode {
			r.CreditCardBalance = 0
			r.PaysBalanceInFull = true
		}
		merged = append(merged, r)
	}

	return merged, nil
}

// AdjustInflation scales every dollar-denominated field by 1/factor,
// converting the current-vintage extract back to the paper-vintage price
// level. Weights, ages and classification codes are untouched.
func AdjustInflation(records []RawRecord, factor float64) ([]RawRecord, error) {
	if factor <= 0 {
		return nil, errors.NewConfigError(
			fmt.Sprintf("inflation factor must be positive, got %g", factor), nil)
	}

	adjusted := make([]RawRecord, len(records))
	for i, r := range records {
		r.Income /= factor
		r.LiquidCash /= factor
		r.CertificatesOfDeposit /= factor
		r.MutualFunds /= factor
		r.Stocks /= factor
		r.Bonds /= factor
		r.CreditCardBalance /= factor
		r.InstallmentDebt /= factor
		r.VehicleInstallmentDebt /= factor
		adjusted[i] = r
	}
	return adjusted, nil
}
