package scfdata

import (
	"sort"

	"scfstats/internal/config"
	"scfstats/internal/errors"
)

// AggregateImplicates collapses the five implicate rows of each household
// into one Household. Dollar fields and age are arithmetic means across
// the implicates. The weight is deliberately NOT averaged: the survey
// convention is to take a single implicate's weight and inflate it by the
// implicate count, so the summary-extract subsample remains
// population-representative.
//
// A household with an implicate count other than five is a
// data-integrity defect and aborts the aggregation.
//
// The output is ordered by ascending unit ID so repeated runs on the
// same input produce an identical sequence.
func AggregateImplicates(records []RawRecord) ([]Household, error) {
	groups := make(map[int64][]RawRecord)
	for _, r := range records {
		groups[r.UnitID] = append(groups[r.UnitID], r)
	}

	unitIDs := make([]int64, 0, len(groups))
	for id := range groups {
		unitIDs = append(unitIDs, id)
	}
	sort.Slice(unitIDs, func(i, j int) bool { return unitIDs[i] < unitIDs[j] })

	households := make([]Household, 0, len(unitIDs))
	for _, id := range unitIDs {
		implicates := groups[id]
		if len(implicates) != config.ImplicatesPerUnit {
			return nil, errors.NewIntegrityError("unexpected implicate count for unit", nil).
				WithContext("unit_id", id).
				WithContext("implicate_count", len(implicates)).
				WithContext("expected", config.ImplicatesPerUnit)
		}

		sort.Slice(implicates, func(i, j int) bool {
			return implicates[i].ImplicateID < implicates[j].ImplicateID
		})

		h := Household{
			UnitID:        id,
			EducationCode: implicates[0].EducationCode,
			Weight:        implicates[0].Weight * float64(config.ImplicatesPerUnit),
		}
		for _, r := range implicates {
			h.Age += r.Age
			h.Income += r.Income
			h.LiquidCash += r.LiquidCash
			h.CertificatesOfDeposit += r.CertificatesOfDeposit
			h.MutualFunds += r.MutualFunds
			h.Stocks += r.Stocks
			h.Bonds += r.Bonds
			h.CreditCardBalance += r.CreditCardBalance
			h.InstallmentDebt += r.InstallmentDebt
			h.VehicleInstallmentDebt += r.VehicleInstallmentDebt
		}
		n := float64(len(implicates))
		h.Age /= n
		h.Income /= n
		h.LiquidCash /= n
		h.CertificatesOfDeposit /= n
		h.MutualFunds /= n
		h.Stocks /= n
		h.Bonds /= n
		h.CreditCardBalance /= n
		h.InstallmentDebt /= n
		h.VehicleInstallmentDebt /= n
		households = append(households, h)
	}

	return households, nil
}
