package scfdata

// RawRecord is one implicate row of the SCF summary extract. Each sampled
// household appears five times, once per imputation replicate, and the
// rows of one household share the sampling weight.
type RawRecord struct {
	UnitID      int64 // household identifier (yy1), shared across implicates
	RecordID    int64 // per-implicate record identifier (y1)
	ImplicateID int   // 1..5, derived from the record identifier

	Weight float64
	Age    float64

	EducationCode int

	// Annual normal income, the extract's permanent-income proxy.
	Income float64

	// Asset fields
	LiquidCash            float64
	CertificatesOfDeposit float64
	MutualFunds           float64
	Stocks                float64
	Bonds                 float64

	// Debt fields
	CreditCardBalance      float64
	InstallmentDebt        float64
	VehicleInstallmentDebt float64

	// Set by the balance merge: the respondent reports always paying the
	// credit card balance in full, so the revolving balance is zero.
	PaysBalanceInFull bool
}

// BalanceAnswer is one row of the auxiliary credit-card questionnaire
// table, keyed like RawRecord by (unit, implicate).
type BalanceAnswer struct {
	UnitID      int64
	ImplicateID int
	// Raw questionnaire code; 1 means "always pays balance in full".
	PaysInFull int
}

// PaysInFullCode is the questionnaire answer that forces the revolving
// credit-card balance to zero during the merge.
const PaysInFullCode = 1

// Household is one sampling unit after the implicate axis has been
// collapsed: numeric fields are implicate means, the weight is a single
// implicate's weight inflated by the implicate count.
type Household struct {
	UnitID        int64
	Weight        float64
	Age           float64
	EducationCode int
	Income        float64

	LiquidCash            float64
	CertificatesOfDeposit float64
	MutualFunds           float64
	Stocks                float64
	Bonds                 float64

	CreditCardBalance      float64
	InstallmentDebt        float64
	VehicleInstallmentDebt float64
}

type mergeKey struct {
	unitID      int64
	implicateID int
}
