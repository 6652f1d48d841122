package empirical

import (
	"fmt"

	"scfstats/internal/errors"
)

// ClassifyEducation maps the extract's four-way education classification
// code (edcl) onto the three ordinal groups. Any other code is an
// input-validation defect, never silently defaulted.
func ClassifyEducation(code int) (EducationGroup, error) {
	switch code {
	case 1:
		return GroupDropout, nil
	case 2, 3:
		return GroupHighSchool, nil
	case 4:
		return GroupCollege, nil
	default:
		return 0, errors.NewValidationError(
			fmt.Sprintf("unrecognized education code %d", code), nil).
			WithContext("code", code)
	}
}
