package importer

import (
	"fmt"
	"math"
	"time"

	"github.com/SensanoJM/dcompc-cms/internal/domain"
)

const maxLabelLength = 255

// ValidateIdentity checks the client-identity rules for a classified row.
// It returns every violation, not just the first, so a row's problems can
// be surfaced in one report entry.
func ValidateIdentity(identity Identity) []string {
	var messages []string

	if identity.ID == nil {
		messages = append(messages, "client identifier is required and must be numeric")
	}
	if identity.Name == "" {
		messages = append(messages, "client name is required")
	} else if len(identity.Name) > maxLabelLength {
		messages = append(messages, fmt.Sprintf("client name must be at most %d characters", maxLabelLength))
	}

	return messages
}

// ValidateFinancial checks the financial-record rules for a coerced row.
// Currency fields carry no sign or range restriction; negative arrears and
// overpayments are representable.
func ValidateFinancial(period string, fields domain.SnapshotFields) []string {
	var messages []string

	if period == "" {
		messages = append(messages, "reporting period is required")
	} else if len(period) > maxLabelLength {
		messages = append(messages, fmt.Sprintf("reporting period must be at most %d characters", maxLabelLength))
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"fixed deposit", fields.FixedDeposit},
		{"savings", fields.Savings},
		{"loan balance", fields.LoanBalance},
		{"arrears", fields.Arrears},
		{"fines", fields.Fines},
		{"mortuary", fields.Mortuary},
	}
	for _, amount := range amounts {
		if math.IsNaN(amount.value) || math.IsInf(amount.value, 0) {
			messages = append(messages, fmt.Sprintf("%s must be a numeric amount", amount.name))
		}
	}

	if fields.UploadedDate != "" {
		if _, err := time.Parse(dateLayout, fields.UploadedDate); err != nil {
			messages = append(messages, "uploaded date must be a valid calendar date")
		}
	}

	return messages
}
