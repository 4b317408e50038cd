package domain

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotFields holds the financial figures carried by one import row.
// Amounts are currency values; UploadedDate is a calendar date rendered as
// YYYY-MM-DD. All fields are overwritten together on upsert, never merged.
type SnapshotFields struct {
	FixedDeposit     float64 `json:"fixed_deposit"`
	Savings          float64 `json:"savings"`
	LoanBalance      float64 `json:"loan_balance"`
	Arrears          float64 `json:"arrears"`
	Fines            float64 `json:"fines"`
	Mortuary         float64 `json:"mortuary"`
	UploadedDate     string  `json:"uploaded_date"`
	AssignedMediator string  `json:"assigned_mediator,omitempty"`
}

// FinancialSnapshot is one client's figures as of one reporting period.
// At most one snapshot exists per (client, period) pair.
type FinancialSnapshot struct {
	ID        uuid.UUID `json:"id"`
	ClientID  int64     `json:"client_id"`
	Period    string    `json:"period"`
	SnapshotFields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFinancialSnapshot creates a snapshot for the given (client, period) key.
func NewFinancialSnapshot(clientID int64, period string, fields SnapshotFields) FinancialSnapshot {
	now := time.Now()
	return FinancialSnapshot{
		ID:             uuid.New(),
		ClientID:       clientID,
		Period:         period,
		SnapshotFields: fields,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Assets sums the deposit-side figures.
func (f SnapshotFields) Assets() float64 {
	return f.FixedDeposit + f.Savings
}

// Liabilities sums the obligation-side figures. Fines and the mortuary fund
// both count as liabilities; this is a deliberate accounting choice of the
// cooperative, not an oversight.
func (f SnapshotFields) Liabilities() float64 {
	return f.LoanBalance + f.Arrears + f.Fines + f.Mortuary
}

// NetWorth is assets minus liabilities.
func (f SnapshotFields) NetWorth() float64 {
	return f.Assets() - f.Liabilities()
}
