package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportErrorEntry stores one row-level import failure for observability.
type ImportErrorEntry struct {
	ID           uuid.UUID `json:"id"`
	BatchID      uuid.UUID `json:"batch_id"`
	FileName     string    `json:"file_name"`
	RowNumber    *int      `json:"row_number,omitempty"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}
