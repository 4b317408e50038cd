package domain

// ImportOutcome records the failure of a single source row. Row is the
// 1-based position in the uploaded file so users can find it in their
// spreadsheet.
type ImportOutcome struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ImportReport aggregates the result of one import call. It is built fresh
// per call and never persisted.
type ImportReport struct {
	Imported       int             `json:"imported"`
	Failed         int             `json:"failed"`
	TotalProcessed int             `json:"total_processed"`
	Errors         []ImportOutcome `json:"errors"`
}

// AddFailure appends a row failure and bumps the failed count.
func (r *ImportReport) AddFailure(row int, messages []string) {
	r.Failed++
	r.Errors = append(r.Errors, ImportOutcome{Row: row, Errors: messages})
}

// AddSuccess bumps the imported count.
func (r *ImportReport) AddSuccess() {
	r.Imported++
}

// Finalize computes the derived total before the report is returned.
func (r *ImportReport) Finalize() {
	r.TotalProcessed = r.Imported + r.Failed
}
