package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SensanoJM/dcompc-cms/internal/domain"
	"github.com/SensanoJM/dcompc-cms/internal/repository"
	"github.com/SensanoJM/dcompc-cms/pkg/logger"

	"github.com/google/uuid"
)

// ColumnMapping names the source column for every field of an import row.
// The legacy workbook layout is positional, so the mapping is configuration
// rather than a hard-coded contract scattered through the loop; alternate
// layouts only need a different mapping.
type ColumnMapping struct {
	Identifier       int
	Name             int
	FixedDeposit     int
	Savings          int
	LoanBalance      int
	Arrears          int
	Fines            int
	Mortuary         int
	UploadedDate     int
	Period           int
	AssignedMediator int
}

// DefaultColumnMapping matches the layout the cooperative's workbooks have
// always used: identifier and name first, six currency columns, uploaded
// date, period, and an optional mediator column.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Identifier:       0,
		Name:             1,
		FixedDeposit:     2,
		Savings:          3,
		LoanBalance:      4,
		Arrears:          5,
		Fines:            6,
		Mortuary:         7,
		UploadedDate:     8,
		Period:           9,
		AssignedMediator: 10,
	}
}

// Service turns decoded spreadsheet rows into validated client snapshots.
type Service struct {
	clients   repository.ClientRepository
	snapshots repository.SnapshotRepository
	errorLog  repository.ImportErrorRepository
	mapping   ColumnMapping
	logger    *logger.Logger
}

// NewService creates an import service over the given stores. The error log
// repository may be nil; row failures are then only reported, not persisted.
func NewService(
	clients repository.ClientRepository,
	snapshots repository.SnapshotRepository,
	errorLog repository.ImportErrorRepository,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		clients:   clients,
		snapshots: snapshots,
		errorLog:  errorLog,
		mapping:   DefaultColumnMapping(),
		logger:    log,
	}
}

// WithColumnMapping overrides the default column layout.
func (s *Service) WithColumnMapping(mapping ColumnMapping) *Service {
	s.mapping = mapping
	return s
}

// ImportFile decodes an uploaded spreadsheet and imports its rows. Only a
// structural failure before processing begins (unreadable or unsupported
// file) returns an error; every in-batch row problem lands in the report.
func (s *Service) ImportFile(ctx context.Context, fileName string, data io.Reader) (domain.ImportReport, error) {
	if data == nil {
		return domain.ImportReport{}, errors.New("data reader is required")
	}

	payload, err := io.ReadAll(data)
	if err != nil {
		return domain.ImportReport{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return domain.ImportReport{}, errors.New("file is empty")
	}

	rows, err := DecodeTable(fileName, payload)
	if err != nil {
		return domain.ImportReport{}, err
	}

	return s.Import(ctx, ImportRequest{FileName: fileName, Rows: rows}), nil
}

// ImportRequest carries one decoded batch into the engine.
type ImportRequest struct {
	FileName string
	Rows     [][]any
}

// Import processes rows strictly in source order. Row 0 is always the
// header. Blank rows are cosmetic and uncounted. Each valid row upserts the
// client (last name wins) and then the snapshot keyed by (client, period),
// so re-importing a corrected file is idempotent. Failures are per-row;
// earlier successes stay committed.
func (s *Service) Import(ctx context.Context, req ImportRequest) domain.ImportReport {
	batchID := uuid.New()
	ctx = logger.WithBatchID(ctx, batchID.String())

	report := domain.ImportReport{Errors: []domain.ImportOutcome{}}

	for i, row := range req.Rows {
		if i == 0 {
			continue
		}
		if isBlankRow(row) {
			continue
		}

		rowNumber := i + 1
		m := s.mapping

		identity := ClassifyRow(cellAt(row, m.Identifier), cellAt(row, m.Name))
		if messages := ValidateIdentity(identity); len(messages) > 0 {
			s.failRow(ctx, &report, batchID, req.FileName, rowNumber, messages)
			continue
		}

		fields := domain.SnapshotFields{
			FixedDeposit:     CoerceAmount(cellAt(row, m.FixedDeposit)),
			Savings:          CoerceAmount(cellAt(row, m.Savings)),
			LoanBalance:      CoerceAmount(cellAt(row, m.LoanBalance)),
			Arrears:          CoerceAmount(cellAt(row, m.Arrears)),
			Fines:            CoerceAmount(cellAt(row, m.Fines)),
			Mortuary:         CoerceAmount(cellAt(row, m.Mortuary)),
			UploadedDate:     CoerceDate(cellAt(row, m.UploadedDate)),
			AssignedMediator: CoerceText(cellAt(row, m.AssignedMediator)),
		}
		period := CoerceText(cellAt(row, m.Period))

		if messages := ValidateFinancial(period, fields); len(messages) > 0 {
			s.failRow(ctx, &report, batchID, req.FileName, rowNumber, messages)
			continue
		}

		// Client upsert happens exactly once per valid row, independent of
		// whether the snapshot already exists.
		if _, err := s.clients.Upsert(ctx, *identity.ID, identity.Name); err != nil {
			s.failRow(ctx, &report, batchID, req.FileName, rowNumber, []string{err.Error()})
			continue
		}

		if _, err := s.snapshots.Upsert(ctx, *identity.ID, period, fields); err != nil {
			s.failRow(ctx, &report, batchID, req.FileName, rowNumber, []string{err.Error()})
			continue
		}

		report.AddSuccess()
	}

	report.Finalize()

	s.logger.Info(ctx, "import completed",
		"file_name", req.FileName,
		"imported", report.Imported,
		"failed", report.Failed,
		"total_processed", report.TotalProcessed,
	)

	return report
}

func (s *Service) failRow(ctx context.Context, report *domain.ImportReport, batchID uuid.UUID, fileName string, rowNumber int, messages []string) {
	report.AddFailure(rowNumber, messages)

	s.logger.Warn(ctx, "import row rejected",
		"file_name", fileName,
		"row", rowNumber,
		"errors", messages,
	)

	if s.errorLog == nil {
		return
	}
	row := rowNumber
	entry := domain.ImportErrorEntry{
		BatchID:      batchID,
		FileName:     fileName,
		RowNumber:    &row,
		ErrorMessage: strings.Join(messages, "; "),
	}
	if err := s.errorLog.Record(ctx, entry); err != nil {
		s.logger.Error(ctx, "failed to record import error", "error", err)
	}
}

// cellAt returns the cell at idx, or nil when the row is too short; missing
// trailing columns are treated as absent.
func cellAt(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func isBlankRow(row []any) bool {
	for _, cell := range row {
		if CoerceText(cell) != "" {
			return false
		}
	}
	return true
}
