package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/SensanoJM/dcompc-cms/internal/domain"
	"github.com/SensanoJM/dcompc-cms/internal/repository"

	"github.com/google/uuid"
)

func headerRow() []any {
	return []any{"ID", "Name", "Fixed Deposit", "Savings", "Loan Balance", "Arrears", "Fines", "Mortuary", "Uploaded", "Period", "Mediator"}
}

func memberRow(id, name, savings, period string) []any {
	return []any{id, name, "1000.00", savings, "0", "0", "0", "0", "2024-01-15", period, ""}
}

// newTestService takes the error log as the interface type so tests that
// pass nil exercise the no-error-log path rather than a typed nil pointer.
func newTestService(clients *stubClientRepo, snapshots *stubSnapshotRepo, errorLog repository.ImportErrorRepository) *Service {
	return NewService(clients, snapshots, errorLog, nil)
}

func TestImportHeaderOnly(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}

	service := newTestService(clients, snapshots, nil)
	report := service.Import(context.Background(), ImportRequest{Rows: [][]any{headerRow()}})

	if report.Imported != 0 || report.Failed != 0 || report.TotalProcessed != 0 {
		t.Fatalf("expected zero counts for header-only file, got %+v", report)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("expected no errors, got %+v", report.Errors)
	}
}

func TestImportSkipsHeaderEvenWithDataShapedValues(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}

	rows := [][]any{
		memberRow("999", "Looks Like Data", "5000", "2024-Q1"),
		memberRow("1001", "Juan Dela Cruz", "5000", "2024-Q1"),
	}

	service := newTestService(clients, snapshots, nil)
	report := service.Import(context.Background(), ImportRequest{Rows: rows})

	if report.Imported != 1 {
		t.Fatalf("expected 1 imported, got %+v", report)
	}
	if _, ok := clients.byID(999); ok {
		t.Fatalf("header row must never create a client")
	}
}

func TestImportSkipsBlankRows(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}

	rows := [][]any{
		headerRow(),
		{"", "", "", ""},
		memberRow("1001", "Juan Dela Cruz", "5000", "2024-Q1"),
		{nil, nil},
		{},
	}

	service := newTestService(clients, snapshots, nil)
	report := service.Import(context.Background(), ImportRequest{Rows: rows})

	if report.Imported != 1 || report.Failed != 0 || report.TotalProcessed != 1 {
		t.Fatalf("blank rows must not be counted, got %+v", report)
	}
}

func TestImportCoercesFormattedValues(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}

	rows := [][]any{
		headerRow(),
		{"1001", "Juan Dela Cruz", "$1,250.50", "₱5,000.00", "abc", "0", "0", "0", 45000, "2024-Q1", "R. Santos"},
	}

	service := newTestService(clients, snapshots, nil)
	report := service.Import(context.Background(), ImportRequest{Rows: rows})

	if report.Imported != 1 {
		t.Fatalf("expected import to succeed, got %+v", report)
	}

	snapshot, ok := snapshots.get(1001, "2024-Q1")
	if !ok {
		t.Fatalf("expected snapshot for (1001, 2024-Q1)")
	}
	if snapshot.FixedDeposit != 1250.50 {
		t.Fatalf("expected fixed deposit 1250.50, got %v", snapshot.FixedDeposit)
	}
	if snapshot.Savings != 5000 {
		t.Fatalf("expected savings 5000, got %v", snapshot.Savings)
	}
	if snapshot.LoanBalance != 0 {
		t.Fatalf("unparsable amount must degrade to 0, got %v", snapshot.LoanBalance)
	}
	if snapshot.UploadedDate != "2023-03-15" {
		t.Fatalf("expected serial 45000 to resolve to 2023-03-15, got %s", snapshot.UploadedDate)
	}
	if snapshot.AssignedMediator != "R. Santos" {
		t.Fatalf("expected mediator, got %q", snapshot.AssignedMediator)
	}
}

func TestImportSamePeriodTwiceInOneBatch(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}

	rows := [][]any{
		headerRow(),
		memberRow("1001", "Juan Dela Cruz", "5000", "2024-Q1"),
		memberRow("1001", "Juan Dela Cruz", "6000", "2024-Q1"),
	}

	service := newTestService(clients, snapshots, nil)
	report := service.Import(context.Background(), ImportRequest{Rows: rows})

	if report.Imported != 2 {
		t.Fatalf("both rows must count as imported, got %+v", report)
	}
	if snapshots.count() != 1 {
		t.Fatalf("expected exactly one snapshot for the pair, got %d", snapshots.count())
	}
	snapshot, _ := snapshots.get(1001, "2024-Q1")
	if snapshot.Savings != 6000 {
		t.Fatalf("second row must win, got savings %v", snapshot.Savings)
	}
}

func TestImportIsIdempotent(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}

	rows := [][]any{
		headerRow(),
		memberRow("1001", "Juan Dela Cruz", "5000", "2024-Q1"),
		memberRow("1001", "Juan Dela Cruz", "5200", "2024-Q2"),
	}

	service := newTestService(clients, snapshots, nil)
	first := service.Import(context.Background(), ImportRequest{Rows: rows})
	second := service.Import(context.Background(), ImportRequest{Rows: rows})

	if first.Imported != second.Imported {
		t.Fatalf("re-import must report the same count: first %d, second %d", first.Imported, second.Imported)
	}
	if snapshots.count() != 2 {
		t.Fatalf("re-import must not duplicate snapshots, got %d", snapshots.count())
	}
}

func TestImportRejectsMissingIdentifier(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}

	rows := [][]any{
		headerRow(),
		memberRow("not-a-number", "", "5000", "2024-Q1"),
	}

	service := newTestService(clients, snapshots, nil)
	report := service.Import(context.Background(), ImportRequest{Rows: rows})

	if report.Failed != 1 || report.Imported != 0 {
		t.Fatalf("expected single failure, got %+v", report)
	}
	if report.Errors[0].Row != 2 {
		t.Fatalf("row numbers are 1-based source positions, got %d", report.Errors[0].Row)
	}
	found := false
	for _, message := range report.Errors[0].Errors {
		if strings.Contains(message, "identifier") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an identifier message, got %v", report.Errors[0].Errors)
	}
	if clients.len() != 0 {
		t.Fatalf("rejected row must not create a client")
	}
}

func TestImportTotalsAlwaysAddUp(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}

	rows := [][]any{
		headerRow(),
		memberRow("1001", "Juan Dela Cruz", "5000", "2024-Q1"),
		memberRow("bad", "", "5000", "2024-Q1"),
		memberRow("1002", "Maria Clara", "100", ""),
	}

	service := newTestService(clients, snapshots, nil)
	report := service.Import(context.Background(), ImportRequest{Rows: rows})

	if report.TotalProcessed != report.Imported+report.Failed {
		t.Fatalf("totals must add up, got %+v", report)
	}
	if report.Imported != 1 || report.Failed != 2 {
		t.Fatalf("unexpected counts: %+v", report)
	}
}

func TestImportPersistenceFailureDoesNotAbortBatch(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{failPeriod: "2024-Q1"}

	rows := [][]any{
		headerRow(),
		memberRow("1001", "Juan Dela Cruz", "5000", "2024-Q1"),
		memberRow("1002", "Maria Clara", "800", "2024-Q2"),
	}

	service := newTestService(clients, snapshots, nil)
	report := service.Import(context.Background(), ImportRequest{Rows: rows})

	if report.Failed != 1 || report.Imported != 1 {
		t.Fatalf("storage failure must be a row failure, got %+v", report)
	}
	if !strings.Contains(report.Errors[0].Errors[0], "storage rejected") {
		t.Fatalf("expected the store's message to surface, got %v", report.Errors[0].Errors)
	}
}

func TestImportRecordsRowFailuresToErrorLog(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}
	errorLog := &stubErrorLogRepo{}

	rows := [][]any{
		headerRow(),
		memberRow("bad", "", "5000", "2024-Q1"),
	}

	service := newTestService(clients, snapshots, errorLog)
	service.Import(context.Background(), ImportRequest{FileName: "members.xlsx", Rows: rows})

	if len(errorLog.entries) != 1 {
		t.Fatalf("expected one logged failure, got %d", len(errorLog.entries))
	}
	entry := errorLog.entries[0]
	if entry.FileName != "members.xlsx" {
		t.Fatalf("expected file name on entry, got %q", entry.FileName)
	}
	if entry.RowNumber == nil || *entry.RowNumber != 2 {
		t.Fatalf("expected row number 2 on entry, got %v", entry.RowNumber)
	}
}

func TestImportWithoutErrorLogStillReportsFailures(t *testing.T) {
	service := newTestService(&stubClientRepo{}, &stubSnapshotRepo{}, nil)

	rows := [][]any{
		headerRow(),
		memberRow("bad", "", "5000", "2024-Q1"),
	}

	report := service.Import(context.Background(), ImportRequest{Rows: rows})

	if report.Failed != 1 {
		t.Fatalf("failures must be reported even with no error log, got %+v", report)
	}
}

func TestImportLaterRowsSeeEarlierUpserts(t *testing.T) {
	clients := &stubClientRepo{}
	snapshots := &stubSnapshotRepo{}

	rows := [][]any{
		headerRow(),
		memberRow("1001", "Old Name", "5000", "2024-Q1"),
		memberRow("1001", "New Name", "5200", "2024-Q2"),
	}

	service := newTestService(clients, snapshots, nil)
	service.Import(context.Background(), ImportRequest{Rows: rows})

	client, ok := clients.byID(1001)
	if !ok {
		t.Fatalf("expected client 1001")
	}
	if client.Name != "New Name" {
		t.Fatalf("last write must win for the name, got %q", client.Name)
	}
}

type stubClientRepo struct {
	clients map[int64]domain.Client
}

func (s *stubClientRepo) Upsert(ctx context.Context, id int64, name string) (domain.Client, error) {
	if s.clients == nil {
		s.clients = make(map[int64]domain.Client)
	}
	client, ok := s.clients[id]
	if !ok {
		client = domain.NewClient(id, name)
	}
	client.Name = name
	s.clients[id] = client
	return client, nil
}

func (s *stubClientRepo) GetByID(ctx context.Context, id int64) (domain.Client, error) {
	client, ok := s.clients[id]
	if !ok {
		return domain.Client{}, domain.ErrClientNotFound
	}
	return client, nil
}

func (s *stubClientRepo) List(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	return nil, errors.New("not implemented")
}

func (s *stubClientRepo) byID(id int64) (domain.Client, bool) {
	client, ok := s.clients[id]
	return client, ok
}

func (s *stubClientRepo) len() int { return len(s.clients) }

type stubSnapshotRepo struct {
	snapshots  map[string]domain.FinancialSnapshot
	failPeriod string
}

func snapshotKey(clientID int64, period string) string {
	return fmt.Sprintf("%d|%s", clientID, period)
}

func (s *stubSnapshotRepo) Upsert(ctx context.Context, clientID int64, period string, fields domain.SnapshotFields) (domain.FinancialSnapshot, error) {
	if s.failPeriod != "" && period == s.failPeriod {
		return domain.FinancialSnapshot{}, errors.New("storage rejected the write")
	}
	if s.snapshots == nil {
		s.snapshots = make(map[string]domain.FinancialSnapshot)
	}
	key := snapshotKey(clientID, period)
	snapshot, ok := s.snapshots[key]
	if !ok {
		snapshot = domain.NewFinancialSnapshot(clientID, period, fields)
	}
	snapshot.SnapshotFields = fields
	s.snapshots[key] = snapshot
	return snapshot, nil
}

func (s *stubSnapshotRepo) Get(ctx context.Context, clientID int64, period string) (domain.FinancialSnapshot, error) {
	snapshot, ok := s.snapshots[snapshotKey(clientID, period)]
	if !ok {
		return domain.FinancialSnapshot{}, domain.ErrSnapshotNotFound
	}
	return snapshot, nil
}

func (s *stubSnapshotRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.FinancialSnapshot, error) {
	var snapshots []domain.FinancialSnapshot
	for _, snapshot := range s.snapshots {
		if snapshot.ClientID == clientID {
			snapshots = append(snapshots, snapshot)
		}
	}
	return snapshots, nil
}

func (s *stubSnapshotRepo) get(clientID int64, period string) (domain.FinancialSnapshot, bool) {
	snapshot, ok := s.snapshots[snapshotKey(clientID, period)]
	return snapshot, ok
}

func (s *stubSnapshotRepo) count() int { return len(s.snapshots) }

type stubErrorLogRepo struct {
	entries []domain.ImportErrorEntry
}

func (s *stubErrorLogRepo) Record(ctx context.Context, entry domain.ImportErrorEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubErrorLogRepo) List(ctx context.Context, batchID uuid.UUID, limit, offset int) ([]domain.ImportErrorEntry, error) {
	return nil, errors.New("not implemented")
}

var _ repository.ClientRepository = (*stubClientRepo)(nil)
var _ repository.SnapshotRepository = (*stubSnapshotRepo)(nil)
var _ repository.ImportErrorRepository = (*stubErrorLogRepo)(nil)
