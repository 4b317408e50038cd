package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/SensanoJM/dcompc-cms/internal/domain"
	"github.com/SensanoJM/dcompc-cms/internal/repository"
)

// Service streams a client's snapshot history as CSV.
type Service struct {
	clients   repository.ClientRepository
	snapshots repository.SnapshotRepository
}

func NewService(clients repository.ClientRepository, snapshots repository.SnapshotRepository) *Service {
	return &Service{clients: clients, snapshots: snapshots}
}

var exportHeaders = []string{
	"client_id", "client_name", "period", "fixed_deposit", "savings",
	"loan_balance", "arrears", "fines", "mortuary", "net_worth",
	"uploaded_date", "assigned_mediator",
}

// WriteClientCSV writes every snapshot of the client, ordered by period,
// to the given writer.
func (s *Service) WriteClientCSV(ctx context.Context, clientID int64, w io.Writer) error {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("load client %d: %w", clientID, err)
	}

	snapshots, err := s.snapshots.ListByClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("list snapshots for client %d: %w", clientID, err)
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(exportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(exportHeaders))
	for _, snapshot := range snapshots {
		fillRow(row, client, snapshot)
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("write snapshot row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

func fillRow(row []string, client domain.Client, snapshot domain.FinancialSnapshot) {
	row[0] = strconv.FormatInt(client.ID, 10)
	row[1] = client.Name
	row[2] = snapshot.Period
	row[3] = formatAmount(snapshot.FixedDeposit)
	row[4] = formatAmount(snapshot.Savings)
	row[5] = formatAmount(snapshot.LoanBalance)
	row[6] = formatAmount(snapshot.Arrears)
	row[7] = formatAmount(snapshot.Fines)
	row[8] = formatAmount(snapshot.Mortuary)
	row[9] = formatAmount(snapshot.NetWorth())
	row[10] = snapshot.UploadedDate
	row[11] = snapshot.AssignedMediator
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
