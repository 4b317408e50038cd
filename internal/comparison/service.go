package comparison

import (
	"context"
	"fmt"

	"github.com/SensanoJM/dcompc-cms/internal/domain"
	"github.com/SensanoJM/dcompc-cms/internal/repository"
	"github.com/SensanoJM/dcompc-cms/pkg/logger"
)

// Service loads two snapshots of a client and computes their variance.
type Service struct {
	snapshots repository.SnapshotRepository
	logger    *logger.Logger
}

func NewService(snapshots repository.SnapshotRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{snapshots: snapshots, logger: log}
}

// Result pairs the variance map with the snapshots it was computed from.
type Result struct {
	ClientID        int64                    `json:"client_id"`
	BasePeriod      string                   `json:"base_period"`
	CurrentPeriod   string                   `json:"current_period"`
	Changes         map[string]FieldChange   `json:"changes"`
	BaseSnapshot    domain.FinancialSnapshot `json:"base_snapshot"`
	CurrentSnapshot domain.FinancialSnapshot `json:"current_snapshot"`
}

// ComparePeriods fetches the snapshots for both periods and compares them.
func (s *Service) ComparePeriods(ctx context.Context, clientID int64, basePeriod, currentPeriod string) (Result, error) {
	baseline, err := s.snapshots.Get(ctx, clientID, basePeriod)
	if err != nil {
		return Result{}, fmt.Errorf("load baseline snapshot %q: %w", basePeriod, err)
	}

	current, err := s.snapshots.Get(ctx, clientID, currentPeriod)
	if err != nil {
		return Result{}, fmt.Errorf("load current snapshot %q: %w", currentPeriod, err)
	}

	s.logger.Debug(ctx, "comparing periods",
		"client_id", clientID,
		"base_period", basePeriod,
		"current_period", currentPeriod,
	)

	return Result{
		ClientID:        clientID,
		BasePeriod:      basePeriod,
		CurrentPeriod:   currentPeriod,
		Changes:         Compare(current.SnapshotFields, baseline.SnapshotFields),
		BaseSnapshot:    baseline,
		CurrentSnapshot: current,
	}, nil
}
