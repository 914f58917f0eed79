package services

import (
	"context"

	"bridge-platform/internal/models"
	"bridge-platform/internal/repository"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

// BridgeService handles read access to the loaded bridge data
type BridgeService struct {
	repo    repository.BridgeRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewBridgeService creates a new bridge service
func NewBridgeService(repo repository.BridgeRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *BridgeService {
	return &BridgeService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// GetStructure retrieves a single structure by NBI number
func (s *BridgeService) GetStructure(ctx context.Context, number string) (*models.Structure, error) {
	return s.repo.GetStructure(ctx, number)
}

// ListStructures retrieves structures with filtering
func (s *BridgeService) ListStructures(ctx context.Context, filter repository.StructureFilter) ([]*models.Structure, int, error) {
	return s.repo.ListStructures(ctx, filter)
}

// ListInspections retrieves inspections with filtering
func (s *BridgeService) ListInspections(ctx context.Context, filter repository.InspectionFilter) ([]*models.Inspection, int, error) {
	return s.repo.ListInspections(ctx, filter)
}

// StructureInspections returns the inspection history of one structure,
// newest first. A structure that does not exist is a *repository.NotFoundError.
func (s *BridgeService) StructureInspections(ctx context.Context, number string, limit, offset int) ([]*models.Inspection, int, error) {
	if _, err := s.repo.GetStructure(ctx, number); err != nil {
		return nil, 0, err
	}
	return s.repo.ListInspections(ctx, repository.InspectionFilter{
		StructureNumber: &number,
		Limit:           limit,
		Offset:          offset,
	})
}

// ListDimension returns a lookup table by name
func (s *BridgeService) ListDimension(ctx context.Context, table string) ([]models.DimensionEntry, error) {
	return s.repo.ListDimension(ctx, table)
}

// ListConditionRatings returns the NBI rating scale
func (s *BridgeService) ListConditionRatings(ctx context.Context) ([]models.ConditionRating, error) {
	return s.repo.ListConditionRatings(ctx)
}

// ListMetadata returns column documentation
func (s *BridgeService) ListMetadata(ctx context.Context, table *string) ([]models.ColumnMetadata, error) {
	return s.repo.ListMetadata(ctx, table)
}

// HealthCheck checks the backing store
func (s *BridgeService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
