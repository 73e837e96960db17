package services

import (
	"context"

	"go.uber.org/zap"

	"inspection-ingest/internal/entities"
	"inspection-ingest/internal/ingest"
	"inspection-ingest/internal/repositories"
	"inspection-ingest/pkg/types"
)

type EquipmentServiceInterface interface {
	OpenSession(ctx context.Context) (repositories.EquipmentSessionInterface, error)
	UpsertBatch(ctx context.Context, session repositories.EquipmentSessionInterface, drafts []ingest.Draft) []UpsertOutcome
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
}

type EquipmentService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentService(equipmentRepository repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepository: equipmentRepository,
		logger:              logger.Named("equipment_service"),
	}
}

func (s *EquipmentService) OpenSession(ctx context.Context) (repositories.EquipmentSessionInterface, error) {
	return s.equipmentRepository.Session(ctx)
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	return s.equipmentRepository.GetEquipments(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return s.equipmentRepository.FindEquipment(ctx, id)
}
