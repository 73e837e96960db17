package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"inspection-ingest/internal/dto"
	"inspection-ingest/internal/entities"
	"inspection-ingest/internal/ingest"
	"inspection-ingest/internal/repositories"
	apperrors "inspection-ingest/pkg/errors"
)

// UpsertOutcome - итог записи одной строки. При ошибке Record == nil.
type UpsertOutcome struct {
	RowNumber int
	Action    string
	Record    *entities.Equipment
	Err       error
}

// UpsertBatch пишет строки по очереди, каждую в своей транзакции.
// Ошибка одной строки не прерывает остальные.
func (s *EquipmentService) UpsertBatch(
	ctx context.Context,
	session repositories.EquipmentSessionInterface,
	drafts []ingest.Draft,
) []UpsertOutcome {
	outcomes := make([]UpsertOutcome, 0, len(drafts))

	for _, draft := range drafts {
		outcome := UpsertOutcome{RowNumber: draft.RowNumber}

		err := session.InTx(ctx, func(tx repositories.EquipmentTxInterface) error {
			action, rec, err := upsertOne(ctx, tx, draft.Record)
			if err != nil {
				return err
			}
			outcome.Action = action
			outcome.Record = rec
			return nil
		})
		if err != nil {
			s.logger.Warn("не удалось записать строку",
				zap.Int("row", draft.RowNumber),
				zap.String("tag", draft.Record.Tag),
				zap.Error(err),
			)
			outcome = UpsertOutcome{RowNumber: draft.RowNumber, Err: err}
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func upsertOne(ctx context.Context, tx repositories.EquipmentTxInterface, record entities.Equipment) (string, *entities.Equipment, error) {
	if err := tx.LockKey(ctx, record.Tag, record.AssignedDate); err != nil {
		return "", nil, err
	}

	existing, err := tx.FindByKey(ctx, record.Tag, record.AssignedDate)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		rec, err := tx.Create(ctx, record)
		if err != nil {
			return "", nil, err
		}
		return dto.ActionCreated, rec, nil
	case err != nil:
		return "", nil, err
	}

	rec, err := tx.Update(ctx, existing.ID, record)
	if err != nil {
		return "", nil, err
	}
	return dto.ActionUpdated, rec, nil
}
