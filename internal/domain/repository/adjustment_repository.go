package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AdjustmentRepository puerto de ajustes manuales y sus líneas.
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.Adjustment) error
	CreateLine(ctx context.Context, line *entity.AdjustmentLine) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Adjustment, error)
	ListLines(ctx context.Context, adjustmentID string) ([]*entity.AdjustmentLine, error)
}
