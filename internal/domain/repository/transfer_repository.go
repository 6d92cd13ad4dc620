package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransferRepository puerto de traslados entre ubicaciones.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	CreateLine(ctx context.Context, line *entity.TransferLine) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	// GetByIDForUpdate bloquea la cabecera (SELECT FOR UPDATE) para serializar ship/receive/cancel.
	GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	ListLines(ctx context.Context, transferID string) ([]*entity.TransferLine, error)
	Update(ctx context.Context, t *entity.Transfer) error
	UpdateLine(ctx context.Context, line *entity.TransferLine) error
}
