package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// LocationUseCase casos de uso para tiendas y bodegas.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una nueva ubicación activa.
func (uc *LocationUseCase) Create(ctx context.Context, tenantID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	out := dto.NewLocationResponse(location)
	return &out, nil
}

// GetByID obtiene una ubicación del tenant.
func (uc *LocationUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.NotFound("ubicación", id)
	}
	out := dto.NewLocationResponse(location)
	return &out, nil
}

// List lista ubicaciones del tenant con paginación.
func (uc *LocationUseCase) List(ctx context.Context, tenantID string, limit, offset int) (*dto.LocationListResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.NewLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}
