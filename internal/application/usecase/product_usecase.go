package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos. El costo y el stock se manejan
// vía movimientos del ledger; aquí solo se fija el costo de referencia inicial.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. El SKU es único por tenant.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	existing, err := uc.repo.GetByTenantAndSKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.Error{
			Kind:    domain.KindValidation,
			Code:    "DUPLICATE_SKU",
			Message: "SKU ya existe en este tenant",
			Details: map[string]any{"sku": sku},
			Err:     domain.ErrDuplicate,
		}
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() || in.ReorderPoint.IsNegative() {
		return nil, domain.Validation("INVALID_AMOUNT", "price, cost y reorder_point no pueden ser negativos", nil)
	}
	trackStock := true
	if in.TrackStock != nil {
		trackStock = *in.TrackStock
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		SKU:          sku,
		Name:         strings.TrimSpace(in.Name),
		Price:        inventory.Normalize(in.Price),
		Cost:         inventory.Normalize(in.Cost),
		ReorderPoint: inventory.Normalize(in.ReorderPoint),
		UnitMeasure:  in.UnitMeasure,
		TrackStock:   trackStock,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// Update modifica los datos de catálogo. No permite tocar el costo promedio (lo mueve el ledger).
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.Validation("INVALID_AMOUNT", "price no puede ser negativo", nil)
		}
		product.Price = inventory.Normalize(*in.Price)
	}
	if in.ReorderPoint != nil {
		if in.ReorderPoint.IsNegative() {
			return nil, domain.Validation("INVALID_AMOUNT", "reorder_point no puede ser negativo", nil)
		}
		product.ReorderPoint = inventory.Normalize(*in.ReorderPoint)
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.TrackStock != nil {
		product.TrackStock = *in.TrackStock
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// List lista productos del tenant con paginación.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.NewProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

