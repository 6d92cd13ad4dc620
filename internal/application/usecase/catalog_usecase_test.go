package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func TestProductUseCase_CreateYDuplicado(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	uc := usecase.NewProductUseCase(repos.Products())

	in := dto.CreateProductRequest{
		SKU: " SKU-1 ", Name: "Tornillo", Price: decimal.RequireFromString("1200.123456"),
		UnitMeasure: "UND",
	}
	out, err := uc.Create(ctx, "t1", in)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", out.SKU)
	assert.True(t, out.TrackStock, "sin track_stock explícito se controla el stock")
	assert.True(t, out.Active)
	assert.Equal(t, "1200.1235", out.Price.String())

	_, err = uc.Create(ctx, "t1", in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	// Mismo SKU en otro tenant es válido.
	_, err = uc.Create(ctx, "t2", in)
	require.NoError(t, err)
}

func TestProductUseCase_RechazaNegativos(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Repositories().Products())
	_, err := uc.Create(context.Background(), "t1", dto.CreateProductRequest{
		SKU: "X", Name: "X", UnitMeasure: "UND", Cost: decimal.NewFromInt(-1),
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestProductUseCase_UpdateYAislamientoPorTenant(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewStore().Repositories().Products())
	created, err := uc.Create(ctx, "t1", dto.CreateProductRequest{SKU: "A", Name: "A", UnitMeasure: "UND"})
	require.NoError(t, err)

	inactive := false
	rp := decimal.NewFromInt(5)
	out, err := uc.Update(ctx, "t1", created.ID, dto.UpdateProductRequest{Active: &inactive, ReorderPoint: &rp})
	require.NoError(t, err)
	assert.False(t, out.Active)
	assert.True(t, out.ReorderPoint.Equal(rp))

	_, err = uc.GetByID(ctx, "t2", created.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = uc.Update(ctx, "t2", created.ID, dto.UpdateProductRequest{Active: &inactive})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestLocationUseCase_CreateYList(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewLocationUseCase(memory.NewStore().Repositories().Locations())

	_, err := uc.Create(ctx, "t1", dto.CreateLocationRequest{Name: "Bodega", Address: "Calle 1"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "t1", dto.CreateLocationRequest{Name: "Tienda"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "t2", dto.CreateLocationRequest{Name: "Otra"})
	require.NoError(t, err)

	list, err := uc.List(ctx, "t1", 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	for _, l := range list.Items {
		assert.True(t, l.Active)
		assert.Equal(t, "t1", l.TenantID)
	}
}
