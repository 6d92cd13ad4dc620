package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

type productRepo struct{ v *view }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write(func(st *state) error {
		for _, existing := range st.products {
			if existing.TenantID == p.TenantID && existing.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = ptr(*p)
		return nil
	})
}

func (r productRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(st *state) error {
		if p, ok := st.products[id]; ok && p.TenantID == tenantID {
			out = ptr(*p)
		}
		return nil
	})
	return out, err
}

func (r productRepo) GetByTenantAndSKU(_ context.Context, tenantID, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if p.TenantID == tenantID && p.SKU == sku {
				out = ptr(*p)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.write(func(st *state) error {
		if existing, ok := st.products[p.ID]; !ok || existing.TenantID != p.TenantID {
			return domain.ErrNotFound
		}
		st.products[p.ID] = ptr(*p)
		return nil
	})
}

func (r productRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	out, err := r.list(tenantID, func(*entity.Product) bool { return true })
	return page(out, limit, offset), err
}

func (r productRepo) ListTracked(_ context.Context, tenantID string) ([]*entity.Product, error) {
	return r.list(tenantID, func(p *entity.Product) bool { return p.Active && p.TrackStock })
}

func (r productRepo) list(tenantID string, keep func(*entity.Product) bool) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if p.TenantID == tenantID && keep(p) {
				out = append(out, ptr(*p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, err
}

type locationRepo struct{ v *view }

func (r locationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.v.write(func(st *state) error {
		st.locations[l.ID] = ptr(*l)
		return nil
	})
}

func (r locationRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.v.read(func(st *state) error {
		if l, ok := st.locations[id]; ok && l.TenantID == tenantID {
			out = ptr(*l)
		}
		return nil
	})
	return out, err
}

func (r locationRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.v.read(func(st *state) error {
		for _, l := range st.locations {
			if l.TenantID == tenantID {
				out = append(out, ptr(*l))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}
