package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const keyPrefix = "catalog"

// Catalog read-through de GetByID sobre Redis. Los fallos de Redis no rompen la lectura:
// se registran y se consulta el repositorio. Las misses concurrentes de una misma clave
// se colapsan en una sola consulta.
type Catalog struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	log    *logger.Logger
}

// NewCatalog construye la caché de catálogo.
func NewCatalog(client *redis.Client, ttl time.Duration, log *logger.Logger) *Catalog {
	return &Catalog{client: client, ttl: ttl, log: log}
}

// Products envuelve el repositorio de productos.
func (c *Catalog) Products(next repository.ProductRepository) repository.ProductRepository {
	return &productRepo{ProductRepository: next, cache: c}
}

// Locations envuelve el repositorio de ubicaciones.
func (c *Catalog) Locations(next repository.LocationRepository) repository.LocationRepository {
	return &locationRepo{LocationRepository: next, cache: c}
}

func key(kind, tenantID, id string) string {
	return keyPrefix + ":" + kind + ":" + tenantID + ":" + id
}

// fetch devuelve el valor cacheado o lo carga con loader. Un nil del loader (no existe)
// no se cachea.
func fetch[T any](ctx context.Context, c *Catalog, k string, loader func(context.Context) (*T, error)) (*T, error) {
	payload, err := c.client.Get(ctx, k).Bytes()
	if err == nil {
		var v T
		if err := json.Unmarshal(payload, &v); err == nil {
			return &v, nil
		}
		c.log.Warn().Str("key", k).Msg("entrada de caché corrupta, se descarta")
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("key", k).Msg("lectura de caché fallida")
	}

	res, err, _ := c.group.Do(k, func() (any, error) {
		v, err := loader(ctx)
		if err != nil || v == nil {
			return v, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return v, nil
		}
		if err := c.client.Set(ctx, k, raw, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", k).Msg("escritura de caché fallida")
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	v, _ := res.(*T)
	return v, nil
}

func (c *Catalog) invalidate(ctx context.Context, k string) {
	if err := c.client.Del(ctx, k).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", k).Msg("invalidación de caché fallida")
	}
}

type productRepo struct {
	repository.ProductRepository
	cache *Catalog
}

func (r *productRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return fetch(ctx, r.cache, key("product", tenantID, id), func(ctx context.Context) (*entity.Product, error) {
		return r.ProductRepository.GetByID(ctx, tenantID, id)
	})
}

func (r *productRepo) Update(ctx context.Context, p *entity.Product) error {
	if err := r.ProductRepository.Update(ctx, p); err != nil {
		return err
	}
	r.cache.invalidate(ctx, key("product", p.TenantID, p.ID))
	return nil
}

type locationRepo struct {
	repository.LocationRepository
	cache *Catalog
}

func (r *locationRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Location, error) {
	return fetch(ctx, r.cache, key("location", tenantID, id), func(ctx context.Context) (*entity.Location, error) {
		return r.LocationRepository.GetByID(ctx, tenantID, id)
	})
}
