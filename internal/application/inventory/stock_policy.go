package inventory

import (
	"context"
	"strings"
)

// ConfigStockPolicy resuelve AllowNegative desde configuración: bandera global más una lista
// de tenants autorizados a quedar en negativo.
type ConfigStockPolicy struct {
	allowAll bool
	tenants  map[string]struct{}
}

var _ StockPolicy = (*ConfigStockPolicy)(nil)

// NewConfigStockPolicy construye la política. tenants admite ids con espacios alrededor.
func NewConfigStockPolicy(allowNegative bool, tenants []string) *ConfigStockPolicy {
	set := make(map[string]struct{}, len(tenants))
	for _, t := range tenants {
		if t = strings.TrimSpace(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return &ConfigStockPolicy{allowAll: allowNegative, tenants: set}
}

// Rules devuelve las reglas del tenant.
func (p *ConfigStockPolicy) Rules(_ context.Context, tenantID string) (StockRules, error) {
	if p.allowAll {
		return StockRules{AllowNegative: true}, nil
	}
	_, ok := p.tenants[tenantID]
	return StockRules{AllowNegative: ok}, nil
}
