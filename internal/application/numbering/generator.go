// Package numbering genera números de documento legibles (PREFIJO-AAAAMMDD-NNNNN) por tenant.
// Corre antes de abrir la transacción del documento para no bloquearla.
package numbering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// DefaultMaxAttempts intentos consecutivos antes de recurrir al sufijo aleatorio.
const DefaultMaxAttempts = 5

// Source fuente del consecutivo diario y verificación de unicidad.
type Source interface {
	CountSince(ctx context.Context, tenantID string, since time.Time) (int, error)
	NumberExists(ctx context.Context, tenantID, number string) (bool, error)
}

// Generator genera números únicos por tenant a partir del conteo del día.
type Generator struct {
	prefix      string
	source      Source
	maxAttempts int
	now         func() time.Time
	log         *logger.Logger
}

// Option configura el generador.
type Option func(*Generator)

// WithMaxAttempts cambia el número de intentos antes del fallback.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithClock fija el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator construye el generador para un prefijo (ej. "ORD", "RET").
func NewGenerator(prefix string, source Source, log *logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		prefix:      prefix,
		source:      source,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
		log:         log,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Next devuelve el siguiente número libre. Si la fuente falla o todos los intentos colisionan,
// devuelve un número con sufijo aleatorio: nunca devuelve error.
func (g *Generator) Next(ctx context.Context, tenantID string) string {
	now := g.now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, err := g.source.CountSince(ctx, tenantID, day)
	if err != nil {
		g.log.Warn().Err(err).Str("tenant_id", tenantID).Str("prefix", g.prefix).
			Msg("consecutivo no disponible, se usa sufijo aleatorio")
		return g.Unique()
	}
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%s-%05d", g.prefix, day.Format("20060102"), count+attempt)
		exists, err := g.source.NumberExists(ctx, tenantID, candidate)
		if err != nil {
			g.log.Warn().Err(err).Str("tenant_id", tenantID).Str("number", candidate).
				Msg("no se pudo verificar el número, se usa sufijo aleatorio")
			return g.Unique()
		}
		if !exists {
			return candidate
		}
	}
	g.log.Warn().Str("tenant_id", tenantID).Str("prefix", g.prefix).Int("attempts", g.maxAttempts).
		Msg("colisiones de número agotaron los intentos, se usa sufijo aleatorio")
	return g.Unique()
}

// Unique número con sufijo derivado de un uuid; no depende de la fuente.
func (g *Generator) Unique() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
	return fmt.Sprintf("%s-%s-%s", g.prefix, g.now().UTC().Format("20060102"), suffix)
}
