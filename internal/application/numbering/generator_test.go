package numbering

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type fakeSource struct {
	count    int
	countErr error
	taken    map[string]bool
	checked  []string
}

func (s *fakeSource) CountSince(_ context.Context, _ string, _ time.Time) (int, error) {
	return s.count, s.countErr
}

func (s *fakeSource) NumberExists(_ context.Context, _, number string) (bool, error) {
	s.checked = append(s.checked, number)
	return s.taken[number], nil
}

func fixedClock() time.Time { return time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC) }

func TestNext_ConsecutivoDelDia(t *testing.T) {
	src := &fakeSource{count: 41}
	g := NewGenerator("ORD", src, logger.Nop(), WithClock(fixedClock))
	assert.Equal(t, "ORD-20260309-00042", g.Next(context.Background(), "t"))
}

func TestNext_ReintentaAnteColision(t *testing.T) {
	src := &fakeSource{taken: map[string]bool{"RET-20260309-00001": true, "RET-20260309-00002": true}}
	g := NewGenerator("RET", src, logger.Nop(), WithClock(fixedClock))
	assert.Equal(t, "RET-20260309-00003", g.Next(context.Background(), "t"))
	assert.Len(t, src.checked, 3)
}

func TestNext_FallbackTrasAgotarIntentos(t *testing.T) {
	taken := map[string]bool{}
	for _, n := range []string{"00001", "00002", "00003"} {
		taken["ORD-20260309-"+n] = true
	}
	src := &fakeSource{taken: taken}
	g := NewGenerator("ORD", src, logger.Nop(), WithClock(fixedClock), WithMaxAttempts(3))

	got := g.Next(context.Background(), "t")
	assert.True(t, strings.HasPrefix(got, "ORD-20260309-"))
	assert.False(t, taken[got])
	assert.Len(t, strings.TrimPrefix(got, "ORD-20260309-"), 12)
	assert.Len(t, src.checked, 3)
}

func TestNext_FuenteCaidaNoBloquea(t *testing.T) {
	src := &fakeSource{countErr: errors.New("db down")}
	g := NewGenerator("ORD", src, logger.Nop(), WithClock(fixedClock))
	a := g.Next(context.Background(), "t")
	b := g.Next(context.Background(), "t")
	assert.NotEqual(t, a, b)
	assert.Empty(t, src.checked)
}
