// Package pdf genera la hoja de conteo físico imprimible de un stock count.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Ubicación + dirección  │  Tipo de conteo + fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | SKU | Producto | Contado | Notas                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Contó / Revisó                                      │
//	└─────────────────────────────────────────────────────────────┘
//
// La hoja es ciega: nunca imprime la cantidad del sistema para no sesgar al contador.
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.CountSheetGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateCountSheet genera la hoja de conteo y devuelve sus bytes.
// Solo se listan las líneas que aún requieren conteo (PENDING o RECOUNT_REQUESTED).
func (g *MarotoPDFGenerator) GenerateCountSheet(
	ctx context.Context,
	count *entity.StockCount,
	location *entity.Location,
	items []*entity.StockCountItem,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count == nil || location == nil {
		return nil, fmt.Errorf("pdf: conteo y ubicación son obligatorios")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de conteo "+count.ID, true).
		WithAuthor(location.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(count, location))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(instructionsRow(count))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(pendingItems(items))...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: ubicación (izq) y tipo de conteo + fecha (der).
func headerRow(count *entity.StockCount, location *entity.Location) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(location.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(location.Address, "Sin dirección registrada"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE CONTEO "+countTypeLabel(count.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(count.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+count.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func instructionsRow(count *entity.StockCount) core.Row {
	msg := "Cuente físicamente cada producto y escriba la cantidad en la columna CONTADO. " +
		"Use NOTAS para daños, lotes o ubicaciones incorrectas."
	if count.Notes != "" {
		msg += " Observaciones: " + count.Notes
	}
	return row.New(12).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func tableHeaderRow() core.Row {
	hdr := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 1.5, Left: 1}
	return row.New(7).
		WithStyle(&props.Cell{BackgroundColor: colorPrimary}).
		Add(
			col.New(1).Add(text.New("#", hdr)),
			col.New(2).Add(text.New("SKU", hdr)),
			col.New(4).Add(text.New("PRODUCTO", hdr)),
			col.New(2).Add(text.New("CONTADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 1.5, Align: align.Center,
			})),
			col.New(3).Add(text.New("NOTAS", hdr)),
		)
}

// tableDetailRows deja CONTADO y NOTAS en blanco para diligenciar a mano.
func tableDetailRows(items []*entity.StockCountItem) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("No hay productos pendientes de conteo.", props.Text{
				Size: 8, Top: 2, Align: align.Center, Color: colorGray,
			}),
		))}
	}
	cell := props.Text{Size: 8, Top: 2, Left: 1}
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		name := it.ProductName
		if it.Status == entity.CountItemRecountRequested {
			name += " (reconteo)"
		}
		r := row.New(9).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), cell)),
			col.New(2).Add(text.New(nonEmpty(it.SKU, it.ProductID), cell)),
			col.New(4).Add(text.New(name, cell)),
			col.New(2).Add(text.New("__________", props.Text{
				Size: 8, Top: 2, Align: align.Center, Color: colorGray,
			})),
			col.New(3),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		rows = append(rows, r)
	}
	return rows
}

func signatureRow() core.Row {
	sig := props.Text{Size: 8, Top: 8, Color: colorGray}
	return row.New(16).Add(
		col.New(6).Add(text.New("Contó: ______________________________", sig)),
		col.New(6).Add(text.New("Revisó: ______________________________", sig)),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func pendingItems(items []*entity.StockCountItem) []*entity.StockCountItem {
	out := make([]*entity.StockCountItem, 0, len(items))
	for _, it := range items {
		if it.Status == entity.CountItemPending || it.Status == entity.CountItemRecountRequested {
			out = append(out, it)
		}
	}
	return out
}

func countTypeLabel(t entity.StockCountType) string {
	if t == entity.StockCountCycle {
		return "CÍCLICO"
	}
	return "COMPLETO"
}

func shortID(id string) string {
	if len(id) > 8 {
		return "N° " + id[:8]
	}
	return "N° " + id
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
