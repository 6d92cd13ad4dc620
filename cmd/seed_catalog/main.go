// seed_catalog genera un script SQL para cargar el catálogo de productos de un tenant
// a partir del CSV exportado desde Excel (ISO-8859-1, separado por punto y coma).
//
// Columnas: sku;nombre;precio;costo;punto_reorden;unidad
// La primera fila es el encabezado. Las cifras aceptan coma decimal ("1200,50").
//
// Uso: go run ./cmd/seed_catalog <tenant_id> [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: migrations/002_seed_catalog.sql
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

type catalogRow struct {
	sku          string
	name         string
	price        decimal.Decimal
	cost         decimal.Decimal
	reorderPoint decimal.Decimal
	unit         string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_catalog <tenant_id> [ruta/catalogo.csv]")
		os.Exit(2)
	}
	tenantID := strings.TrimSpace(os.Args[1])
	csvPath := "catalogo.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCatalog(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, tenantID, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos para el tenant %s\n", outPath, len(rows), tenantID)
}

// parseCatalog lee el CSV ya decodificado a UTF-8. Las filas sin SKU se ignoran; un SKU repetido es error.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	seen := make(map[string]int)
	var rows []catalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperan al menos sku y nombre", line)
		}
		row := catalogRow{
			sku:  strings.TrimSpace(rec[0]),
			name: strings.TrimSpace(rec[1]),
			unit: "UND",
		}
		if prev, ok := seen[row.sku]; ok {
			return nil, fmt.Errorf("línea %d: SKU %s repetido (línea %d)", line, row.sku, prev)
		}
		seen[row.sku] = line
		amounts := []*decimal.Decimal{&row.price, &row.cost, &row.reorderPoint}
		for i, dst := range amounts {
			col := i + 2
			if col >= len(rec) {
				break
			}
			v, err := parseAmount(rec[col])
			if err != nil {
				return nil, fmt.Errorf("línea %d, columna %d: %w", line, col+1, err)
			}
			*dst = v
		}
		if len(rec) > 5 && strings.TrimSpace(rec[5]) != "" {
			row.unit = strings.ToUpper(strings.TrimSpace(rec[5]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseAmount acepta "1.200,50", "1200,50" y "1200.50"; vacío es cero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cifra inválida %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("cifra negativa %q", s)
	}
	return inventory.Normalize(d), nil
}

func writeSQL(w io.Writer, tenantID string, rows []catalogRow) error {
	if tenantID == "" {
		return errors.New("tenant_id requerido")
	}
	var b strings.Builder
	b.WriteString("-- Catálogo de productos\n")
	fmt.Fprintf(&b, "-- Generado por seed_catalog para el tenant %s\n\n", escapeSQL(tenantID))
	for _, r := range rows {
		b.WriteString("INSERT INTO products (id, tenant_id, sku, name, price, cost, reorder_point, unit_measure)\n")
		fmt.Fprintf(&b, "VALUES (gen_random_uuid()::text, '%s', '%s', '%s', %s, %s, %s, '%s')\n",
			escapeSQL(tenantID), escapeSQL(r.sku), escapeSQL(r.name),
			r.price.StringFixed(inventory.QuantityScale), r.cost.StringFixed(inventory.QuantityScale),
			r.reorderPoint.StringFixed(inventory.QuantityScale), escapeSQL(r.unit))
		b.WriteString("ON CONFLICT (tenant_id, sku) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price,\n")
		b.WriteString("  cost = EXCLUDED.cost, reorder_point = EXCLUDED.reorder_point, unit_measure = EXCLUDED.unit_measure, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
