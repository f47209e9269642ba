// seed_catalog genera el script SQL que puebla products y spares a partir de la
// exportación CSV del catálogo (separador ';', UTF-8 o ISO-8859-1).
//
// Columnas: clase;id;nombre;stock_minimo[;imagen]  (clase = product | spare)
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv]
// Escribe: migrations/002_seed_catalog.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogRow struct {
	class    string
	id       string
	name     string
	minQty   decimal.Decimal
	imageRef string
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	rows, err := parseCatalog(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	products, spares := writeSeedSQL(out, rows)
	fmt.Printf("Generado %s: %d productos, %d repuestos\n", outPath, products, spares)
}

// parseCatalog decodifica el CSV. Si el contenido no es UTF-8 válido se asume ISO-8859-1
// (exportaciones de Excel en equipos Windows).
func parseCatalog(raw []byte) ([]catalogRow, error) {
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	var rows []catalogRow
	for i, rec := range records {
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 4 columnas", i+1)
		}
		class := strings.ToLower(strings.TrimSpace(rec[0]))
		if i == 0 && class == "clase" {
			continue // encabezado
		}
		if class != "product" && class != "spare" {
			return nil, fmt.Errorf("línea %d: clase desconocida %q", i+1, rec[0])
		}
		id := strings.TrimSpace(rec[1])
		if id == "" {
			return nil, fmt.Errorf("línea %d: id vacío", i+1)
		}
		minQty := decimal.Zero
		if s := strings.TrimSpace(rec[3]); s != "" {
			// Coma decimal en exportaciones es-CO
			minQty, err = decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
			if err != nil || minQty.IsNegative() {
				return nil, fmt.Errorf("línea %d: stock mínimo inválido %q", i+1, rec[3])
			}
		}
		row := catalogRow{class: class, id: id, name: strings.TrimSpace(rec[2]), minQty: minQty}
		if len(rec) > 4 {
			row.imageRef = strings.TrimSpace(rec[4])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeSeedSQL(w io.Writer, rows []catalogRow) (products, spares int) {
	fmt.Fprintln(w, "-- Catálogo de productos y repuestos")
	fmt.Fprintln(w, "-- Generado por cmd/seed_catalog")
	fmt.Fprintln(w)
	for _, r := range rows {
		table := "products"
		if r.class == "spare" {
			table = "spares"
			spares++
		} else {
			products++
		}
		image := "NULL"
		if r.imageRef != "" {
			image = "'" + escapeSQL(r.imageRef) + "'"
		}
		fmt.Fprintf(w, "INSERT INTO %s (id, name, image_ref, min_quantity) VALUES ('%s', '%s', %s, %s)\n",
			table, escapeSQL(r.id), escapeSQL(r.name), image, r.minQty.String())
		fmt.Fprintln(w, "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, image_ref = EXCLUDED.image_ref, min_quantity = EXCLUDED.min_quantity;")
	}
	return products, spares
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
