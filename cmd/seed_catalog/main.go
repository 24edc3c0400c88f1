// seed_catalog genera un script SQL con productos y stock inicial de un usuario
// a partir de un catálogo CSV con columnas nombre;precio;cantidad.
//
// Uso: go run ./cmd/seed_catalog -user <uuid> [-latin1] [catalogo.csv]
// Por defecto lee catalogo.csv del directorio actual. -latin1 decodifica ISO-8859-1
// (exportaciones de planillas antiguas).
// Escribe: internal/infrastructure/postgres/migrations/seed_catalog.sql
// (no empieza con número, así que Migrate no lo aplica; se corre a mano con psql).
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogNamespace espacio de nombres de los UUID v5: el mismo usuario y nombre
// producen siempre el mismo id, así el script se puede volver a correr.
var catalogNamespace = uuid.MustParse("6f1c2a4e-3b7d-4c55-9a0e-5d2b8f71c3a9")

type row struct {
	name     string
	price    decimal.Decimal
	quantity decimal.Decimal
}

func main() {
	userID := flag.String("user", "", "UUID del dueño del catálogo")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	flag.Parse()

	if _, err := uuid.Parse(*userID); err != nil {
		fmt.Fprintf(os.Stderr, "-user debe ser un UUID válido: %v\n", err)
		os.Exit(2)
	}
	csvPath := "catalogo.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if *latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := parseCatalog(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	// Ruta del script de salida (relativa al módulo)
	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, *userID, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

// parseCatalog lee filas nombre;precio;cantidad. Acepta coma decimal ("2,50"),
// ignora filas vacías y una cabecera en la primera línea.
func parseCatalog(in io.Reader) ([]row, error) {
	r := csv.NewReader(in)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows []row
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperan 3 columnas (nombre;precio;cantidad)", line)
		}
		name := strings.TrimSpace(rec[0])
		price, perr := parseNumber(rec[1])
		qty, qerr := parseNumber(rec[2])
		if line == 1 && (perr != nil || qerr != nil) {
			continue // cabecera
		}
		switch {
		case name == "":
			return nil, fmt.Errorf("línea %d: nombre vacío", line)
		case perr != nil:
			return nil, fmt.Errorf("línea %d: precio inválido: %w", line, perr)
		case qerr != nil:
			return nil, fmt.Errorf("línea %d: cantidad inválida: %w", line, qerr)
		case price.IsNegative():
			return nil, fmt.Errorf("línea %d: el precio no puede ser negativo", line)
		case qty.IsNegative() || !qty.Equal(qty.Truncate(0)):
			return nil, fmt.Errorf("línea %d: la cantidad debe ser un entero mayor o igual a cero", line)
		}
		rows = append(rows, row{name: name, price: price, quantity: qty})
	}
	return rows, nil
}

func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func writeSQL(w io.Writer, userID string, rows []row) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial (productos y stock)\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")
	b.WriteString("BEGIN;\n\n")
	for _, r := range rows {
		productID := uuid.NewSHA1(catalogNamespace, []byte(userID+"/product/"+strings.ToLower(r.name)))
		stockID := uuid.NewSHA1(catalogNamespace, []byte(userID+"/stock/"+productID.String()))
		fmt.Fprintf(&b, "INSERT INTO products (id, user_id, name, price)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', %s)\n", productID, userID, escapeSQL(r.name), r.price.StringFixed(2))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, updated_at = now();\n")
		fmt.Fprintf(&b, "INSERT INTO stock (id, user_id, product_id, quantity)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', %s)\n", stockID, userID, productID, r.quantity.String())
		b.WriteString("ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now();\n\n")
	}
	b.WriteString("COMMIT;\n")
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
