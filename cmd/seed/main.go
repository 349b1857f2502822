// seed carga la configuración de negocio inicial (costos indirectos y gastos)
// desde archivos CSV exportados de la hoja de cálculo del negocio.
//
// Uso: go run ./cmd/seed [costos.csv] [gastos.csv]
// Por defecto busca costos_indirectos.csv y gastos.csv en el directorio actual;
// el archivo que no exista se omite. Acepta CSV en UTF-8 o ISO-8859-1
// (exportación típica de Excel es-CO) y separador coma o punto y coma.
//
// costos.csv: nombre,tipo,valor            (tipo: fixed|per_order|per_item|percentage)
// gastos.csv: categoria,monto,periodo,fecha (periodo vacío = puntual; fecha YYYY-MM-DD)
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Rentabilidad-api/pkg/config"
)

func main() {
	overheadPath := "costos_indirectos.csv"
	expensePath := "gastos.csv"
	if len(os.Args) > 1 {
		overheadPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		expensePath = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Preparar esquema: %v\n", err)
		os.Exit(1)
	}
	store := postgres.NewCollectionStore(pool)

	if rows, ok := readRows(overheadPath); ok {
		overheads, err := parseOverheads(rows)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", overheadPath, err)
			os.Exit(1)
		}
		if err := postgres.NewOverheadCollection(store).ReplaceAll(ctx, overheads); err != nil {
			fmt.Fprintf(os.Stderr, "Guardar costos indirectos: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cargados %d costos indirectos desde %s\n", len(overheads), overheadPath)
	}

	if rows, ok := readRows(expensePath); ok {
		expenses, err := parseExpenses(rows)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", expensePath, err)
			os.Exit(1)
		}
		if err := postgres.NewExpenseCollection(store).ReplaceAll(ctx, expenses); err != nil {
			fmt.Fprintf(os.Stderr, "Guardar gastos: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cargados %d gastos desde %s\n", len(expenses), expensePath)
	}
}

// readRows lee el CSV completo. Devuelve ok=false si el archivo no existe.
func readRows(path string) ([][]string, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Omitido %s (no existe)\n", path)
			return nil, false
		}
		fmt.Fprintf(os.Stderr, "Leer %s: %v\n", path, err)
		os.Exit(1)
	}

	var reader io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		reader = transform.NewReader(reader, charmap.ISO8859_1.NewDecoder())
	}

	r := csv.NewReader(reader)
	if i := bytes.IndexByte(raw, '\n'); i > 0 && bytes.Count(raw[:i], []byte(";")) > bytes.Count(raw[:i], []byte(",")) {
		r.Comma = ';'
	}
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parsear %s: %v\n", path, err)
		os.Exit(1)
	}
	return rows, true
}

// isHeader detecta una fila de encabezado (segunda columna no numérica ni tipo conocido).
func isHeader(row []string) bool {
	if len(row) < 2 {
		return false
	}
	second := strings.ToLower(strings.TrimSpace(row[1]))
	if entity.ValidOverheadType(second) {
		return false
	}
	_, err := decimal.NewFromString(second)
	return err != nil
}

func parseOverheads(rows [][]string) ([]entity.OverheadCost, error) {
	var out []entity.OverheadCost
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("fila %d: se esperan 3 columnas (nombre,tipo,valor)", i+1)
		}
		name := strings.TrimSpace(row[0])
		typ := strings.ToLower(strings.TrimSpace(row[1]))
		if name == "" || !entity.ValidOverheadType(typ) {
			return nil, fmt.Errorf("fila %d: nombre vacío o tipo desconocido %q", i+1, row[1])
		}
		value, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil || value.IsNegative() {
			return nil, fmt.Errorf("fila %d: valor inválido %q", i+1, row[2])
		}
		out = append(out, entity.OverheadCost{
			ID:    uuid.New().String(),
			Name:  name,
			Type:  typ,
			Value: value,
		})
	}
	return out, nil
}

func parseExpenses(rows [][]string) ([]entity.Expense, error) {
	var out []entity.Expense
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("fila %d: se esperan 4 columnas (categoria,monto,periodo,fecha)", i+1)
		}
		category := strings.TrimSpace(row[0])
		amount, err := decimal.NewFromString(strings.TrimSpace(row[1]))
		if err != nil || amount.IsNegative() {
			return nil, fmt.Errorf("fila %d: monto inválido %q", i+1, row[1])
		}
		period := strings.ToLower(strings.TrimSpace(row[2]))
		if !entity.ValidExpensePeriod(period) {
			return nil, fmt.Errorf("fila %d: periodo desconocido %q", i+1, row[2])
		}
		e := entity.Expense{
			ID:       uuid.New().String(),
			Category: category,
			Amount:   amount,
			Period:   period,
		}
		if raw := strings.TrimSpace(row[3]); raw != "" {
			e.Date, err = time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, fmt.Errorf("fila %d: fecha inválida %q (se espera YYYY-MM-DD)", i+1, raw)
			}
		} else if period == "" {
			return nil, fmt.Errorf("fila %d: un gasto puntual requiere fecha", i+1)
		}
		out = append(out, e)
	}
	return out, nil
}
