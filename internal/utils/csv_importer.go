package utils

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"golang.org/x/exp/slog"
)

// CatalogWriter is the part of the catalogue service the importer needs
type CatalogWriter interface {
	CreatePrize(ctx context.Context, prize *models.Prize) error
	CreateShopItem(ctx context.Context, item *models.ShopItem) error
}

// ImportResult counts what an import did. Errors holds one line per
// skipped row.
type ImportResult struct {
	TotalRows int      `json:"total_rows"`
	Created   int      `json:"created"`
	Errors    []string `json:"errors"`
}

func (r *ImportResult) skip(row int, format string, args ...interface{}) {
	msg := fmt.Sprintf("Row %d: %s", row, fmt.Sprintf(format, args...))
	r.Errors = append(r.Errors, msg)
	slog.Warn("Skipping CSV row", "row", row, "reason", msg)
}

// CSVImporter loads prizes and shop items from CSV files
type CSVImporter struct {
	catalog CatalogWriter
}

// NewCSVImporter creates a new CSVImporter
func NewCSVImporter(catalog CatalogWriter) *CSVImporter {
	return &CSVImporter{catalog: catalog}
}

// ImportPrizes reads name,prize_type,students_change,valera_change,probability
// rows. A row may carry coins_min and coins_max as well.
func (i *CSVImporter) ImportPrizes(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	nameIdx := findColumnIndex(header, []string{"name", "Prize", "Приз"})
	typeIdx := findColumnIndex(header, []string{"prize_type", "type"})
	studentsIdx := findColumnIndex(header, []string{"students_change", "students"})
	valeraIdx := findColumnIndex(header, []string{"valera_change", "valera"})
	probIdx := findColumnIndex(header, []string{"probability", "chance"})
	minIdx := findColumnIndex(header, []string{"coins_min", "min"})
	maxIdx := findColumnIndex(header, []string{"coins_max", "max"})
	if nameIdx == -1 || typeIdx == -1 {
		return nil, errors.New("name and prize_type columns are required")
	}

	res := &ImportResult{Errors: []string{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		res.TotalRows++
		line := res.TotalRows + 1
		if err != nil {
			res.skip(line, "unreadable: %v", err)
			continue
		}

		prize := &models.Prize{
			Name:        column(row, nameIdx),
			PrizeType:   strings.ToLower(column(row, typeIdx)),
			Probability: column(row, probIdx),
		}
		var bad string
		prize.StudentsChange, bad = intColumn(row, studentsIdx, bad, "students_change")
		prize.ValeraChange, bad = intColumn(row, valeraIdx, bad, "valera_change")
		if column(row, minIdx) != "" || column(row, maxIdx) != "" {
			var lo, hi int
			lo, bad = intColumn(row, minIdx, bad, "coins_min")
			hi, bad = intColumn(row, maxIdx, bad, "coins_max")
			prize.CoinsMin, prize.CoinsMax = &lo, &hi
		}
		if bad != "" {
			res.skip(line, "invalid %s", bad)
			continue
		}
		if err := i.catalog.CreatePrize(ctx, prize); err != nil {
			res.skip(line, "%v", err)
			continue
		}
		res.Created++
	}
	return res, nil
}

// ImportShopItems reads name,price rows
func (i *CSVImporter) ImportShopItems(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	nameIdx := findColumnIndex(header, []string{"name", "item", "Товар"})
	priceIdx := findColumnIndex(header, []string{"price", "cost", "Цена"})
	if nameIdx == -1 || priceIdx == -1 {
		return nil, errors.New("name and price columns are required")
	}

	res := &ImportResult{Errors: []string{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		res.TotalRows++
		line := res.TotalRows + 1
		if err != nil {
			res.skip(line, "unreadable: %v", err)
			continue
		}

		price, bad := intColumn(row, priceIdx, "", "price")
		if bad != "" || column(row, priceIdx) == "" {
			res.skip(line, "invalid price %q", column(row, priceIdx))
			continue
		}
		item := &models.ShopItem{Name: column(row, nameIdx), Price: price}
		if err := i.catalog.CreateShopItem(ctx, item); err != nil {
			res.skip(line, "%v", err)
			continue
		}
		res.Created++
	}
	return res, nil
}

// findColumnIndex finds the index of a column in the header
func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// intColumn parses an optional integer column. An empty cell is zero. The
// name of the first bad column is carried through bad.
func intColumn(row []string, idx int, bad, name string) (int, string) {
	s := column(row, idx)
	if s == "" {
		return 0, bad
	}
	v, err := strconv.Atoi(s)
	if err != nil && bad == "" {
		bad = name
	}
	return v, bad
}
