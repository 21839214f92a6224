package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"cafehere/apperr"
	"cafehere/dto"
	"cafehere/model"
	"cafehere/repository"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Import sheet columns, in order. The first row is a header and is skipped.
const (
	colCategory = iota
	colName
	colDescription
	colCost
	colPrice
	colExpirationDate
	importColumns
)

var importDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Import reads products from the first sheet of an .xlsx workbook. Invalid rows
// are skipped with a reason; the valid ones are inserted all or nothing.
func (s *ProductService) Import(ctx context.Context, cafe *model.Cafe, r io.Reader) (*dto.ImportResult, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Field("file", "Failed to parse Excel file")
	}
	defer xl.Close()

	rows, err := xl.GetRows(xl.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		return nil, apperr.Field("file", "Excel must have at least one row of data")
	}

	imp := &importer{svc: s, cafe: cafe, categories: map[string]*model.Category{}, seen: map[string]bool{}}
	result := &dto.ImportResult{Skipped: []dto.ImportSkip{}}
	var batch []*model.Product
	for i, row := range rows[1:] {
		rowNum := i + 2
		p, reason, err := imp.product(ctx, row)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if reason != "" {
			log.Debug().Int("row", rowNum).Str("reason", reason).Msg("import row skipped")
			result.Skipped = append(result.Skipped, dto.ImportSkip{Row: rowNum, Reason: reason})
			continue
		}
		batch = append(batch, p)
	}

	if len(batch) == 0 {
		return nil, &apperr.Error{
			Kind:   apperr.KindValidation,
			Detail: "No valid rows found",
			Fields: map[string][]string{"file": {"No valid rows found"}},
		}
	}
	if err := s.products.CreateBatch(ctx, batch); err != nil {
		return nil, storeError(err, "file", msgProductNameTaken)
	}
	result.Created = len(batch)
	log.Info().Str("cafe", cafe.UUID.String()).Int("created", result.Created).Int("skipped", len(result.Skipped)).Msg("products imported")
	return result, nil
}

type importer struct {
	svc        *ProductService
	cafe       *model.Cafe
	categories map[string]*model.Category
	// seen holds "categoryID/name" pairs accepted earlier in the same file.
	seen map[string]bool
}

// product converts a row. A non-empty reason means the row is skipped; err is
// reserved for storage failures that abort the import.
func (imp *importer) product(ctx context.Context, row []string) (*model.Product, string, error) {
	if len(row) < importColumns {
		return nil, "incomplete row", nil
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	name := row[colName]
	if name == "" || utf8.RuneCountInString(name) > 30 {
		return nil, "name must be 1 to 30 characters", nil
	}
	if utf8.RuneCountInString(row[colDescription]) > 30 {
		return nil, "description must be at most 30 characters", nil
	}
	cost, err := strconv.Atoi(row[colCost])
	if err != nil || cost < 0 {
		return nil, fmt.Sprintf("invalid cost %q", row[colCost]), nil
	}
	price, err := strconv.Atoi(row[colPrice])
	if err != nil || price < 0 {
		return nil, fmt.Sprintf("invalid price %q", row[colPrice]), nil
	}
	expiration, ok := parseImportDate(row[colExpirationDate])
	if !ok {
		return nil, fmt.Sprintf("invalid expiration_date %q", row[colExpirationDate]), nil
	}

	category, err := imp.category(ctx, row[colCategory])
	if err != nil {
		return nil, "", err
	}
	if category == nil {
		return nil, fmt.Sprintf("unknown category %q", row[colCategory]), nil
	}

	key := fmt.Sprintf("%d/%s", category.ID, name)
	if imp.seen[key] {
		return nil, msgProductNameTaken, nil
	}
	taken, err := imp.svc.products.ExistsByName(ctx, category.ID, name, 0)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, msgProductNameTaken, nil
	}
	imp.seen[key] = true

	p := &model.Product{
		Name:           name,
		Description:    row[colDescription],
		Cost:           cost,
		Price:          price,
		ExpirationDate: expiration,
		CategoryID:     category.ID,
	}
	p.SyncInitialConsonant()
	return p, "", nil
}

// category looks the name up once per import; nil means it is not in the cafe.
func (imp *importer) category(ctx context.Context, name string) (*model.Category, error) {
	if c, ok := imp.categories[name]; ok {
		return c, nil
	}
	c, err := imp.svc.categories.FindByNameInCafe(ctx, imp.cafe.ID, name)
	if errors.Is(err, repository.ErrNotFound) {
		c, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	imp.categories[name] = c
	return c, nil
}

// parseImportDate accepts the text layouts above or an Excel date serial.
func parseImportDate(v string) (time.Time, bool) {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
