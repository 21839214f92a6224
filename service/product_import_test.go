package service

import (
	"bytes"
	"context"
	"testing"

	"cafehere/apperr"
	"cafehere/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := []any{"category", "name", "description", "cost", "price", "expiration_date"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportSkipsInvalidRows(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	coffee := e.category(t, "coffee")
	e.product(t, coffee, "latte")

	buf := workbook(t,
		[]any{"coffee", "아메리카노", "hot", "1000", "4000", "2030-01-01"},
		[]any{"coffee", "latte", "dup of stored", "1000", "4000", "2030-01-01"},
		[]any{"tea", "green", "no such category", "1000", "4000", "2030-01-01"},
		[]any{"coffee", "mocha", "bad price", "1000", "-1", "2030-01-01"},
		[]any{"coffee", "cold brew", "bad date", "1000", "4000", "someday"},
		[]any{"coffee", "아메리카노", "dup in file", "1000", "4000", "2030-01-01"},
		[]any{"coffee", "flat white"},
		[]any{"coffee", "espresso", "", "500", "3000", "2030-01-01T09:00:00+09:00"},
	)

	result, err := e.svc.Products.Import(ctx, e.cafe, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	skippedRows := []int{}
	for _, s := range result.Skipped {
		skippedRows = append(skippedRows, s.Row)
		assert.NotEmpty(t, s.Reason)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8}, skippedRows)

	found, err := e.svc.Products.List(ctx, e.cafe, dto.ProductListQuery{Search: "ㅇㅁ"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "아메리카노", found[0].Name)
}

func TestImportWithoutValidRows(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.svc.Products.Import(ctx, e.cafe, workbook(t, []any{"missing", "x", "", "1", "1", "2030-01-01"}))
	assertFieldError(t, err, "file")

	_, err = e.svc.Products.Import(ctx, e.cafe, workbook(t))
	assertFieldError(t, err, "file")

	_, err = e.svc.Products.Import(ctx, e.cafe, bytes.NewBufferString("not a workbook"))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestParseImportDate(t *testing.T) {
	for _, v := range []string{"2030-01-01", "2030-01-01 12:30", "2030-01-01T12:30:00Z", "47484"} {
		_, ok := parseImportDate(v)
		assert.True(t, ok, v)
	}
	_, ok := parseImportDate("tomorrow")
	assert.False(t, ok)
}
