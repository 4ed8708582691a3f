package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"library-catalog/internal/domains/book/model"
	genremodel "library-catalog/internal/domains/genre/model"
)

const exportSheetName = "Books"

var exportHeaders = []string{
	"ID",
	"Title",
	"Author",
	"Genres",
	"Published Date",
	"Page Count",
	"Summary",
	"Cover Image",
}

func (s *BookService) ExportToExcel(ctx context.Context) (*excelize.File, error) {
	books, err := s.repo.List(ctx, model.BookFilter{})
	if err != nil {
		return nil, err
	}

	f, err := buildBooksExcelFile(books)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	// Row 1: header
	for colIdx, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
		_ = f.SetCellStyle(exportSheetName, "A1", lastCol+"1", headerStyle)
	}

	// Data rows start at row 2
	for i, b := range books {
		values := []interface{}{
			b.ID.String(),
			b.Title,
			"",
			strings.Join(lo.Map(b.Genres, func(g genremodel.Genre, _ int) string { return g.Name }), ", "),
			"",
			nil,
			b.Summary,
			lo.FromPtr(b.CoverImage),
		}
		if b.Author != nil {
			values[2] = b.Author.FullName()
		}
		if b.PublishedDate != nil {
			values[4] = b.PublishedDate.String()
		}
		if b.PageCount != nil {
			values[5] = *b.PageCount
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}
