package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportListsToExcel writes every list with its items to an xlsx report
// and returns the file path.
func (s *PostgresStorage) ExportListsToExcel(ctx context.Context) (string, error) {
	lists, err := s.ListAllLists(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch lists: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet("Lists")
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"ID", "List", "Description", "Items"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue("Lists", cell, header)
	}

	for row, list := range lists {
		items, err := s.ListItems(ctx, list.ListName)
		if err != nil {
			return "", fmt.Errorf("failed to fetch items of %s: %w", list.ListName, err)
		}

		names := make([]string, 0, len(items))
		for _, item := range items {
			names = append(names, item.ItemName)
		}

		data := []interface{}{
			list.ID,
			list.ListName,
			list.Info.String,
			strings.Join(names, ", "),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue("Lists", cell, value)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle("Lists", "A1", "D1", style)

	f.SetActiveSheet(index)

	if err := os.MkdirAll("reports", 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filepath := fmt.Sprintf("reports/lists_%s.xlsx", time.Now().Format("20060102_1504"))
	if err := f.SaveAs(filepath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return filepath, nil
}
