package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/veskel/cityscan/internal/logger"
	"github.com/veskel/cityscan/internal/models"
)

var workbookHeader = []string{
	"Rank",
	"Building",
	"Size",
	"Street Requirement",
	"Efficiency (fragments/tile)",
	"Expected fragments/cycle",
	"Details",
}

// WriteWorkbook writes the xlsx workbook with one sheet per kit type and
// returns its path.
func WriteWorkbook(outputDir, eraName string, reports models.KitReports) (string, error) {
	path := WorkbookPath(outputDir, eraName)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("failed to close workbook", "error", err)
		}
	}()

	for i, kit := range models.KitTypes() {
		sheet := kit.Label()
		if i == 0 {
			// Rename the default sheet instead of leaving it dangling
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return "", fmt.Errorf("failed to create sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		if err := fillSheet(f, sheet, reports[kit]); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	return path, nil
}

func fillSheet(f *excelize.File, sheet string, buildings []models.KitBuilding) error {
	for col, title := range workbookHeader {
		if err := setCell(f, sheet, col+1, 1, title); err != nil {
			return err
		}
	}

	for i, building := range buildings {
		row := i + 2

		var street interface{} = "n/a"
		if building.Street != nil {
			street = *building.Street
		}
		var efficiency interface{} = "n/a"
		if building.Area() > 0 {
			efficiency = building.Efficiency
		}

		details := make([]string, 0, len(building.Records))
		for _, record := range building.Records {
			details = append(details, RecordLine(record))
		}

		values := []interface{}{
			i + 1,
			building.Name,
			building.SizeLabel(),
			street,
			efficiency,
			building.Expected,
			strings.Join(details, "\n"),
		}
		for col, value := range values {
			if err := setCell(f, sheet, col+1, row, value); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(sheet, "B", "B", 32)
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates: %w", err)
	}
	if err := f.SetCellValue(sheet, ref, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", ref, err)
	}
	return nil
}
