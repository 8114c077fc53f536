package service

import (
	"bytes"
	"fmt"

	domain "course-planner/internal/domain/projection"
	"course-planner/pkg/logger"

	"github.com/xuri/excelize/v2"
)

const demandSheet = "Demand"

// RenderDemandWorkbook writes demand entries into a single-sheet xlsx workbook.
// Row 1 is a title, row 2 the header, data starts on row 3 in the given order.
func RenderDemandWorkbook(entries []domain.DemandEntry, careerCode string, bySection bool) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(demandSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(demandSheet, "A", "A", 8)
	f.SetColWidth(demandSheet, "B", "B", 22)
	f.SetColWidth(demandSheet, "C", "C", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	scope := careerCode
	if scope == "" {
		scope = "all careers"
	}
	keyHeader := "Course"
	if bySection {
		keyHeader = "Section"
	}

	f.SetCellValue(demandSheet, "A1", fmt.Sprintf("Favorite projection demand (%s)", scope))
	f.MergeCell(demandSheet, "A1", "C1")
	f.SetCellStyle(demandSheet, "A1", "C1", headerStyle)

	for col, title := range []string{"#", keyHeader, "Favorites"} {
		name, _ := excelize.CoordinatesToCellName(col+1, 2)
		f.SetCellValue(demandSheet, name, title)
	}
	f.SetCellStyle(demandSheet, "A2", "C2", headerStyle)

	for i, e := range entries {
		row := i + 3
		f.SetCellValue(demandSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(demandSheet, fmt.Sprintf("B%d", row), e.Key)
		f.SetCellValue(demandSheet, fmt.Sprintf("C%d", row), e.Count)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logger.Error("Failed to write demand workbook: %v", err)
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
