package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"ncr-quality-backend/internal/domain/ncr"
)

const sheet = "NCR"

var headers = []string{
	"월", "일", "발생처", "고객사", "모델", "품명", "품번", "불량내용", "유출원인", "발생원인",
	"대책", "계획일", "완료일", "유효성 확인", "상태", "진척률(%)", "비고", "첨부", "8D",
}

var colWidths = []float64{5, 5, 10, 14, 14, 16, 14, 30, 24, 24, 30, 11, 11, 16, 8, 9, 20, 6, 5}

// Entries writes one row per entry, in the order given, plus a summary row.
func Entries(entries []ncr.Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headStyle)
	}

	var closed int
	for i, e := range entries {
		has8D := ""
		if e.EightD != nil {
			has8D = "Y"
		}
		if e.Status == ncr.StatusClosed {
			closed++
		}
		row := []any{
			e.Month, e.Day, e.Source, e.Customer, e.Model, e.PartName, e.PartNo, e.DefectContent,
			e.OutflowCause, e.RootCause, e.Countermeasure, e.PlanDate, e.ResultDate,
			e.EffectivenessCheck, string(e.Status), e.ProgressRate, e.Remarks, len(e.Attachments), has8D,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	summaryRow := len(entries) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "합계")
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf("총 %d건 / 완료 %d건", len(entries), closed))
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("S%d", summaryRow), summaryStyle)

	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return f, nil
}

func FileName(now time.Time) string {
	return fmt.Sprintf("NCR_%s.xlsx", now.Format("20060102"))
}
