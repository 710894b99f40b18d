package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/smallbiznis/gareline/internal/providers/document"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const summarySheet = "Résumé"

var Module = fx.Module("providers.spreadsheet",
	fx.Provide(New),
)

type Provider interface {
	Render(ctx context.Context, doc document.Document) (io.Reader, error)
}

type ExcelizeProvider struct{}

func New() Provider {
	return &ExcelizeProvider{}
}

// Render writes the summary to the first sheet and each table to its own sheet.
func (p *ExcelizeProvider) Render(ctx context.Context, doc document.Document) (io.Reader, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	rows := [][]string{{doc.Title}}
	if doc.Subtitle != "" {
		rows = append(rows, []string{doc.Subtitle})
	}
	if !doc.GeneratedAt.IsZero() {
		rows = append(rows, []string{"Généré le", doc.GeneratedAt.Format("02/01/2006 15:04") + " UTC"})
	}
	rows = append(rows, nil)
	for _, field := range doc.Summary {
		rows = append(rows, []string{field.Label, field.Value})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(summarySheet, "A", "B", 28)

	used := map[string]int{summarySheet: 1}
	for _, table := range doc.Tables {
		name := sheetName(table.Title, used)
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		data := make([][]string, 0, len(table.Rows)+1)
		data = append(data, table.Headers)
		data = append(data, table.Rows...)
		if err := writeRows(f, name, data); err != nil {
			return nil, err
		}
		if len(table.Headers) > 0 {
			last, _ := excelize.ColumnNumberToName(len(table.Headers))
			_ = f.SetColWidth(name, "A", last, 18)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// sheetName keeps names unique and within the 31 character limit.
func sheetName(title string, used map[string]int) string {
	name := title
	if name == "" {
		name = "Feuille"
	}
	if r := []rune(name); len(r) > 28 {
		name = string(r[:28])
	}
	used[name]++
	if n := used[name]; n > 1 {
		return fmt.Sprintf("%s %d", name, n)
	}
	return name
}
