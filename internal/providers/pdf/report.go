package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/gareline/internal/providers/document"
)

const gridSize = 12

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}

func (p *MarotoProvider) Render(ctx context.Context, doc document.Document) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(gridSize, doc.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	if doc.Subtitle != "" {
		m.AddRow(8, text.NewCol(gridSize, doc.Subtitle, props.Text{Size: 11}))
	}
	if !doc.GeneratedAt.IsZero() {
		m.AddRow(8, text.NewCol(gridSize, "Généré le "+doc.GeneratedAt.Format("02/01/2006 15:04")+" UTC", props.Text{Size: 9}))
	}
	m.AddRow(4, line.NewCol(gridSize))

	for _, field := range doc.Summary {
		m.AddRow(6,
			text.NewCol(6, field.Label, props.Text{Size: 10, Style: fontstyle.Bold}),
			text.NewCol(6, field.Value, props.Text{Size: 10, Align: align.Right}),
		)
	}

	for _, table := range doc.Tables {
		addTable(m, table)
	}

	generated, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(generated.GetBytes()), nil
}

func addTable(m core.Maroto, table document.Table) {
	if len(table.Headers) == 0 {
		return
	}

	m.AddRow(6, col.New(gridSize))
	if table.Title != "" {
		m.AddRow(9, text.NewCol(gridSize, table.Title, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Top:   2,
		}))
	}

	widths := columnWidths(len(table.Headers))
	header := make([]core.Col, 0, len(widths))
	for i, width := range widths {
		header = append(header, text.NewCol(width, table.Headers[i], props.Text{Style: fontstyle.Bold, Size: 8}))
	}
	m.AddRow(7, header...)
	m.AddRow(2, line.NewCol(gridSize))

	for _, row := range table.Rows {
		cols := make([]core.Col, 0, len(widths))
		for i, width := range widths {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			cols = append(cols, text.NewCol(width, value, props.Text{Size: 8}))
		}
		m.AddRow(6, cols...)
	}
}

// columnWidths splits the 12-unit grid across n columns, widest first.
func columnWidths(n int) []int {
	if n > gridSize {
		n = gridSize
	}
	base, extra := gridSize/n, gridSize%n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < extra {
			widths[i]++
		}
	}
	return widths
}
