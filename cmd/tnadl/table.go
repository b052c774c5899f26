package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ytget/tnadl/internal/sanitize"
	"github.com/ytget/tnadl/types"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderVariantTable lists variants in selection order with the file name
// each would be saved under and its media URL.
func renderVariantTable(list types.VariantList) string {
	headers := []string{"#", "Quality", "Size", "Type", "File", "URL"}
	rows := make([][]string, 0, len(list))
	for i, v := range list {
		rows = append(rows, []string{
			strconv.Itoa(i),
			v.Quality,
			strconv.Itoa(v.Size),
			v.MediaType,
			sanitize.SourceName(v),
			v.URL,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignRight})
}
