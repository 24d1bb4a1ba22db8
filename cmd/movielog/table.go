package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/marco/movielog/internal/record"
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

// renderRecords prints the standard movie listing table.
func renderRecords(records []*record.MovieRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rating := ""
		if v, ok := r.RatingValue(); ok {
			rating = fmt.Sprintf("%.1f", v)
		}
		watched := ""
		if r.DateWatched != nil {
			watched = r.DateWatched.String()
		}
		rows = append(rows, []string{
			r.Title,
			fmt.Sprintf("%d", r.Year),
			r.Director,
			strings.Join(r.Genres, ", "),
			string(r.Status),
			rating,
			watched,
		})
	}
	return renderTable(
		[]string{"Title", "Year", "Director", "Genres", "Status", "Rating", "Watched"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
