package formatter

import (
	"strconv"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Alignment of a table column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// RenderTable draws rows under headers with rounded borders.
//
// Short rows are padded with empty cells; aligns may be shorter than headers.
func RenderTable(headers []string, rows [][]string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// ChartToTable renders chart entries as a table.
func ChartToTable(entries []models.ChartEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.Itoa(e.Rank), e.Artist, e.Title, shared.FormatDuration(e.Duration)})
	}
	return RenderTable(
		[]string{"#", "Artist", "Title", "Length"},
		rows,
		[]Alignment{AlignRight, AlignLeft, AlignLeft, AlignRight},
	)
}

// PlaylistsToTable renders playlist summaries as a table.
func PlaylistsToTable(playlists []models.Playlist) string {
	rows := make([][]string, 0, len(playlists))
	for _, p := range playlists {
		rows = append(rows, []string{p.ID, p.Name, strconv.Itoa(p.TrackCount), shared.VisibilityString(p.Public), p.Owner})
	}
	return RenderTable(
		[]string{"ID", "Name", "Tracks", "Visibility", "Owner"},
		rows,
		[]Alignment{AlignLeft, AlignLeft, AlignRight},
	)
}
