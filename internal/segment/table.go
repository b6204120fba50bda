package segment

import (
	"strings"

	"github.com/finsight/kpiscan/internal/model"
)

// DetectTables finds delimiter-separated blocks (tab or pipe) in raw text and
// parses each into headers plus data rows. A block needs at least two lines
// (a header and one data row) or it is discarded.
func DetectTables(text string) []model.Table {
	var tables []model.Table
	var buf []string

	flush := func() {
		if len(buf) >= 2 {
			tables = append(tables, parseTable(buf))
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.ContainsAny(line, "\t|") {
			buf = append(buf, line)
			continue
		}
		flush()
	}
	flush()

	return tables
}

// parseTable splits buffered lines into a header row and data rows. Tab is
// preferred over pipe when both appear.
func parseTable(lines []string) model.Table {
	delim := "|"
	if strings.Contains(lines[0], "\t") {
		delim = "\t"
	}

	t := model.Table{Headers: splitCells(lines[0], delim)}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, splitCells(line, delim))
	}
	return t
}

// splitCells splits a delimited line and trims each cell. Empty edge cells
// from leading/trailing pipes are dropped.
func splitCells(line, delim string) []string {
	if delim == "|" {
		line = strings.Trim(line, "|")
	}
	parts := strings.Split(line, delim)
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}
