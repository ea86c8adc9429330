package cli

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiSequence matches the SGR escapes used for colour previews.
var ansiSequence = regexp.MustCompile("\x1b\\[[0-9;]*m")

// Table formats rows as aligned columns. Cells may contain ANSI colour
// sequences; column widths are measured on the visible text only.
type Table struct {
	headers    []string
	rows       [][]string
	padding    int
	rightAlign map[int]bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers:    headers,
		padding:    2,
		rightAlign: make(map[int]bool),
	}
}

// AlignRight right-aligns the given columns, for numbers.
func (t *Table) AlignRight(cols ...int) {
	for _, c := range cols {
		t.rightAlign[c] = true
	}
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], visibleWidth(cell))
		}
	}

	var sb strings.Builder
	t.writeLine(&sb, t.headers, widths)

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	t.writeLine(&sb, sep, widths)

	for _, row := range t.rows {
		t.writeLine(&sb, row, widths)
	}
	return sb.String()
}

func (t *Table) writeLine(sb *strings.Builder, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = pad(cell, widths[i], t.rightAlign[i])
	}
	sb.WriteString(strings.TrimRight(strings.Join(parts, strings.Repeat(" ", t.padding)), " "))
	sb.WriteByte('\n')
}

// visibleWidth returns the number of runes in s once ANSI escapes are removed.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(ansiSequence.ReplaceAllString(s, ""))
}

// pad fills s with spaces up to width. Strings already that wide are returned unchanged.
func pad(s string, width int, right bool) string {
	n := width - visibleWidth(s)
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}
