// Package tablewriter renders plain-text tables for terminal output.
package tablewriter

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Align is the horizontal alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table collects a header and rows and writes them as a boxed table.
// Column widths account for ANSI colors and wide characters.
type Table struct {
	out      io.Writer
	header   []string
	rows     [][]string
	align    []Align
	maxWidth int
}

// New returns a table that renders to w.
func New(w io.Writer) *Table {
	return &Table{out: w}
}

// SetHeader sets the column titles. The header fixes the column count;
// extra cells in rows are dropped and missing ones are left blank.
func (t *Table) SetHeader(header ...string) {
	t.header = header
}

// SetAlign sets per-column alignment. Columns without an entry are left
// aligned.
func (t *Table) SetAlign(align ...Align) {
	t.align = align
}

// SetMaxWidth truncates cells wider than n columns with an ellipsis.
// Zero disables truncation.
func (t *Table) SetMaxWidth(n int) {
	t.maxWidth = n
}

// Append adds a row.
func (t *Table) Append(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows appended.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table. Nothing is written for an empty table.
func (t *Table) Render() error {
	columns := len(t.header)
	if columns == 0 {
		for _, row := range t.rows {
			columns = max(columns, len(row))
		}
	}
	if columns == 0 {
		return nil
	}

	header := t.fit(t.header, columns)
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = t.fit(row, columns)
	}
	widths := make([]int, columns)
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], DisplayWidth(cell))
		}
	}

	bw := bufio.NewWriter(t.out)
	border := t.border(widths)
	bw.WriteString(border)
	if len(t.header) > 0 {
		t.writeRow(bw, header, widths)
		bw.WriteString(border)
	}
	for _, row := range rows {
		t.writeRow(bw, row, widths)
	}
	bw.WriteString(border)
	return bw.Flush()
}

func (t *Table) fit(row []string, columns int) []string {
	cells := make([]string, columns)
	for i := 0; i < columns && i < len(row); i++ {
		cell := strings.ReplaceAll(row[i], "\n", " ")
		if t.maxWidth > 0 && DisplayWidth(cell) > t.maxWidth {
			cell = runewidth.Truncate(StripANSI(cell), t.maxWidth, "…")
		}
		cells[i] = cell
	}
	return cells
}

func (t *Table) border(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, width := range widths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

func (t *Table) writeRow(w *bufio.Writer, row []string, widths []int) {
	w.WriteByte('|')
	for i, cell := range row {
		pad := strings.Repeat(" ", widths[i]-DisplayWidth(cell))
		w.WriteByte(' ')
		if i < len(t.align) && t.align[i] == AlignRight {
			w.WriteString(pad + cell)
		} else {
			w.WriteString(cell + pad)
		}
		w.WriteString(" |")
	}
	w.WriteByte('\n')
}

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the number of terminal columns s occupies.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}
