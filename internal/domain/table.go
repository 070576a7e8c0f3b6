package domain

// Table is a master sheet as read from the workbook: a header plus string
// cells. An empty cell means the value is missing.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Index returns the position of col in the header, or -1.
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Has reports whether the header contains col.
func (t *Table) Has(col string) bool {
	return t.Index(col) >= 0
}

// Cell returns the value at (row, idx); out-of-range positions read as missing.
func (t *Table) Cell(row, idx int) string {
	if row < 0 || row >= len(t.Rows) || idx < 0 || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy so normalization never mutates the raw sheet.
func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}
