package tabfile

// Columns maps a file's header names to their column index. County exports
// are not guaranteed to share the same column order or even the same column
// set, so field access is two-tier: by header name when the file carries it,
// by conventional position otherwise.
type Columns map[string]int

// HeaderIndex builds the name-to-index mapping for one file's header row.
func HeaderIndex(header []string) Columns {
	cols := make(Columns, len(header))
	for i, name := range header {
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}
	return cols
}

// Resolve returns the row's value for the named column. If the header does
// not carry the name, or the row is too short at the named index, the
// conventional position pos is tried instead. Negative positions count from
// the end of the row (the reference layout puts Station Type fourth from
// last and Description last). Rows too short for either index resolve to
// the empty string; Resolve never fails on malformed rows.
func (c Columns) Resolve(row []string, name string, pos int) string {
	if i, ok := c[name]; ok && i >= 0 && i < len(row) {
		return row[i]
	}
	if pos < 0 {
		pos += len(row)
	}
	if pos >= 0 && pos < len(row) {
		return row[pos]
	}
	return ""
}
