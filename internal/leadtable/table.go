// Package leadtable holds the tabular lead list a campaign reads and augments.
// Original columns and their order are preserved; derived columns are appended.
package leadtable

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/model"
)

// Column names read from and written to the table.
const (
	ColName          = "name"
	ColTitle         = "title"
	ColCompany       = "company"
	ColEmail         = "email"
	ColNotes         = "notes"
	ColStatus        = "status"
	ColScore         = "score"
	ColPersona       = "persona"
	ColPriority      = "priority"
	ColEmailDraft    = "email_draft"
	ColResponseClass = "response_class"
)

// DerivedColumns are added by EnsureColumns when absent, in this order.
var DerivedColumns = []string{ColStatus, ColScore, ColPersona, ColPriority, ColEmailDraft, ColResponseClass}

// Table is a header plus rows of string cells. Every row has exactly
// len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Parse builds a Table from raw records whose first record is the header.
func Parse(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, eris.New("leadtable: no header row")
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) > len(header) {
			return nil, eris.Errorf("leadtable: row %d has %d fields, header has %d", i+1, len(rec), len(header))
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}

	t := &Table{Header: header, Rows: rows}
	t.reindex()
	return t, nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// column returns the index of name, falling back to a case-insensitive match.
func (t *Table) column(name string) (int, bool) {
	if i, ok := t.index[name]; ok {
		return i, true
	}
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.column(name)
	return ok
}

// AddColumn appends a column with every cell set to def. It is a no-op when
// the column exists.
func (t *Table) AddColumn(name, def string) {
	if t.HasColumn(name) {
		return
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], def)
	}
	t.reindex()
}

// EnsureColumns adds any missing derived column. Score defaults to "0" and
// the rest to empty.
func (t *Table) EnsureColumns() {
	for _, col := range DerivedColumns {
		def := ""
		if col == ColScore {
			def = "0"
		}
		t.AddColumn(col, def)
	}
}

// Get returns the cell at row and column, or "" when either is absent.
func (t *Table) Get(row int, col string) string {
	i, ok := t.column(col)
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][i]
}

// Set writes a cell, adding the column first when needed.
func (t *Table) Set(row int, col, value string) {
	if row < 0 || row >= len(t.Rows) {
		return
	}
	t.AddColumn(col, "")
	i, _ := t.column(col)
	t.Rows[row][i] = value
}

// Lead reads the recognized fields of a row.
func (t *Table) Lead(row int) model.Lead {
	return model.Lead{
		Row:     row,
		Name:    strings.TrimSpace(t.Get(row, ColName)),
		Title:   strings.TrimSpace(t.Get(row, ColTitle)),
		Company: strings.TrimSpace(t.Get(row, ColCompany)),
		Email:   strings.TrimSpace(t.Get(row, ColEmail)),
		Notes:   strings.TrimSpace(t.Get(row, ColNotes)),
	}
}

// Apply writes the derived fields of e back into row e.Row.
func (t *Table) Apply(e model.EnrichedLead) {
	t.Set(e.Row, ColScore, strconv.Itoa(e.Score))
	t.Set(e.Row, ColPersona, e.Persona)
	t.Set(e.Row, ColPriority, string(e.Priority))
	t.Set(e.Row, ColEmailDraft, e.EmailDraft)
	t.Set(e.Row, ColStatus, e.Status())
	t.Set(e.Row, ColResponseClass, string(e.ResponseClass))
}

// Records returns each row as a column-to-value map.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Header))
		for i, h := range t.Header {
			if _, seen := rec[h]; !seen {
				rec[h] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

// WriteCSV writes the header and rows as CSV.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return eris.Wrap(err, "leadtable: write header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return eris.Wrap(err, "leadtable: write rows")
	}
	return nil
}

// Save writes the table as CSV to path, creating parent directories.
func (t *Table) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "leadtable: create dir %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "leadtable: create %s", path)
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "leadtable: close %s", path)
}
