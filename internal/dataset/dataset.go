// Package dataset loads CSV files into typed in-memory columns. It is the
// boundary where untyped tabular data becomes strongly typed sequences:
// column kinds are inferred once at load time, and downstream analysis
// code never looks values up by position or re-parses strings.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Kind classifies a column after load-time inference.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	default:
		return "text"
	}
}

// Column is one homogeneous column of a loaded table. Strings always holds
// the raw cell values; Floats and Bools are populated according to Kind.
// Missing numeric cells are NaN, missing bool cells are false.
type Column struct {
	Name    string
	Kind    Kind
	Strings []string
	Floats  []float64
	Bools   []bool
}

// Table is a loaded dataset: a named collection of equally long columns.
type Table struct {
	Name    string
	Rows    int
	columns map[string]*Column
	order   []string
}

// ColumnNames returns the header names in file order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Column returns the named column or ErrColumnNotFound. The error message
// lists the available columns, mirroring what an analyst needs to fix a
// misconfigured column name.
func (t *Table) Column(name string) (*Column, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrColumnNotFound, name, strings.Join(t.order, ", "))
	}
	return col, nil
}

// LoadCSV reads a CSV file into a typed Table. The first record is the
// header; every following record must have the same field count (the csv
// reader enforces that). An empty file or a header-only file is an error.
func LoadCSV(path, name string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %q: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dataset %q: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %q: %w", name, ErrMissingHeader)
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("dataset %q: %w", name, ErrEmptyDataset)
	}

	header := records[0]
	rows := records[1:]

	t := &Table{
		Name:    name,
		Rows:    len(rows),
		columns: make(map[string]*Column, len(header)),
		order:   make([]string, 0, len(header)),
	}

	for idx, colName := range header {
		colName = strings.TrimSpace(colName)
		if _, exists := t.columns[colName]; exists {
			return nil, fmt.Errorf("dataset %q: %w: %q", name, ErrDuplicateColumn, colName)
		}

		raw := make([]string, len(rows))
		for r, record := range rows {
			raw[r] = strings.TrimSpace(record[idx])
		}

		t.columns[colName] = buildColumn(colName, raw)
		t.order = append(t.order, colName)
	}

	return t, nil
}

// buildColumn infers the kind of a raw column and materializes the typed
// representation. A column is numeric when every non-empty cell parses as
// a float, boolean when every non-empty cell is a recognized bool token,
// and text otherwise. Numeric wins over bool for all-0/1 columns only when
// no other bool token appears, so flag columns written as true/false or
// 0/1 both work.
func buildColumn(name string, raw []string) *Column {
	col := &Column{Name: name, Strings: raw}

	isNumeric := true
	isBool := true
	sawBoolWord := false
	nonEmpty := 0

	for _, cell := range raw {
		if cell == "" {
			continue
		}
		nonEmpty++
		if isNumeric {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isNumeric = false
			}
		}
		if isBool {
			if _, word, ok := parseBoolCell(cell); !ok {
				isBool = false
			} else if word {
				sawBoolWord = true
			}
		}
	}

	switch {
	case nonEmpty == 0:
		col.Kind = KindText
	case isBool && sawBoolWord:
		col.Kind = KindBool
		col.Bools = make([]bool, len(raw))
		for i, cell := range raw {
			b, _, _ := parseBoolCell(cell)
			col.Bools[i] = b
		}
	case isNumeric:
		col.Kind = KindNumeric
		col.Floats = make([]float64, len(raw))
		for i, cell := range raw {
			if cell == "" {
				col.Floats[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				v = math.NaN()
			}
			col.Floats[i] = v
		}
	default:
		col.Kind = KindText
	}

	return col
}

// parseBoolCell recognizes the boolean spellings that show up in sensor
// CSV exports. The second return reports whether the spelling was a word
// rather than a 0/1 digit, which disambiguates bool columns from numeric
// ones.
func parseBoolCell(cell string) (value bool, word bool, ok bool) {
	switch strings.ToLower(cell) {
	case "true", "yes", "t", "y":
		return true, true, true
	case "false", "no", "f", "n":
		return false, true, true
	case "1":
		return true, false, true
	case "0":
		return false, false, true
	case "":
		return false, false, true
	default:
		return false, false, false
	}
}

// BoolValues returns the column as booleans. Numeric 0/1 columns coerce,
// so a flag column exported as integers still segments correctly.
func (c *Column) BoolValues() ([]bool, error) {
	switch c.Kind {
	case KindBool:
		return c.Bools, nil
	case KindNumeric:
		out := make([]bool, len(c.Floats))
		for i, v := range c.Floats {
			if math.IsNaN(v) {
				continue
			}
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("column %q: %w: value %v at row %d", c.Name, ErrNotBoolean, v, i)
			}
			out[i] = v == 1
		}
		return out, nil
	default:
		return nil, fmt.Errorf("column %q: %w", c.Name, ErrNotBoolean)
	}
}
