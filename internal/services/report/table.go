package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Table is a named report. Columns double as the CSV header and the JSON field names.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

func (t *Table) add(cells ...any) {
	t.Rows = append(t.Rows, cells)
}

// Strings renders every cell as text, row by row
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = fmt.Sprint(cell)
		}
	}
	return out
}

// MarshalJSON encodes the table as an array of objects, one per row. Decimals are written
// as JSON numbers.
func (t Table) MarshalJSON() ([]byte, error) {
	records := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		record := make(map[string]any, len(t.Columns))
		for j, col := range t.Columns {
			if j >= len(row) {
				break
			}
			cell := row[j]
			if d, ok := cell.(decimal.Decimal); ok {
				cell = json.Number(d.String())
			}
			record[col] = cell
		}
		records[i] = record
	}
	return json.Marshal(records)
}

func (t *Table) encodeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (t *Table) encodeCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Strings()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
