package export

import "fmt"

// Column describes one exported field. Width is a relative weight used by the PDF layout.
type Column struct {
	Key   string
	Label string
	Width float64
}

// Dataset is tabular export content keyed by column.
type Dataset struct {
	Columns []Column
	Rows    []map[string]string
}

// Labels returns the header row.
func (d Dataset) Labels() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Label
		if out[i] == "" {
			out[i] = c.Key
		}
	}
	return out
}

// Record returns row values in column order; missing keys render empty.
func (d Dataset) Record(row map[string]string) []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = row[c.Key]
	}
	return out
}

func (d Dataset) validate() error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("dataset requires at least one column")
	}
	return nil
}
