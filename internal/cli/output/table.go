// Package output renders rpcc results as aligned tables via
// olekukonko/tablewriter.
package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableData is an ad-hoc table: headers plus rows appended in order.
type TableData struct {
	headers []string
	rows    [][]string
}

// NewTableData creates a TableData with the given column headers.
func NewTableData(headers ...string) *TableData {
	return &TableData{headers: headers}
}

// AddRow appends a row. Its length should match the header count.
func (t *TableData) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Headers returns the column headers.
func (t *TableData) Headers() []string {
	return t.headers
}

// Rows returns the appended rows, in order.
func (t *TableData) Rows() [][]string {
	return t.rows
}

// Print writes the table to w.
func (t *TableData) Print(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.headers)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, row := range t.rows {
		table.Append(row)
	}
	table.Render()
}

// KeyValue prints a simple two-column key:value table.
func KeyValue(w io.Writer, pairs [][2]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(":")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, pair := range pairs {
		table.Append([]string{pair[0], pair[1]})
	}
	table.Render()
}
