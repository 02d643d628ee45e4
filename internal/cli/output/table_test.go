package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableData_AccumulatesRows(t *testing.T) {
	table := NewTableData("procedure", "result")
	assert.Equal(t, []string{"procedure", "result"}, table.Headers())
	assert.Empty(t, table.Rows())

	table.AddRow("echo", "int=7")
	table.AddRow("sum", "int=10")

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"echo", "int=7"}, rows[0])
	assert.Equal(t, []string{"sum", "int=10"}, rows[1])
}

func TestTableData_PrintRendersHeadersAndRows(t *testing.T) {
	table := NewTableData("name", "value")
	table.AddRow("digest", "0x1234")

	var buf bytes.Buffer
	table.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "digest")
	assert.Contains(t, out, "0x1234")
}

func TestKeyValue_RendersPairs(t *testing.T) {
	var buf bytes.Buffer
	KeyValue(&buf, [][2]string{{"addr", "127.0.0.1:7000"}, {"workers", "10"}})

	out := buf.String()
	assert.Contains(t, out, "addr")
	assert.Contains(t, out, "127.0.0.1:7000")
	assert.Contains(t, out, "workers")
	assert.Contains(t, out, "10")
}
