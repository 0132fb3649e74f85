package cmd

import (
	"bytes"
	"encoding/csv"
	"testing"

	"db-gate/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCSV_QuotesHeaderAndValues(t *testing.T) {
	rows := []record.Row{
		record.NewRow([]string{"a,b", "c", "d"}, []record.Value{record.Text("x\ry"), record.Null(), record.Text("")}),
		record.NewRow([]string{"a,b", "c", "d"}, []record.Value{record.Text(`say "hi"`), record.Int(2), record.Text("p\nq")}),
	}

	var out bytes.Buffer
	require.NoError(t, renderRows(&out, rows, "csv"))
	assert.Equal(t, "\"a,b\",c,d\n\"x\ry\",NULL,\n\"say \"\"hi\"\"\",2,\"p\nq\"\n", out.String())

	records, err := csv.NewReader(bytes.NewReader(out.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a,b", "c", "d"}, records[0])
	assert.Equal(t, []string{"say \"hi\"", "2", "p\nq"}, records[2])
}

func TestRenderJSON_KeepsColumnOrder(t *testing.T) {
	rows := []record.Row{
		record.NewRow([]string{"z", "a", "id", "a"}, []record.Value{record.Int(1), record.Int(2), record.Null(), record.Text("dup")}),
	}

	var out bytes.Buffer
	require.NoError(t, renderRows(&out, rows, "json"))
	assert.Equal(t, "[\n  {\n    \"z\": 1,\n    \"a\": 2,\n    \"id\": null,\n    \"a\": \"dup\"\n  }\n]\n", out.String())
}

func TestRenderRows_UnknownFormat(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, renderRows(&out, nil, "xml"))
}
