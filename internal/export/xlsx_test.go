package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSaveAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	sheets := []Sheet{
		{Name: "Productos", Header: []string{"Producto", "Unidades"}, Rows: [][]any{{"Lamp", 4}, {"Desk", 1}}},
		{Name: "Clientes", Header: []string{"Cliente"}, Rows: nil},
	}

	require.NoError(t, Save(path, sheets))

	rows, err := ReadRows(path, "Productos")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Producto", "Unidades"}, {"Lamp", "4"}, {"Desk", "1"}}, rows)

	rows, err = ReadRows(path, "Clientes")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Cliente"}}, rows)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Productos", "Clientes"}, f.GetSheetList())
}

func TestWriteRejectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, nil), ErrNoSheets)
	assert.Error(t, Write(&buf, []Sheet{{Header: []string{"x"}}}))
}

func TestWriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Sheet{{Name: "Sheet1", Header: []string{"a"}}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}
