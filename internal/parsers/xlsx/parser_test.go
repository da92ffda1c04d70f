package xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Stores"))
	require.NoError(t, f.SetSheetRow("Stores", "A1", &[]interface{}{"ID", "Name", "State"}))
	require.NoError(t, f.SetSheetRow("Stores", "A2", &[]interface{}{"s1", "Corner Market", "IL"}))
	require.NoError(t, f.SetSheetRow("Stores", "A4", &[]interface{}{"s2", "Big Box", "MO"}))

	_, err := f.NewSheet("Empty")
	require.NoError(t, err)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestWorkbookSheet(t *testing.T) {
	wb, err := Open(buildWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Stores", "Empty"}, wb.SheetNames())

	table, err := wb.Sheet("stores")
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Name", "State"}, table.Headers)
	// The blank third row is skipped.
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "s2", table.Rows[1][0])

	col, ok := table.Column("state")
	require.True(t, ok)
	assert.Equal(t, "MO", table.Rows[1][col])
}

func TestWorkbookSheetErrors(t *testing.T) {
	wb, err := Open(buildWorkbook(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Sheet("Prices")
	assert.ErrorContains(t, err, "not found")

	_, err = wb.Sheet("Empty")
	assert.ErrorContains(t, err, "empty")
}

func TestOpenInvalid(t *testing.T) {
	_, err := Open([]byte("not a workbook"))
	assert.Error(t, err)
}
