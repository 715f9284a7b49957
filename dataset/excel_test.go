package dataset_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/insightlab/datasight/dataset"
	dserrors "github.com/insightlab/datasight/pkg/errors"
)

func writeWorkbook(t *testing.T, records [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &record))
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadExcelFileBasic(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"name", "score"},
		{"alice", "91"},
		{"bob", "78"},
	})

	ds, err := dataset.ReadExcelFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "score"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "alice", ds.Rows[0]["name"])
	assert.Equal(t, dataset.OriginFile, ds.Metadata.Origin)
	assert.Positive(t, ds.Metadata.SourceSize)
}

func TestReadExcelFileHeaderOnly(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{{"a", "b"}})

	_, err := dataset.ReadExcelFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, dserrors.ErrEmptyData)
}

func TestReadExcelFileMissingFile(t *testing.T) {
	_, err := dataset.ReadExcelFile(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)

	var inputErr *dserrors.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestQuerySource(t *testing.T) {
	src := dataset.NewQuerySource("demo://sales")
	src.Register("orders", dataset.QueryResult{
		Columns: []string{"id", "total"},
		Rows: [][]interface{}{
			{1, 99.5},
			{2, 45.0},
		},
	})

	ds, err := src.Query("orders")
	require.NoError(t, err)
	assert.Equal(t, dataset.OriginDatabase, ds.Metadata.Origin)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, 99.5, ds.Rows[0]["total"])

	_, err = src.Query("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, dserrors.ErrUnsupportedSource)
}
