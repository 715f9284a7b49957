package dataset

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	dserrors "github.com/insightlab/datasight/pkg/errors"
	"github.com/insightlab/datasight/pkg/log"
)

// ReadExcelFile ingests the first sheet of an .xlsx workbook. The first row
// is the header; all cells arrive as strings, exactly as the CSV adapter
// delivers them, so downstream inference treats both sources alike.
func ReadExcelFile(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, dserrors.NewInputError(path, "cannot open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, dserrors.NewInputError(path, "workbook has no sheets", dserrors.ErrEmptyData)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, dserrors.NewInputError(path, "cannot read sheet "+sheets[0], err)
	}
	if len(records) == 0 {
		return nil, dserrors.NewInputError(path, "empty sheet", dserrors.ErrEmptyData)
	}

	columns := dedupeColumns(records[0])
	var rows []Row
	for _, record := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, dserrors.NewInputError(path, "no data rows", dserrors.ErrEmptyData)
	}

	log.GetLoggerWithName("dataset").Info("workbook ingested",
		log.DatasetKey, filepath.Base(path),
		log.RowsKey, len(rows),
		log.ColumnsKey, len(columns),
	)

	ds := New(columns, rows, filepath.Base(path), OriginFile)
	if info, err := os.Stat(path); err == nil {
		ds.Metadata.SourceSize = info.Size()
	}
	return ds, nil
}
