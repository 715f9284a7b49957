package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	dserrors "github.com/insightlab/datasight/pkg/errors"
	"github.com/insightlab/datasight/pkg/log"
)

// ReadCSVFile ingests a CSV or TSV file. The first record is the header row;
// subsequent records become string-valued rows. An empty file or a file with
// a header but zero data rows is an input error: ingestion failures block
// pipeline entry entirely.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, dserrors.NewInputError(path, "cannot open file", err)
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	delim := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		delim = '\t'
	}

	ds, err := readCSV(f, filepath.Base(path), delim)
	if err != nil {
		return nil, err
	}
	ds.Metadata.SourceSize = size
	return ds, nil
}

// ReadCSV ingests CSV content from a reader, using name for metadata.
func ReadCSV(r io.Reader, name string) (*Dataset, error) {
	return readCSV(r, name, ',')
}

func readCSV(r io.Reader, name string, delim rune) (*Dataset, error) {
	logger := log.GetLoggerWithName("dataset")

	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1 // ragged rows become missing cells
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, dserrors.NewInputError(name, "empty file", dserrors.ErrEmptyData)
	}
	if err != nil {
		return nil, dserrors.NewInputError(name, "cannot read header", err)
	}

	columns := dedupeColumns(header)

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dserrors.NewInputError(name, "malformed record", err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, dserrors.NewInputError(name, "no data rows", dserrors.ErrEmptyData)
	}

	logger.Info("csv ingested",
		log.DatasetKey, name,
		log.RowsKey, len(rows),
		log.ColumnsKey, len(columns),
	)
	return New(columns, rows, name, OriginFile), nil
}

// dedupeColumns makes header names unique while preserving source order.
// A blank header cell becomes column_N; repeated names get a numeric suffix
// that skips over names already taken by the header itself.
func dedupeColumns(header []string) []string {
	used := make(map[string]bool, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		base := name
		for n := 2; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
