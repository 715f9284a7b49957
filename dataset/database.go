package dataset

import (
	dserrors "github.com/insightlab/datasight/pkg/errors"
)

// QueryResult is the shape a database collaborator hands the pipeline: a
// result set with ordered columns and value rows. The pipeline owns no SQL;
// any driver that can produce this shape can feed it.
type QueryResult struct {
	Columns []string
	Rows    [][]interface{}
}

// QuerySource is an in-memory stand-in for a database connection. It serves
// named result sets and is used by tests and the CLI demo path.
type QuerySource struct {
	descriptor string
	results    map[string]QueryResult
}

// NewQuerySource creates a query source identified by descriptor
// (e.g. "demo://sales").
func NewQuerySource(descriptor string) *QuerySource {
	return &QuerySource{
		descriptor: descriptor,
		results:    make(map[string]QueryResult),
	}
}

// Register stores a result set under a query name.
func (q *QuerySource) Register(name string, result QueryResult) {
	q.results[name] = result
}

// Query materializes a registered result set as a Dataset. Unknown queries
// and empty result sets are input errors.
func (q *QuerySource) Query(name string) (*Dataset, error) {
	result, ok := q.results[name]
	if !ok {
		return nil, dserrors.NewInputError(q.descriptor, "unknown query "+name, dserrors.ErrUnsupportedSource)
	}
	if len(result.Columns) == 0 || len(result.Rows) == 0 {
		return nil, dserrors.NewInputError(q.descriptor, "query "+name+" returned no data", dserrors.ErrEmptyData)
	}

	rows := make([]Row, len(result.Rows))
	for i, record := range result.Rows {
		row := make(Row, len(result.Columns))
		for j, col := range result.Columns {
			if j < len(record) {
				row[col] = record[j]
			}
		}
		rows[i] = row
	}

	ds := New(result.Columns, rows, q.descriptor+"#"+name, OriginDatabase)
	return ds, nil
}
