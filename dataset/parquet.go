package dataset

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/slippistats/lcancel-query/logging"
	"github.com/slippistats/lcancel-query/query"
	"github.com/slippistats/lcancel-query/schema"
)

// Load reads the landing event dataset from a parquet file into a single
// in-memory Arrow record. The load is atomic: either the whole table is
// resident and schema-validated, or a LoadError is returned. The record
// is owned by the caller and must be released.
func Load(ctx context.Context, path string, alloc memory.Allocator, logger *logging.ComponentLogger) (arrow.Record, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, &query.LoadError{Path: path, Err: err}
	}
	defer f.Close()

	table, err := pqarrow.ReadTable(ctx, f, parquet.NewReaderProperties(alloc), pqarrow.ArrowReadProperties{}, alloc)
	if err != nil {
		return nil, &query.LoadError{Path: path, Err: err}
	}
	defer table.Release()

	if err := schema.Validate(table.Schema()); err != nil {
		if logger != nil {
			logger.LogSchemaValidation(path, false)
		}
		return nil, &query.LoadError{Path: path, Err: err}
	}

	rec, err := collapse(table, alloc)
	if err != nil {
		return nil, &query.LoadError{Path: path, Err: err}
	}

	if logger != nil {
		logger.LogDatasetLoad(path, rec.NumRows(), int(rec.NumCols()), time.Since(start))
	}

	return rec, nil
}

// collapse converts a (possibly chunked) table into one record.
func collapse(table arrow.Table, alloc memory.Allocator) (arrow.Record, error) {
	if table.NumRows() == 0 {
		builder := array.NewRecordBuilder(alloc, table.Schema())
		defer builder.Release()
		return builder.NewRecord(), nil
	}

	reader := array.NewTableReader(table, table.NumRows())
	defer reader.Release()

	if !reader.Next() {
		return nil, fmt.Errorf("table reader produced no record for %d rows", table.NumRows())
	}

	rec := reader.Record()
	rec.Retain()

	if rec.NumRows() != table.NumRows() {
		rec.Release()
		return nil, fmt.Errorf("partial read: expected %d rows, got %d", table.NumRows(), rec.NumRows())
	}

	return rec, nil
}

// Write stores a record as a zstd-compressed parquet file with the Arrow
// schema embedded. Used for fixture extracts and tests; the query runner
// itself never writes back to its input.
func Write(path string, rec arrow.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Zstd),
		parquet.WithDictionaryDefault(true),
		parquet.WithCreatedBy("lcancel-query"),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
	)

	writer, err := pqarrow.NewFileWriter(rec.Schema(), f, props, arrowProps)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}

	return writer.Close()
}
