package query

import (
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

// takeRows materializes a new record containing the given source rows in
// the given order.
func (e *Engine) takeRows(rec arrow.Record, rows []int) (arrow.Record, error) {
	builder := array.NewRecordBuilder(e.alloc, rec.Schema())
	defer builder.Release()

	for col := 0; col < int(rec.NumCols()); col++ {
		src := rec.Column(col)
		dst := builder.Field(col)
		for _, row := range rows {
			if err := appendFromColumn(dst, src, row); err != nil {
				return nil, err
			}
		}
	}

	return builder.NewRecord(), nil
}

// appendFromColumn copies a single cell from a source column into a
// builder of the same type.
func appendFromColumn(dst array.Builder, src arrow.Array, row int) error {
	if src.IsNull(row) {
		dst.AppendNull()
		return nil
	}

	switch b := dst.(type) {
	case *array.StringBuilder:
		b.Append(src.(*array.String).Value(row))
	case *array.BooleanBuilder:
		b.Append(src.(*array.Boolean).Value(row))
	case *array.Int64Builder:
		b.Append(src.(*array.Int64).Value(row))
	case *array.Float64Builder:
		b.Append(src.(*array.Float64).Value(row))
	case *array.TimestampBuilder:
		b.Append(src.(*array.Timestamp).Value(row))
	default:
		return typeMismatch(src.DataType().Name(), src, "row copy")
	}
	return nil
}

// groupKey encodes the grouping-key cells of a row into a single string.
// The unit separator keeps distinct tuples distinct even when values
// contain typical punctuation.
func groupKey(cols []arrow.Array, row int) string {
	var sb strings.Builder
	for i, col := range cols {
		if i > 0 {
			sb.WriteByte(0x1f)
		}
		sb.WriteString(keyPart(col, row))
	}
	return sb.String()
}

func keyPart(col arrow.Array, row int) string {
	if col.IsNull(row) {
		return "\x00null"
	}
	switch c := col.(type) {
	case *array.String:
		return c.Value(row)
	case *array.Boolean:
		return strconv.FormatBool(c.Value(row))
	case *array.Int64:
		return strconv.FormatInt(c.Value(row), 10)
	case *array.Float64:
		return strconv.FormatFloat(c.Value(row), 'g', -1, 64)
	case *array.Timestamp:
		return strconv.FormatInt(int64(c.Value(row)), 10)
	default:
		return col.ValueStr(row)
	}
}

// numericValue reads a cell as float64 for mean aggregation, with
// booleans mapped to {0,1}. Callers validate the column type first.
func numericValue(col arrow.Array, row int) float64 {
	if col.IsNull(row) {
		return 0
	}
	switch c := col.(type) {
	case *array.Boolean:
		if c.Value(row) {
			return 1
		}
		return 0
	case *array.Int64:
		return float64(c.Value(row))
	case *array.Float64:
		return c.Value(row)
	default:
		return 0
	}
}
