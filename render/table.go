// Package render prints result tables for human inspection. Pure
// presentation; nothing here affects query semantics.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/dustin/go-humanize"

	"github.com/slippistats/lcancel-query/schema"
)

// Table writes a record as an aligned plain-text table: header row,
// one line per row, and a trailing row count.
func Table(w io.Writer, rec arrow.Record) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	names := make([]string, rec.NumCols())
	for i := range names {
		names[i] = rec.Schema().Field(i).Name
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))

	cells := make([]string, rec.NumCols())
	for row := 0; row < int(rec.NumRows()); row++ {
		for col := range cells {
			cells[col] = formatCell(names[col], rec.Column(col), row)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "(%s rows)\n", humanize.Comma(rec.NumRows()))
	return err
}

func formatCell(name string, col arrow.Array, row int) string {
	if col.IsNull(row) {
		return "-"
	}
	switch c := col.(type) {
	case *array.String:
		return c.Value(row)
	case *array.Boolean:
		return strconv.FormatBool(c.Value(row))
	case *array.Int64:
		// The duration column carries milliseconds on the wire.
		if name == schema.ColDuration {
			return (time.Duration(c.Value(row)) * time.Millisecond).String()
		}
		return humanize.Comma(c.Value(row))
	case *array.Float64:
		return strconv.FormatFloat(c.Value(row), 'f', 6, 64)
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(row).ToTime(unit).Format(time.RFC3339)
	default:
		return col.ValueStr(row)
	}
}
