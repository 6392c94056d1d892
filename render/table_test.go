package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

func TestTable(t *testing.T) {
	alloc := memory.NewGoAllocator()

	s := arrow.NewSchema([]arrow.Field{
		{Name: "opnt_character", Type: arrow.BinaryTypes.String, Nullable: false},
		{Name: "l_cancel_mean", Type: arrow.PrimitiveTypes.Float64, Nullable: false},
		{Name: "count", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
	}, nil)

	builder := array.NewRecordBuilder(alloc, s)
	defer builder.Release()

	builder.Field(0).(*array.StringBuilder).Append("FOX")
	builder.Field(1).(*array.Float64Builder).Append(0.92585)
	builder.Field(2).(*array.Int64Builder).Append(7073)

	rec := builder.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	if err := Table(&buf, rec); err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"opnt_character",
		"l_cancel_mean",
		"FOX",
		"0.925850", // six decimals
		"7,073",    // comma-grouped count
		"(1 rows)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestTable_DurationMilliseconds(t *testing.T) {
	alloc := memory.NewGoAllocator()

	s := arrow.NewSchema([]arrow.Field{
		{Name: "duration", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: "count", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
	}, nil)

	builder := array.NewRecordBuilder(alloc, s)
	defer builder.Release()

	builder.Field(0).(*array.Int64Builder).Append(154_000)
	builder.Field(1).(*array.Int64Builder).Append(154_000)

	rec := builder.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	if err := Table(&buf, rec); err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "2m34s") {
		t.Errorf("Expected duration column rendered as elapsed time, got:\n%s", out)
	}
	if !strings.Contains(out, "154,000") {
		t.Errorf("Expected plain int64 column comma-grouped, got:\n%s", out)
	}
}

func TestTable_Empty(t *testing.T) {
	alloc := memory.NewGoAllocator()

	s := arrow.NewSchema([]arrow.Field{
		{Name: "character", Type: arrow.BinaryTypes.String, Nullable: false},
	}, nil)

	builder := array.NewRecordBuilder(alloc, s)
	rec := builder.NewRecord()
	builder.Release()
	defer rec.Release()

	var buf bytes.Buffer
	if err := Table(&buf, rec); err != nil {
		t.Fatalf("Table failed: %v", err)
	}

	if !strings.Contains(buf.String(), "(0 rows)") {
		t.Errorf("Expected row count footer, got:\n%s", buf.String())
	}
}
