package query

import (
	"github.com/apache/arrow/go/v17/arrow"

	"github.com/slippistats/lcancel-query/schema"
)

// Reduction identifies a supported aggregate function.
type Reduction string

const (
	// ReduceMean computes the arithmetic mean of a boolean or numeric
	// column, with booleans read as {0,1}.
	ReduceMean Reduction = "mean"
	// ReduceCount counts the rows in each group.
	ReduceCount Reduction = "count"
)

// Equality is the single supported predicate: column == literal.
type Equality struct {
	Column string
	Value  interface{}
}

// Aggregate pairs an input column with a reduction. Column is ignored
// for ReduceCount. As overrides the output column name; when empty the
// name is derived ("<column>_mean" or "count").
type Aggregate struct {
	Column string
	Reduce Reduction
	As     string
}

// OutputName returns the name of the result column for this aggregate.
func (a Aggregate) OutputName() string {
	if a.As != "" {
		return a.As
	}
	if a.Reduce == ReduceCount {
		return "count"
	}
	return a.Column + "_" + string(a.Reduce)
}

// Sort orders a result by one column with a stable tie-break.
type Sort struct {
	Column     string
	Descending bool
}

// Query is a validated description of a single filter/group/aggregate/
// sort pipeline. All column references are checked against the table
// schema before execution so invalid queries fail with a well-defined
// error instead of a generic runtime failure.
type Query struct {
	Name       string
	Filter     *Equality
	GroupBy    []string
	Aggregates []Aggregate
	Sort       *Sort
}

// Validate checks every column reference and type in the query against
// the given schema.
func (q *Query) Validate(s *arrow.Schema) error {
	if q.Filter != nil {
		if err := validateEquality(s, q.Filter); err != nil {
			return err
		}
	}

	for _, col := range q.GroupBy {
		if schema.FieldIndex(s, col) < 0 {
			return &UnknownColumnError{Column: col}
		}
	}

	for _, agg := range q.Aggregates {
		if err := validateAggregate(s, agg); err != nil {
			return err
		}
	}

	if q.Sort != nil {
		if schema.FieldIndex(s, q.Sort.Column) < 0 {
			// The sort key may name an aggregate output column rather
			// than an input column.
			if !q.sortsAggregateOutput() {
				return &UnknownColumnError{Column: q.Sort.Column}
			}
		}
	}

	return nil
}

func (q *Query) sortsAggregateOutput() bool {
	for _, agg := range q.Aggregates {
		if agg.OutputName() == q.Sort.Column {
			return true
		}
	}
	return false
}

func validateEquality(s *arrow.Schema, eq *Equality) error {
	idx := schema.FieldIndex(s, eq.Column)
	if idx < 0 {
		return &UnknownColumnError{Column: eq.Column}
	}

	field := s.Field(idx)
	ok := false
	switch field.Type.ID() {
	case arrow.STRING:
		_, ok = eq.Value.(string)
	case arrow.BOOL:
		_, ok = eq.Value.(bool)
	case arrow.INT64:
		_, ok = eq.Value.(int64)
	case arrow.FLOAT64:
		_, ok = eq.Value.(float64)
	}
	if !ok {
		return &TypeMismatchError{
			Column:    eq.Column,
			Type:      field.Type.String(),
			Operation: "equality filter",
		}
	}
	return nil
}

func validateAggregate(s *arrow.Schema, agg Aggregate) error {
	if agg.Reduce == ReduceCount {
		if agg.Column != "" && schema.FieldIndex(s, agg.Column) < 0 {
			return &UnknownColumnError{Column: agg.Column}
		}
		return nil
	}

	idx := schema.FieldIndex(s, agg.Column)
	if idx < 0 {
		return &UnknownColumnError{Column: agg.Column}
	}

	field := s.Field(idx)
	switch field.Type.ID() {
	case arrow.BOOL, arrow.INT64, arrow.FLOAT64:
		return nil
	default:
		return &TypeMismatchError{
			Column:    agg.Column,
			Type:      field.Type.String(),
			Operation: string(agg.Reduce),
		}
	}
}
