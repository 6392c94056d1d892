package query

import (
	"sort"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/slippistats/lcancel-query/logging"
	"github.com/slippistats/lcancel-query/schema"
)

// Engine executes queries over in-memory Arrow records. Every call is a
// stateless transformation: the input record is never mutated and each
// result is a freshly built record owned by the caller.
type Engine struct {
	alloc  memory.Allocator
	logger *logging.ComponentLogger
}

// NewEngine creates a query engine.
func NewEngine(alloc memory.Allocator, logger *logging.ComponentLogger) *Engine {
	return &Engine{
		alloc:  alloc,
		logger: logger,
	}
}

// Run validates the query against the record schema and executes the
// filter, group-aggregate and sort stages in order. A failed query
// leaves the input record untouched and usable for subsequent queries.
func (e *Engine) Run(rec arrow.Record, q *Query) (arrow.Record, error) {
	start := time.Now()

	if err := q.Validate(rec.Schema()); err != nil {
		return nil, err
	}

	cur := rec
	cur.Retain()

	if q.Filter != nil {
		filtered, err := e.Filter(cur, *q.Filter)
		cur.Release()
		if err != nil {
			return nil, err
		}
		cur = filtered
	}

	if len(q.GroupBy) > 0 {
		grouped, err := e.GroupAggregate(cur, q.GroupBy, q.Aggregates)
		cur.Release()
		if err != nil {
			return nil, err
		}
		cur = grouped
	}

	if q.Sort != nil {
		sorted, err := e.SortBy(cur, *q.Sort)
		cur.Release()
		if err != nil {
			return nil, err
		}
		cur = sorted
	}

	if e.logger != nil {
		e.logger.LogQuery(q.Name, rec.NumRows(), cur.NumRows(), time.Since(start))
	}

	return cur, nil
}

// Filter returns a new record containing the rows where the predicate
// column equals the literal. Source row order is preserved.
func (e *Engine) Filter(rec arrow.Record, eq Equality) (arrow.Record, error) {
	idx := schema.FieldIndex(rec.Schema(), eq.Column)
	if idx < 0 {
		return nil, &UnknownColumnError{Column: eq.Column}
	}

	col := rec.Column(idx)
	match, err := equalityMatcher(col, eq)
	if err != nil {
		return nil, err
	}

	rows := make([]int, 0, rec.NumRows())
	for i := 0; i < int(rec.NumRows()); i++ {
		if match(i) {
			rows = append(rows, i)
		}
	}

	if len(rows) == int(rec.NumRows()) {
		rec.Retain()
		return rec, nil
	}

	return e.takeRows(rec, rows)
}

// equalityMatcher builds a row predicate for column == literal.
func equalityMatcher(col arrow.Array, eq Equality) (func(int) bool, error) {
	switch c := col.(type) {
	case *array.String:
		want, ok := eq.Value.(string)
		if !ok {
			return nil, typeMismatch(eq.Column, col, "equality filter")
		}
		return func(i int) bool { return c.IsValid(i) && c.Value(i) == want }, nil
	case *array.Boolean:
		want, ok := eq.Value.(bool)
		if !ok {
			return nil, typeMismatch(eq.Column, col, "equality filter")
		}
		return func(i int) bool { return c.IsValid(i) && c.Value(i) == want }, nil
	case *array.Int64:
		want, ok := eq.Value.(int64)
		if !ok {
			return nil, typeMismatch(eq.Column, col, "equality filter")
		}
		return func(i int) bool { return c.IsValid(i) && c.Value(i) == want }, nil
	case *array.Float64:
		want, ok := eq.Value.(float64)
		if !ok {
			return nil, typeMismatch(eq.Column, col, "equality filter")
		}
		return func(i int) bool { return c.IsValid(i) && c.Value(i) == want }, nil
	default:
		return nil, typeMismatch(eq.Column, col, "equality filter")
	}
}

// groupState accumulates per-group aggregate state. Sums are indexed in
// step with the mean aggregates of the query.
type groupState struct {
	firstRow int
	count    int64
	sums     []float64
}

// GroupAggregate produces one output row per distinct combination of
// grouping-key values, in first-seen order. Mean aggregates emit float64
// columns, count aggregates emit int64 columns. A mean over zero input
// rows fails with EmptyGroupError; count-only aggregation of an empty
// record returns an empty result.
func (e *Engine) GroupAggregate(rec arrow.Record, groupBy []string, aggs []Aggregate) (arrow.Record, error) {
	if len(groupBy) == 0 {
		return nil, &UnknownColumnError{Column: ""}
	}

	keyCols := make([]arrow.Array, len(groupBy))
	keyFields := make([]arrow.Field, len(groupBy))
	for i, name := range groupBy {
		idx := schema.FieldIndex(rec.Schema(), name)
		if idx < 0 {
			return nil, &UnknownColumnError{Column: name}
		}
		keyCols[i] = rec.Column(idx)
		keyFields[i] = rec.Schema().Field(idx)
	}

	meanCols := make([]arrow.Array, 0, len(aggs))
	outFields := append([]arrow.Field(nil), keyFields...)
	for _, agg := range aggs {
		switch agg.Reduce {
		case ReduceMean:
			idx := schema.FieldIndex(rec.Schema(), agg.Column)
			if idx < 0 {
				return nil, &UnknownColumnError{Column: agg.Column}
			}
			col := rec.Column(idx)
			switch col.(type) {
			case *array.Boolean, *array.Int64, *array.Float64:
			default:
				return nil, typeMismatch(agg.Column, col, "mean")
			}
			meanCols = append(meanCols, col)
			outFields = append(outFields, arrow.Field{
				Name: agg.OutputName(), Type: arrow.PrimitiveTypes.Float64, Nullable: false,
			})
		case ReduceCount:
			outFields = append(outFields, arrow.Field{
				Name: agg.OutputName(), Type: arrow.PrimitiveTypes.Int64, Nullable: false,
			})
		default:
			return nil, typeMismatch(agg.Column, nil, string(agg.Reduce))
		}
	}

	if rec.NumRows() == 0 {
		for _, agg := range aggs {
			if agg.Reduce == ReduceMean {
				return nil, &EmptyGroupError{Column: agg.Column}
			}
		}
	}

	groups := make(map[string]*groupState)
	order := make([]string, 0)

	for row := 0; row < int(rec.NumRows()); row++ {
		key := groupKey(keyCols, row)
		state, ok := groups[key]
		if !ok {
			state = &groupState{
				firstRow: row,
				sums:     make([]float64, len(meanCols)),
			}
			groups[key] = state
			order = append(order, key)
		}
		state.count++
		for i, col := range meanCols {
			state.sums[i] += numericValue(col, row)
		}
	}

	outSchema := arrow.NewSchema(outFields, nil)
	builder := array.NewRecordBuilder(e.alloc, outSchema)
	defer builder.Release()

	for _, key := range order {
		state := groups[key]
		for i := range keyCols {
			if err := appendFromColumn(builder.Field(i), keyCols[i], state.firstRow); err != nil {
				return nil, err
			}
		}
		fieldIdx := len(keyCols)
		meanIdx := 0
		for _, agg := range aggs {
			switch agg.Reduce {
			case ReduceMean:
				mean := state.sums[meanIdx] / float64(state.count)
				builder.Field(fieldIdx).(*array.Float64Builder).Append(mean)
				meanIdx++
			case ReduceCount:
				builder.Field(fieldIdx).(*array.Int64Builder).Append(state.count)
			}
			fieldIdx++
		}
	}

	return builder.NewRecord(), nil
}

// SortBy returns a stable row-order permutation of the record ordered by
// the given column. Prior relative order is preserved among equal keys.
func (e *Engine) SortBy(rec arrow.Record, s Sort) (arrow.Record, error) {
	idx := schema.FieldIndex(rec.Schema(), s.Column)
	if idx < 0 {
		return nil, &UnknownColumnError{Column: s.Column}
	}

	col := rec.Column(idx)
	cmp, err := comparator(s.Column, col)
	if err != nil {
		return nil, err
	}

	rows := make([]int, rec.NumRows())
	for i := range rows {
		rows[i] = i
	}

	sort.SliceStable(rows, func(i, j int) bool {
		c := cmp(rows[i], rows[j])
		if s.Descending {
			return c > 0
		}
		return c < 0
	})

	return e.takeRows(rec, rows)
}

// comparator builds a three-way row comparison for a sortable column.
func comparator(name string, col arrow.Array) (func(i, j int) int, error) {
	switch c := col.(type) {
	case *array.String:
		return func(i, j int) int { return compareOrdered(c.Value(i), c.Value(j)) }, nil
	case *array.Boolean:
		return func(i, j int) int { return compareBool(c.Value(i), c.Value(j)) }, nil
	case *array.Int64:
		return func(i, j int) int { return compareOrdered(c.Value(i), c.Value(j)) }, nil
	case *array.Float64:
		return func(i, j int) int { return compareOrdered(c.Value(i), c.Value(j)) }, nil
	case *array.Timestamp:
		return func(i, j int) int { return compareOrdered(int64(c.Value(i)), int64(c.Value(j))) }, nil
	default:
		return nil, typeMismatch(name, col, "sort")
	}
}

func compareOrdered[T interface {
	~int64 | ~float64 | ~string
}](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func typeMismatch(column string, col arrow.Array, op string) *TypeMismatchError {
	typeName := "unknown"
	if col != nil {
		typeName = col.DataType().String()
	}
	return &TypeMismatchError{Column: column, Type: typeName, Operation: op}
}
