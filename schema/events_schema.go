package schema

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

// Column names for the landing event table. The upstream replay pipeline
// writes exactly these columns in this order.
const (
	ColDateTime          = "date_time"
	ColSlippiVersion     = "slippi_version"
	ColMatchID           = "match_id"
	ColMatchType         = "match_type"
	ColGameNumber        = "game_number"
	ColStage             = "stage"
	ColDuration          = "duration"
	ColResult            = "result"
	ColPort              = "port"
	ColConnectCode       = "connect_code"
	ColCharacter         = "character"
	ColCostume           = "costume"
	ColOpntCharacter     = "opnt_character"
	ColFrameIndex        = "frame_index"
	ColStocksRemaining   = "stocks_remaining"
	ColLCancel           = "l_cancel"
	ColTriggerInputFrame = "trigger_input_frame"
	ColDuringHitlag      = "during_hitlag"
	ColMove              = "move"
	ColPosition          = "position"
	ColFastfall          = "fastfall"
)

// LandingEventSchema returns the Arrow schema for aerial landing events.
// One row per landing after an aerial attack, carrying match context and
// the l-cancel outcome for that landing.
func LandingEventSchema() *arrow.Schema {
	return arrow.NewSchema(
		[]arrow.Field{
			// Match metadata
			{Name: ColDateTime, Type: &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}, Nullable: false},
			{Name: ColSlippiVersion, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColMatchID, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColMatchType, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColGameNumber, Type: arrow.PrimitiveTypes.Int64, Nullable: false},
			{Name: ColStage, Type: arrow.BinaryTypes.String, Nullable: false},
			// Game length in milliseconds. Parquet has no duration logical
			// type, so upstream writes this as a plain int64.
			{Name: ColDuration, Type: arrow.PrimitiveTypes.Int64, Nullable: false},
			{Name: ColResult, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColPort, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColConnectCode, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColCharacter, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColCostume, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColOpntCharacter, Type: arrow.BinaryTypes.String, Nullable: false},

			// Per-event data
			{Name: ColFrameIndex, Type: arrow.PrimitiveTypes.Int64, Nullable: false},
			{Name: ColStocksRemaining, Type: arrow.PrimitiveTypes.Int64, Nullable: false},
			{Name: ColLCancel, Type: arrow.FixedWidthTypes.Boolean, Nullable: false},
			{Name: ColTriggerInputFrame, Type: arrow.PrimitiveTypes.Int64, Nullable: true},
			{Name: ColDuringHitlag, Type: arrow.FixedWidthTypes.Boolean, Nullable: false},
			{Name: ColMove, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColPosition, Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: ColFastfall, Type: arrow.FixedWidthTypes.Boolean, Nullable: false},
		},
		nil,
	)
}

// Validate checks that a loaded schema matches the landing event schema
// structurally: same column names, order and types. Nullability is not
// compared because parquet writers disagree on required vs optional for
// columns that never contain nulls.
func Validate(loaded *arrow.Schema) error {
	expected := LandingEventSchema()

	if loaded.NumFields() != expected.NumFields() {
		return fmt.Errorf("expected %d columns, got %d", expected.NumFields(), loaded.NumFields())
	}

	for i, want := range expected.Fields() {
		got := loaded.Field(i)
		if got.Name != want.Name {
			return fmt.Errorf("column %d: expected %q, got %q", i, want.Name, got.Name)
		}
		if !arrow.TypeEqual(got.Type, want.Type) {
			return fmt.Errorf("column %q: expected type %s, got %s", want.Name, want.Type, got.Type)
		}
	}

	return nil
}

// FieldIndex returns the index of the named column, or -1 if absent.
func FieldIndex(s *arrow.Schema, name string) int {
	indices := s.FieldIndices(name)
	if len(indices) == 0 {
		return -1
	}
	return indices[0]
}
