package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/slippistats/lcancel-query/logging"
)

func testCollector(t *testing.T) *Collector {
	t.Helper()
	return NewCollector(logging.NewComponentLogger("metrics-test", "test"))
}

func TestCollector_RecordQuery(t *testing.T) {
	c := testCollector(t)

	c.RecordQuery(7073)
	c.RecordQuery(7073)

	if got := testutil.ToFloat64(c.queriesExecuted); got != 2 {
		t.Errorf("Expected 2 queries executed, got %v", got)
	}
	if got := testutil.ToFloat64(c.rowsScanned); got != 14146 {
		t.Errorf("Expected 14146 rows scanned, got %v", got)
	}
}

func TestCollector_TimeQuery(t *testing.T) {
	c := testCollector(t)

	ran := false
	c.TimeQuery(func() { ran = true })
	if !ran {
		t.Fatal("Expected wrapped function to run")
	}

	families, err := c.registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "lcancel_query_duration_seconds" {
			continue
		}
		if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
			t.Errorf("Expected 1 duration sample, got %d", count)
		}
		return
	}
	t.Error("Query duration histogram not registered")
}

func TestCollector_RecordLoad(t *testing.T) {
	c := testCollector(t)

	c.RecordLoad(7073, 120*time.Millisecond)

	if got := testutil.ToFloat64(c.datasetRows); got != 7073 {
		t.Errorf("Expected dataset rows gauge 7073, got %v", got)
	}
}
