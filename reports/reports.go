// Package reports defines the canned l-cancel analyses as typed query
// descriptors. Each report groups landing events by one context column
// and computes the success rate (mean of l_cancel) and event count.
package reports

import (
	"fmt"

	"github.com/slippistats/lcancel-query/query"
	"github.com/slippistats/lcancel-query/schema"
)

// Report is a named, parameterized query. Character narrows the dataset
// to one played character before grouping; empty means no filter.
type Report struct {
	Name        string
	Description string
	Build       func(character string) *query.Query
}

// registry holds the reports in display order.
var registry = []Report{
	{
		Name:        "outcome-counts",
		Description: "raw l-cancel outcome counts",
		Build: func(character string) *query.Query {
			return &query.Query{
				Name:    "outcome-counts",
				Filter:  characterFilter(character),
				GroupBy: []string{schema.ColLCancel},
				Aggregates: []query.Aggregate{
					{Reduce: query.ReduceCount},
				},
				Sort: &query.Sort{Column: schema.ColLCancel},
			}
		},
	},
	{
		Name:        "by-character",
		Description: "success rate per played character",
		Build:       successRateBy(schema.ColCharacter, "by-character"),
	},
	{
		Name:        "by-move",
		Description: "success rate per aerial attack",
		Build:       successRateBy(schema.ColMove, "by-move"),
	},
	{
		Name:        "by-position",
		Description: "success rate per landing surface",
		Build:       successRateBy(schema.ColPosition, "by-position"),
	},
	{
		Name:        "by-opponent",
		Description: "success rate per opponent character, most played first",
		Build: func(character string) *query.Query {
			return &query.Query{
				Name:    "by-opponent",
				Filter:  characterFilter(character),
				GroupBy: []string{schema.ColOpntCharacter},
				Aggregates: []query.Aggregate{
					{Column: schema.ColLCancel, Reduce: query.ReduceMean},
					{Reduce: query.ReduceCount},
				},
				Sort: &query.Sort{Column: "count", Descending: true},
			}
		},
	},
	{
		Name:        "by-stocks",
		Description: "success rate by stocks remaining",
		Build: func(character string) *query.Query {
			return &query.Query{
				Name:    "by-stocks",
				Filter:  characterFilter(character),
				GroupBy: []string{schema.ColStocksRemaining},
				Aggregates: []query.Aggregate{
					{Column: schema.ColLCancel, Reduce: query.ReduceMean},
					{Reduce: query.ReduceCount},
				},
				Sort: &query.Sort{Column: schema.ColStocksRemaining, Descending: true},
			}
		},
	},
	{
		Name:        "by-result",
		Description: "success rate in wins versus losses",
		Build:       successRateBy(schema.ColResult, "by-result"),
	},
	{
		Name:        "by-hitlag",
		Description: "success rate with and without hitlag during the input window",
		Build:       successRateBy(schema.ColDuringHitlag, "by-hitlag"),
	},
	{
		Name:        "by-fastfall",
		Description: "success rate with and without a fast-fall before landing",
		Build:       successRateBy(schema.ColFastfall, "by-fastfall"),
	},
}

// successRateBy builds the common shape: group by one column, aggregate
// mean(l_cancel) and count, sort by success rate descending.
func successRateBy(column, name string) func(character string) *query.Query {
	return func(character string) *query.Query {
		return &query.Query{
			Name:    name,
			Filter:  characterFilter(character),
			GroupBy: []string{column},
			Aggregates: []query.Aggregate{
				{Column: schema.ColLCancel, Reduce: query.ReduceMean},
				{Reduce: query.ReduceCount},
			},
			Sort: &query.Sort{Column: schema.ColLCancel + "_mean", Descending: true},
		}
	}
}

func characterFilter(character string) *query.Equality {
	if character == "" {
		return nil
	}
	return &query.Equality{Column: schema.ColCharacter, Value: character}
}

// All returns every report in display order.
func All() []Report {
	out := make([]Report, len(registry))
	copy(out, registry)
	return out
}

// ByName looks up a single report.
func ByName(name string) (Report, error) {
	for _, r := range registry {
		if r.Name == name {
			return r, nil
		}
	}
	return Report{}, fmt.Errorf("unknown report %q", name)
}

// Names returns the report names in display order.
func Names() []string {
	names := make([]string, len(registry))
	for i, r := range registry {
		names[i] = r.Name
	}
	return names
}
