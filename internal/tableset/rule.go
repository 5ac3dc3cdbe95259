// Package tableset expands a catalogue of logical table names over year and
// month partition tokens and drives ordered handler chains across the
// resulting physical tables.
package tableset

import (
	"iter"
	"slices"
)

// Rule holds the three enumeration axes. Order is significant on every
// axis: names form the outer loop, months the inner one.
type Rule struct {
	names  []string
	years  []string
	months []string
}

// Table is one generated physical table.
type Table struct {
	ID    string
	Name  string
	Year  string
	Month string
	// Index is the position of the table in the whole enumeration,
	// starting at 0. It is never reset per name or per year.
	Index int
}

// NewRule copies the axes so later changes by the caller do not leak into
// a running enumeration.
func NewRule(names, years, months []string) Rule {
	return Rule{
		names:  slices.Clone(names),
		years:  slices.Clone(years),
		months: slices.Clone(months),
	}
}

// Len is the number of tables All yields.
func (r Rule) Len() int {
	return len(r.names) * len(r.years) * len(r.months)
}

// All yields every table in name, year, month order. The sequence holds no
// state between calls, so ranging over it twice gives the same tables.
func (r Rule) All() iter.Seq[Table] {
	return func(yield func(Table) bool) {
		i := 0
		for _, name := range r.names {
			for _, year := range r.years {
				for _, month := range r.months {
					t := Table{
						ID:    Build(name, year, month),
						Name:  name,
						Year:  year,
						Month: month,
						Index: i,
					}
					if !yield(t) {
						return
					}
					i++
				}
			}
		}
	}
}

// Tables materialises All.
func (r Rule) Tables() []Table {
	return slices.Collect(r.All())
}

// Partitions yields (year, name) pairs, year outer and name inner. This is
// the order archives are built in: one archive per name per year.
func (r Rule) Partitions() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, year := range r.years {
			for _, name := range r.names {
				if !yield(year, name) {
					return
				}
			}
		}
	}
}
