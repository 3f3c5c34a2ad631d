package emissions

import (
	"sort"
	"sync/atomic"
)

// Column names shared by the flat dataset files.
const (
	ColCountry = "Country"
	ColISO3    = "ISO 3166-1 alpha-3"
	ColYear    = "Year"
	ColTotal   = "Total"
)

// SourceColumns are the per-source breakdown columns, a partition of
// Total by origin. Not every file carries all of them.
var SourceColumns = []string{"Coal", "Oil", "Gas", "Cement", "Flaring", "Other"}

// Record is one (Country, Year) row. Values holds every numeric column
// present in the source row; a column missing from the row (empty cell
// or unparsable) has no entry, which is distinct from zero.
type Record struct {
	Country string
	ISO3    string
	Year    int
	Values  map[string]float64
}

// Value returns the numeric value of column and whether it is present.
func (r Record) Value(column string) (float64, bool) {
	v, ok := r.Values[column]
	return v, ok
}

var tableSeq atomic.Uint64

// Table is an immutable, ordered set of records loaded from one file.
// Aggregations never mutate it; they return fresh values. Each table
// carries a process-unique ID so memoized results keyed on it go stale
// the moment a new table instance replaces it.
type Table struct {
	id      uint64
	Rows    []Record
	columns map[string]struct{}
}

// NewTable builds a table over rows, recording columns as the set of
// headers seen in the source file.
func NewTable(rows []Record, columns []string) *Table {
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return &Table{id: tableSeq.Add(1), Rows: rows, columns: set}
}

// Empty returns a table with no rows and no columns.
func Empty() *Table {
	return NewTable(nil, nil)
}

func (t *Table) ID() uint64 { return t.id }

func (t *Table) IsEmpty() bool { return len(t.Rows) == 0 }

// HasColumn reports whether the source file declared column.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// Columns returns the declared column names in sorted order.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.columns))
	for c := range t.columns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// PresentSourceColumns returns the source columns this table carries,
// in canonical order.
func (t *Table) PresentSourceColumns() []string {
	var present []string
	for _, c := range SourceColumns {
		if t.HasColumn(c) {
			present = append(present, c)
		}
	}
	return present
}

// Years returns the distinct years in ascending order.
func (t *Table) Years() []int {
	seen := map[int]struct{}{}
	var years []int
	for _, r := range t.Rows {
		if _, ok := seen[r.Year]; !ok {
			seen[r.Year] = struct{}{}
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}

// LatestYear returns the maximum year, or 0 for an empty table.
func (t *Table) LatestYear() int {
	latest := 0
	for _, r := range t.Rows {
		if r.Year > latest {
			latest = r.Year
		}
	}
	return latest
}

// FilterCountry returns a new table holding the rows of one country,
// matched by name or ISO3 code. The result is a distinct table
// instance with its own ID.
func (t *Table) FilterCountry(country string) *Table {
	var rows []Record
	for _, r := range t.Rows {
		if r.Country == country || r.ISO3 == country {
			rows = append(rows, r)
		}
	}
	cols := make([]string, 0, len(t.columns))
	for c := range t.columns {
		cols = append(cols, c)
	}
	return NewTable(rows, cols)
}

// CountryCodes maps country name to ISO3 code, last occurrence wins
// (the flat files repeat the pair on every row).
func (t *Table) CountryCodes() map[string]string {
	codes := make(map[string]string)
	for _, r := range t.Rows {
		if r.Country != "" && r.ISO3 != "" {
			codes[r.Country] = r.ISO3
		}
	}
	return codes
}

// Dataset bundles the three loaded tables and their metadata.
type Dataset struct {
	Total     *Table
	PerCapita *Table
	Sources   *Table

	TotalMetadata     map[string]any
	PerCapitaMetadata map[string]any
}

// RegionIndex maps an ISO3 code to its region name. Built from the
// configured region grouping with regions visited in sorted name order,
// so a code claimed by two regions lands deterministically in the
// alphabetically first one.
type RegionIndex map[string]string

// NewRegionIndex inverts a region -> codes grouping.
func NewRegionIndex(regions map[string][]string) RegionIndex {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)

	idx := make(RegionIndex)
	for _, name := range names {
		for _, code := range regions[name] {
			if _, claimed := idx[code]; !claimed {
				idx[code] = name
			}
		}
	}
	return idx
}

// Region returns the region for code, or "" when unmapped.
func (idx RegionIndex) Region(code string) string { return idx[code] }
