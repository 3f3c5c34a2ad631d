package stats

import (
	"sort"

	lo "github.com/samber/lo"

	"co2-stats/domain/emissions"
)

// YearValue is one row of a by-year aggregation.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// RegionValue is one row of a by-region aggregation.
type RegionValue struct {
	Region string  `json:"region"`
	Value  float64 `json:"value"`
}

// SourceValue is one row of a by-source aggregation in long form.
// Year is 0 when the value is summed across all filtered years.
type SourceValue struct {
	Source string  `json:"source"`
	Year   int     `json:"year,omitempty"`
	Value  float64 `json:"value"`
}

// SourceShare is one (year, source) cell of the percentage breakdown.
type SourceShare struct {
	Year      int     `json:"year"`
	Source    string  `json:"source"`
	Emissions float64 `json:"emissions"`
	Percent   float64 `json:"percent"`
}

// GrowthRate holds multi-period growth for one country. A nil rate
// means the lookback (or latest) year is missing from the data, which
// is deliberately distinct from a zero rate.
type GrowthRate struct {
	Country string           `json:"country"`
	ISO3    string           `json:"iso3"`
	Rates   map[int]*float64 `json:"rates"`
}

// AggregateByYear sums column grouped by year, ascending. Empty result
// when the column is absent or the table is empty.
func AggregateByYear(t *emissions.Table, column string) []YearValue {
	if t.IsEmpty() || !t.HasColumn(column) {
		return nil
	}
	byYear := lo.GroupBy(t.Rows, func(r emissions.Record) int { return r.Year })
	out := make([]YearValue, 0, len(byYear))
	for year, rows := range byYear {
		sum := lo.SumBy(rows, func(r emissions.Record) float64 {
			v, _ := r.Value(column)
			return v
		})
		out = append(out, YearValue{Year: year, Value: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// AggregateByRegion sums column per region for year (0 = all years).
// Rows whose ISO3 code is not in the region index are dropped. Result
// is sorted by region name.
func AggregateByRegion(t *emissions.Table, idx emissions.RegionIndex, column string, year int) []RegionValue {
	if t.IsEmpty() || !t.HasColumn(column) {
		return nil
	}
	rows := filterYear(t.Rows, year)
	sums := map[string]float64{}
	for _, r := range rows {
		region := idx.Region(r.ISO3)
		if region == "" {
			continue
		}
		v, _ := r.Value(column)
		sums[region] += v
	}
	out := lo.MapToSlice(sums, func(region string, v float64) RegionValue {
		return RegionValue{Region: region, Value: v}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

// AggregateBySource restricts to the known source columns present in
// the table. With a country it returns the raw per-year values for
// that country; otherwise one summed row per source across the
// filtered rows.
func AggregateBySource(t *emissions.Table, year int, country string) []SourceValue {
	if t.IsEmpty() {
		return nil
	}
	sources := t.PresentSourceColumns()
	if len(sources) == 0 {
		return nil
	}
	rows := filterYear(t.Rows, year)
	if country != "" {
		rows = lo.Filter(rows, func(r emissions.Record, _ int) bool { return r.Country == country })
		var out []SourceValue
		for _, r := range rows {
			for _, src := range sources {
				if v, ok := r.Value(src); ok {
					out = append(out, SourceValue{Source: src, Year: r.Year, Value: v})
				}
			}
		}
		return out
	}
	out := make([]SourceValue, 0, len(sources))
	for _, src := range sources {
		sum := lo.SumBy(rows, func(r emissions.Record) float64 {
			v, _ := r.Value(src)
			return v
		})
		out = append(out, SourceValue{Source: src, Value: sum})
	}
	return out
}

// PerSourcePercentages sums each source column per year and derives
// each source's share of the cross-source total for that year. A zero
// total yields a 0 percentage, never NaN or infinity.
func PerSourcePercentages(t *emissions.Table, year int) []SourceShare {
	if t.IsEmpty() {
		return nil
	}
	sources := t.PresentSourceColumns()
	if len(sources) == 0 {
		return nil
	}
	byYear := lo.GroupBy(filterYear(t.Rows, year), func(r emissions.Record) int { return r.Year })
	years := lo.Keys(byYear)
	sort.Ints(years)

	var out []SourceShare
	for _, y := range years {
		rows := byYear[y]
		sums := make(map[string]float64, len(sources))
		rowTotal := 0.0
		for _, src := range sources {
			s := lo.SumBy(rows, func(r emissions.Record) float64 {
				v, _ := r.Value(src)
				return v
			})
			sums[src] = s
			rowTotal += s
		}
		for _, src := range sources {
			pct := 0.0
			if rowTotal != 0 {
				pct = sums[src] / rowTotal * 100
			}
			out = append(out, SourceShare{Year: y, Source: src, Emissions: sums[src], Percent: pct})
		}
	}
	return out
}

// TopEmitters returns the first n rows by descending column value for
// year (0 = all years). The sort is stable: ties and rows missing the
// column keep their input order, missing values ranking last.
func TopEmitters(t *emissions.Table, column string, year, n int) []emissions.Record {
	if t.IsEmpty() || !t.HasColumn(column) || n <= 0 {
		return nil
	}
	rows := append([]emissions.Record(nil), filterYear(t.Rows, year)...)
	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := rows[i].Value(column)
		vj, okj := rows[j].Value(column)
		if oki != okj {
			return oki
		}
		return vi > vj
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// GrowthRates computes, per country, the percentage growth of column
// from latestYear-P to latestYear for each period P. Countries without
// data at either end of a period get a nil rate for it.
func GrowthRates(t *emissions.Table, column string, periods []int) []GrowthRate {
	if t.IsEmpty() || !t.HasColumn(column) {
		return nil
	}
	latest := t.LatestYear()
	byYear := map[int]map[string]float64{}
	countryISO := map[string]string{}
	countries := []string{}
	for _, r := range t.Rows {
		if _, seen := countryISO[r.Country]; !seen {
			countryISO[r.Country] = r.ISO3
			countries = append(countries, r.Country)
		}
		if v, ok := r.Value(column); ok {
			if byYear[r.Year] == nil {
				byYear[r.Year] = map[string]float64{}
			}
			byYear[r.Year][r.Country] = v
		}
	}

	out := make([]GrowthRate, 0, len(countries))
	for _, country := range countries {
		gr := GrowthRate{Country: country, ISO3: countryISO[country], Rates: make(map[int]*float64, len(periods))}
		cur, curOK := byYear[latest][country]
		for _, p := range periods {
			past, pastOK := byYear[latest-p][country]
			if !curOK || !pastOK || past == 0 {
				gr.Rates[p] = nil
				continue
			}
			rate := (cur/past - 1) * 100
			gr.Rates[p] = &rate
		}
		out = append(out, gr)
	}
	return out
}

func filterYear(rows []emissions.Record, year int) []emissions.Record {
	if year == 0 {
		return rows
	}
	return lo.Filter(rows, func(r emissions.Record, _ int) bool { return r.Year == year })
}
