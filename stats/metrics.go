package stats

import (
	"math"
	"sort"

	lo "github.com/samber/lo"

	"co2-stats/domain/emissions"
)

// Contributor is one ranked row of TopContributors, carrying its share
// of the full filtered-year total.
type Contributor struct {
	Country    string  `json:"country"`
	ISO3       string  `json:"iso3"`
	Year       int     `json:"year"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Reduction describes the path from current emissions to a target.
type Reduction struct {
	CurrentEmissions   float64 `json:"current_emissions"`
	TargetEmissions    float64 `json:"target_emissions"`
	AbsoluteReduction  float64 `json:"absolute_reduction"`
	AnnualReduction    float64 `json:"annual_reduction"`
	AnnualReductionPct float64 `json:"annual_reduction_pct"`
}

// SumAtYear sums column over the rows of a single year.
func SumAtYear(t *emissions.Table, column string, year int) float64 {
	return lo.SumBy(t.Rows, func(r emissions.Record) float64 {
		if r.Year != year {
			return 0
		}
		v, _ := r.Value(column)
		return v
	})
}

// PercentChange returns the percent change of the column sum between
// year1 and year2. A zero year1 sum maps to +Inf, -Inf or 0 by the
// sign of the year2 sum.
func PercentChange(t *emissions.Table, column string, year1, year2 int) float64 {
	v1 := SumAtYear(t, column, year1)
	v2 := SumAtYear(t, column, year2)
	if v1 == 0 {
		switch {
		case v2 > 0:
			return math.Inf(1)
		case v2 < 0:
			return math.Inf(-1)
		default:
			return 0
		}
	}
	return (v2 - v1) / v1 * 100
}

// CAGR returns the compound annual growth rate of the column sum
// between startYear and endYear, as a percentage. Returns 0 when the
// start value is non-positive or the horizon is non-positive; a guard
// policy, not a mathematical statement.
func CAGR(t *emissions.Table, column string, startYear, endYear int) float64 {
	start := SumAtYear(t, column, startYear)
	end := SumAtYear(t, column, endYear)
	years := endYear - startYear
	if start <= 0 || years <= 0 {
		return 0
	}
	return (math.Pow(end/start, 1/float64(years)) - 1) * 100
}

// MovingAverage returns the trailing rolling mean of column over the
// table's rows sorted ascending by year. The window shrinks at the
// start of the series (minimum one observation) instead of emitting
// missing values; cells missing the column are skipped within a
// window, and a window with no observations yields 0.
func MovingAverage(t *emissions.Table, column string, window int) []YearValue {
	if t.IsEmpty() || !t.HasColumn(column) {
		return nil
	}
	if window < 1 {
		window = 1
	}
	rows := append([]emissions.Record(nil), t.Rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })

	out := make([]YearValue, len(rows))
	for i, r := range rows {
		sum, count := 0.0, 0
		for j := max(0, i-window+1); j <= i; j++ {
			if v, ok := rows[j].Value(column); ok {
				sum += v
				count++
			}
		}
		avg := 0.0
		if count > 0 {
			avg = sum / float64(count)
		}
		out[i] = YearValue{Year: r.Year, Value: avg}
	}
	return out
}

// EmissionIntensity returns sourceCol as a percentage of totalCol for
// every row, aligned with t.Rows. A zero or missing denominator (and
// any resulting NaN or infinity) maps to 0.
func EmissionIntensity(t *emissions.Table, sourceCol, totalCol string) []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		s, okS := r.Value(sourceCol)
		total, okT := r.Value(totalCol)
		if !okS || !okT || total == 0 {
			continue
		}
		v := s / total * 100
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		out[i] = v
	}
	return out
}

// TopContributors ranks the rows of a year by column, optionally
// dropping rows below minValue, and attaches each row's percentage of
// the year's full qualifying total. The total is taken before
// truncation to n, so the reported shares are shares of the whole
// year, not of the top-n subset.
func TopContributors(t *emissions.Table, column string, year, n int, minValue *float64) []Contributor {
	if t.IsEmpty() || !t.HasColumn(column) || n <= 0 {
		return nil
	}
	type qualified struct {
		r emissions.Record
		v float64
	}
	var rows []qualified
	for _, r := range filterYear(t.Rows, year) {
		v, ok := r.Value(column)
		if !ok {
			continue
		}
		if minValue != nil && v < *minValue {
			continue
		}
		rows = append(rows, qualified{r, v})
	}
	total := lo.SumBy(rows, func(q qualified) float64 { return q.v })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].v > rows[j].v })
	if len(rows) > n {
		rows = rows[:n]
	}
	out := make([]Contributor, len(rows))
	for i, q := range rows {
		pct := 0.0
		if total > 0 {
			pct = q.v / total * 100
		}
		out[i] = Contributor{
			Country:    q.r.Country,
			ISO3:       q.r.ISO3,
			Year:       q.r.Year,
			Value:      q.v,
			Percentage: pct,
		}
	}
	return out
}

// ReductionNeeded computes the emissions level implied by a percentage
// reduction target and the annual reduction required to reach it by
// targetYear. A target year at or before the current year collapses to
// immediate-reduction semantics rather than dividing by a non-positive
// horizon.
func ReductionNeeded(t *emissions.Table, column string, currentYear, targetYear int, targetReductionPct float64) Reduction {
	current := SumAtYear(t, column, currentYear)
	target := current * (1 - targetReductionPct/100)
	absolute := current - target

	res := Reduction{
		CurrentEmissions:  current,
		TargetEmissions:   target,
		AbsoluteReduction: absolute,
	}
	years := targetYear - currentYear
	if years <= 0 {
		res.AnnualReduction = absolute
		res.AnnualReductionPct = targetReductionPct
		return res
	}
	res.AnnualReduction = absolute / float64(years)
	res.AnnualReductionPct = (1 - math.Pow(1-targetReductionPct/100, 1/float64(years))) * 100
	return res
}
