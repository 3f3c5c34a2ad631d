package stats

import (
	"math"
	"testing"

	"co2-stats/domain/emissions"
)

func scenarioTable() *emissions.Table {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total"}
	return emissions.NewTable([]emissions.Record{
		row("A", "AAA", 2000, map[string]float64{"Total": 100}),
		row("A", "AAA", 2010, map[string]float64{"Total": 150}),
	}, cols)
}

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestPercentChange(t *testing.T) {
	if got := PercentChange(scenarioTable(), "Total", 2000, 2010); got != 50 {
		t.Errorf("expected 50, got %f", got)
	}
}

func TestPercentChangeZeroBase(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total"}
	tab := emissions.NewTable([]emissions.Record{
		row("A", "AAA", 2000, map[string]float64{"Total": 0}),
		row("A", "AAA", 2010, map[string]float64{"Total": 5}),
		row("A", "AAA", 2020, map[string]float64{"Total": -5}),
	}, cols)

	if got := PercentChange(tab, "Total", 2000, 2010); !math.IsInf(got, 1) {
		t.Errorf("0 -> positive must be +Inf, got %f", got)
	}
	if got := PercentChange(tab, "Total", 2000, 2020); !math.IsInf(got, -1) {
		t.Errorf("0 -> negative must be -Inf, got %f", got)
	}
	// Both sums zero (1990 has no rows at all).
	if got := PercentChange(tab, "Total", 1990, 2000); got != 0 {
		t.Errorf("0 -> 0 must be exactly 0, got %f", got)
	}
}

func TestCAGR(t *testing.T) {
	got := CAGR(scenarioTable(), "Total", 2000, 2010)
	want := (math.Pow(1.5, 0.1) - 1) * 100
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("expected %f (~4.14), got %f", want, got)
	}
}

func TestCAGRGuards(t *testing.T) {
	tab := scenarioTable()
	if got := CAGR(tab, "Total", 2000, 2000); got != 0 {
		t.Errorf("zero horizon must return 0, got %f", got)
	}
	if got := CAGR(tab, "Total", 2010, 2000); got != 0 {
		t.Errorf("negative horizon must return 0, got %f", got)
	}
	if got := CAGR(tab, "Total", 1990, 2010); got != 0 {
		t.Errorf("non-positive start must return 0, got %f", got)
	}
}

func TestMovingAverageConstantSeries(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total"}
	var rows []emissions.Record
	for y := 2000; y < 2010; y++ {
		rows = append(rows, row("A", "AAA", y, map[string]float64{"Total": 42}))
	}
	tab := emissions.NewTable(rows, cols)

	got := MovingAverage(tab, "Total", 5)
	if len(got) != 10 {
		t.Fatalf("expected 10 points, got %d", len(got))
	}
	for i, p := range got {
		if p.Value != 42 {
			t.Errorf("point %d: constant series average must stay 42, got %f", i, p.Value)
		}
	}
}

func TestMovingAverageShrinkingWindow(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total"}
	tab := emissions.NewTable([]emissions.Record{
		row("A", "AAA", 2002, map[string]float64{"Total": 30}),
		row("A", "AAA", 2000, map[string]float64{"Total": 10}),
		row("A", "AAA", 2001, map[string]float64{"Total": 20}),
	}, cols)

	got := MovingAverage(tab, "Total", 3)
	want := []float64{10, 15, 20}
	for i := range want {
		if got[i].Value != want[i] {
			t.Errorf("point %d: expected %f, got %f", i, want[i], got[i].Value)
		}
	}
	if got[0].Year != 2000 || got[2].Year != 2002 {
		t.Errorf("series must be sorted ascending by year: %+v", got)
	}
}

func TestEmissionIntensity(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total", "Coal"}
	tab := emissions.NewTable([]emissions.Record{
		row("A", "AAA", 2000, map[string]float64{"Total": 100, "Coal": 25}),
		row("B", "BBB", 2000, map[string]float64{"Total": 0, "Coal": 10}),
		row("C", "CCC", 2000, map[string]float64{"Total": 50}),
	}, cols)

	got := EmissionIntensity(tab, "Coal", "Total")
	if got[0] != 25 {
		t.Errorf("expected 25, got %f", got[0])
	}
	if got[1] != 0 {
		t.Errorf("zero denominator must yield 0, got %f", got[1])
	}
	if got[2] != 0 {
		t.Errorf("missing source must yield 0, got %f", got[2])
	}
}

func TestTopContributorsPercentages(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total"}
	tab := emissions.NewTable([]emissions.Record{
		row("A", "AAA", 2020, map[string]float64{"Total": 50}),
		row("B", "BBB", 2020, map[string]float64{"Total": 30}),
		row("C", "CCC", 2020, map[string]float64{"Total": 20}),
	}, cols)

	// n >= qualifying rows: shares sum to exactly 100.
	all := TopContributors(tab, "Total", 2020, 10, nil)
	sum := 0.0
	for _, c := range all {
		sum += c.Percentage
	}
	if !almostEqual(sum, 100, 1e-9) {
		t.Errorf("full set shares must sum to 100, got %f", sum)
	}

	// n < qualifying rows: shares are of the full year total, so the
	// truncated sum stays below 100.
	top := TopContributors(tab, "Total", 2020, 2, nil)
	if len(top) != 2 {
		t.Fatalf("expected 2 contributors, got %d", len(top))
	}
	if top[0].Percentage != 50 || top[1].Percentage != 30 {
		t.Errorf("shares must be of the full total: %+v", top)
	}
}

func TestTopContributorsMinValue(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total"}
	tab := emissions.NewTable([]emissions.Record{
		row("A", "AAA", 2020, map[string]float64{"Total": 50}),
		row("B", "BBB", 2020, map[string]float64{"Total": 5}),
	}, cols)
	min := 10.0
	got := TopContributors(tab, "Total", 2020, 10, &min)
	if len(got) != 1 {
		t.Fatalf("expected the below-threshold row dropped, got %+v", got)
	}
	if got[0].Percentage != 100 {
		t.Errorf("threshold changes the qualifying total: expected 100, got %f", got[0].Percentage)
	}
}

func TestReductionNeeded(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total"}
	tab := emissions.NewTable([]emissions.Record{
		row("A", "AAA", 2020, map[string]float64{"Total": 100}),
	}, cols)

	got := ReductionNeeded(tab, "Total", 2020, 2030, 50)
	if got.TargetEmissions != 50 || got.AbsoluteReduction != 50 {
		t.Errorf("target math wrong: %+v", got)
	}
	if got.AnnualReduction != 5 {
		t.Errorf("expected 5/year, got %f", got.AnnualReduction)
	}
	wantPct := (1 - math.Pow(0.5, 0.1)) * 100
	if !almostEqual(got.AnnualReductionPct, wantPct, 1e-9) {
		t.Errorf("expected %f, got %f", wantPct, got.AnnualReductionPct)
	}
}

func TestReductionNeededImmediateCollapse(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total"}
	tab := emissions.NewTable([]emissions.Record{
		row("A", "AAA", 2020, map[string]float64{"Total": 100}),
	}, cols)

	got := ReductionNeeded(tab, "Total", 2020, 2020, 50)
	if got.AnnualReduction != 50 {
		t.Errorf("zero horizon: annual reduction must be the full 50, got %f", got.AnnualReduction)
	}
	if got.AnnualReductionPct != 50 {
		t.Errorf("zero horizon: annual pct must equal the target pct, got %f", got.AnnualReductionPct)
	}
}
