package stats

import (
	"testing"

	"co2-stats/domain/emissions"
)

func row(country, iso3 string, year int, values map[string]float64) emissions.Record {
	return emissions.Record{Country: country, ISO3: iso3, Year: year, Values: values}
}

func testTable() *emissions.Table {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total", "Coal", "Oil"}
	rows := []emissions.Record{
		row("United States", "USA", 2000, map[string]float64{"Total": 100, "Coal": 60, "Oil": 40}),
		row("China", "CHN", 2000, map[string]float64{"Total": 80, "Coal": 70, "Oil": 10}),
		row("United States", "USA", 2010, map[string]float64{"Total": 150, "Coal": 50, "Oil": 100}),
		row("China", "CHN", 2010, map[string]float64{"Total": 200, "Coal": 150, "Oil": 50}),
		row("France", "FRA", 2010, map[string]float64{"Total": 30, "Coal": 10, "Oil": 20}),
	}
	return emissions.NewTable(rows, cols)
}

func testIndex() emissions.RegionIndex {
	return emissions.NewRegionIndex(map[string][]string{
		"North America": {"USA"},
		"Asia":          {"CHN"},
		"Europe":        {"FRA"},
	})
}

func TestAggregateByYear(t *testing.T) {
	tab := testTable()
	got := AggregateByYear(tab, "Total")

	years := tab.Years()
	if len(got) != len(years) {
		t.Fatalf("expected %d rows (distinct years), got %d", len(years), len(got))
	}
	if got[0].Year != 2000 || got[1].Year != 2010 {
		t.Errorf("rows not in ascending year order: %+v", got)
	}
	if got[0].Value != 180 {
		t.Errorf("2000 sum: expected 180, got %f", got[0].Value)
	}
	if got[1].Value != 380 {
		t.Errorf("2010 sum: expected 380, got %f", got[1].Value)
	}
}

func TestAggregateByYearMissingColumn(t *testing.T) {
	if got := AggregateByYear(testTable(), "Gas"); got != nil {
		t.Errorf("expected empty result for absent column, got %+v", got)
	}
	if got := AggregateByYear(emissions.Empty(), "Total"); got != nil {
		t.Errorf("expected empty result for empty table, got %+v", got)
	}
}

func TestAggregateByRegion(t *testing.T) {
	got := AggregateByRegion(testTable(), testIndex(), "Total", 2010)
	if len(got) != 3 {
		t.Fatalf("expected 3 regions, got %d", len(got))
	}
	// Sorted by region name.
	if got[0].Region != "Asia" || got[0].Value != 200 {
		t.Errorf("Asia 2010: expected 200, got %+v", got[0])
	}
	if got[1].Region != "Europe" || got[1].Value != 30 {
		t.Errorf("Europe 2010: expected 30, got %+v", got[1])
	}
}

func TestAggregateByRegionDropsUnmapped(t *testing.T) {
	idx := emissions.NewRegionIndex(map[string][]string{"Asia": {"CHN"}})
	got := AggregateByRegion(testTable(), idx, "Total", 0)
	if len(got) != 1 {
		t.Fatalf("expected only mapped region, got %+v", got)
	}
	if got[0].Value != 280 {
		t.Errorf("Asia all-years sum: expected 280, got %f", got[0].Value)
	}
}

func TestAggregateBySourceSummed(t *testing.T) {
	got := AggregateBySource(testTable(), 2010, "")
	if len(got) != 2 {
		t.Fatalf("expected one row per present source, got %+v", got)
	}
	if got[0].Source != "Coal" || got[0].Value != 210 {
		t.Errorf("Coal 2010: expected 210, got %+v", got[0])
	}
	if got[1].Source != "Oil" || got[1].Value != 170 {
		t.Errorf("Oil 2010: expected 170, got %+v", got[1])
	}
}

func TestAggregateBySourceCountry(t *testing.T) {
	got := AggregateBySource(testTable(), 0, "China")
	if len(got) != 4 {
		t.Fatalf("expected 2 years x 2 sources, got %+v", got)
	}
	for _, sv := range got {
		if sv.Year == 0 {
			t.Errorf("country mode must keep the per-year rows: %+v", sv)
		}
	}
}

func TestPerSourcePercentages(t *testing.T) {
	got := PerSourcePercentages(testTable(), 2000)
	if len(got) != 2 {
		t.Fatalf("expected 2 shares for 2000, got %+v", got)
	}
	// Coal 130 of 180, Oil 50 of 180.
	sum := got[0].Percent + got[1].Percent
	if sum < 99.999 || sum > 100.001 {
		t.Errorf("shares should sum to 100, got %f", sum)
	}
	if got[0].Source != "Coal" || got[0].Emissions != 130 {
		t.Errorf("Coal 2000: expected 130, got %+v", got[0])
	}
}

func TestPerSourcePercentagesZeroDenominator(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Coal", "Oil"}
	tab := emissions.NewTable([]emissions.Record{
		row("Nowhere", "NWH", 1999, map[string]float64{"Coal": 0, "Oil": 0}),
	}, cols)
	for _, share := range PerSourcePercentages(tab, 0) {
		if share.Percent != 0 {
			t.Errorf("zero denominator must yield 0, got %+v", share)
		}
	}
}

func TestTopEmitters(t *testing.T) {
	got := TopEmitters(testTable(), "Total", 2010, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Country != "China" || got[1].Country != "United States" {
		t.Errorf("wrong ranking: %s, %s", got[0].Country, got[1].Country)
	}
}

func TestTopEmittersStableTies(t *testing.T) {
	cols := []string{"Country", "ISO 3166-1 alpha-3", "Year", "Total"}
	tab := emissions.NewTable([]emissions.Record{
		row("A", "AAA", 2020, map[string]float64{"Total": 10}),
		row("B", "BBB", 2020, map[string]float64{"Total": 10}),
		row("C", "CCC", 2020, map[string]float64{"Total": 10}),
	}, cols)
	got := TopEmitters(tab, "Total", 2020, 3)
	if got[0].Country != "A" || got[1].Country != "B" || got[2].Country != "C" {
		t.Errorf("ties must keep input order, got %s %s %s", got[0].Country, got[1].Country, got[2].Country)
	}
}

func TestGrowthRates(t *testing.T) {
	got := GrowthRates(testTable(), "Total", []int{10})
	byCountry := map[string]GrowthRate{}
	for _, g := range got {
		byCountry[g.Country] = g
	}

	us := byCountry["United States"]
	if us.Rates[10] == nil {
		t.Fatal("US 10yr growth should be present")
	}
	if *us.Rates[10] != 50 {
		t.Errorf("US 10yr growth: expected 50, got %f", *us.Rates[10])
	}

	// France has no 2000 row: the lookback is missing, not zero.
	fr := byCountry["France"]
	if fr.Rates[10] != nil {
		t.Errorf("France 10yr growth must be missing, got %f", *fr.Rates[10])
	}
}
