package web

import (
	"flag"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"co2-stats/connectors/config"
	ccsv "co2-stats/connectors/csv"
	cfg "co2-stats/domain/config"
	"co2-stats/domain/emissions"
	"co2-stats/stats"
)

// Run starts the Echo web server exposing the emissions aggregations
// and metrics as JSON APIs, plus an optional SPA dashboard.
//
// Usage:
//
//	co2-stats web [-addr :8080] [-data <dir>] [-ui ./ui/dist]
//
// The dataset is loaded once in the background; until it is ready the
// API answers 503. Every endpoint recomputes from the in-memory
// tables, memoized per (table, arguments).
func Run(args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", ":8080", "http listen address (host:port)")
	dataDir := fs.String("data", "", "data directory (default from config)")
	uiDir := fs.String("ui", "./ui/dist", "directory containing built UI (Vite dist)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	conf := config.Resolve()
	if *dataDir != "" {
		conf.DataDir = *dataDir
	}

	s := &server{
		cfg: conf,
		idx: emissions.NewRegionIndex(conf.Regions),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	s.registerRoutes(e)

	// Load the dataset in the background so the server is reachable
	// immediately; endpoints answer 503 until it lands.
	go func() {
		t0 := time.Now()
		ds := ccsv.LoadDataset(s.cfg)
		s.setDataset(ds)
		slog.Info("web.dataset.ready", "elapsed", time.Since(t0),
			"totalRows", len(ds.Total.Rows), "perCapitaRows", len(ds.PerCapita.Rows), "sourceRows", len(ds.Sources.Rows))
	}()

	registerUI(e, *uiDir)

	slog.Info("web.start", "addr", *addr, "dataDir", conf.DataDir)
	return e.Start(*addr)
}

type server struct {
	cfg *cfg.Config
	idx emissions.RegionIndex

	mu    sync.RWMutex
	ds    *emissions.Dataset
	cache *stats.Cache
}

func (s *server) setDataset(ds *emissions.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
	s.cache = stats.NewCache(s.idx)
}

func (s *server) dataset() (*emissions.Dataset, *stats.Cache, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds, s.cache, s.ds != nil
}

func (s *server) registerRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/meta", s.getMeta)
	api.GET("/config/regions", s.getRegions)
	api.GET("/config/colors", s.getColors)
	api.GET("/countries", s.getCountries)

	api.GET("/emissions/yearly", s.getYearly)
	api.GET("/emissions/regions", s.getByRegion)
	api.GET("/emissions/sources", s.getBySource)
	api.GET("/emissions/sources/percentages", s.getSourceShares)
	api.GET("/emissions/top", s.getTopEmitters)
	api.GET("/emissions/growth", s.getGrowthRates)

	api.GET("/metrics/percent_change", s.getPercentChange)
	api.GET("/metrics/cagr", s.getCAGR)
	api.GET("/metrics/moving_average", s.getMovingAverage)
	api.GET("/metrics/intensity", s.getIntensity)
	api.GET("/metrics/top_contributors", s.getTopContributors)
	api.GET("/metrics/reduction", s.getReduction)
}

// table resolves the metric query parameter to one of the three
// loaded tables (default: total emissions).
func (s *server) table(c echo.Context, ds *emissions.Dataset) (*emissions.Table, bool) {
	switch c.QueryParam("metric") {
	case "", "total":
		return ds.Total, true
	case "per_capita":
		return ds.PerCapita, true
	case "sources":
		return ds.Sources, true
	default:
		return nil, false
	}
}

func notReady(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]any{"message": "dataset is still loading"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{"message": msg})
}

func intParam(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}

func floatParam(c echo.Context, name string) *float64 {
	v, err := strconv.ParseFloat(c.QueryParam(name), 64)
	if err != nil {
		return nil
	}
	return &v
}

func column(c echo.Context) string {
	if col := c.QueryParam("column"); col != "" {
		return col
	}
	return emissions.ColTotal
}

// jsonFloat keeps ±Inf representable: encoding/json refuses
// non-finite numbers, and the percent-change contract requires them.
func jsonFloat(v float64) any {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	default:
		return v
	}
}

func (s *server) getMeta(c echo.Context) error {
	ds, _, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"default_start_year":  s.cfg.DefaultStartYear,
		"default_end_year":    s.cfg.DefaultEndYear,
		"top_n":               s.cfg.TopN,
		"latest_year":         ds.Total.LatestYear(),
		"total_metadata":      ds.TotalMetadata,
		"per_capita_metadata": ds.PerCapitaMetadata,
	})
}

func (s *server) getRegions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cfg.Regions)
}

func (s *server) getColors(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cfg.SourceColors)
}

func (s *server) getCountries(c echo.Context) error {
	ds, _, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	return c.JSON(http.StatusOK, ds.Total.CountryCodes())
}

func (s *server) getYearly(c echo.Context) error {
	ds, cache, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	t, ok := s.table(c, ds)
	if !ok {
		return badRequest(c, "unknown metric")
	}
	return c.JSON(http.StatusOK, cache.AggregateByYear(t, column(c)))
}

func (s *server) getByRegion(c echo.Context) error {
	ds, cache, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	t, ok := s.table(c, ds)
	if !ok {
		return badRequest(c, "unknown metric")
	}
	return c.JSON(http.StatusOK, cache.AggregateByRegion(t, column(c), intParam(c, "year", 0)))
}

func (s *server) getBySource(c echo.Context) error {
	ds, cache, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	return c.JSON(http.StatusOK, cache.AggregateBySource(ds.Total, intParam(c, "year", 0), c.QueryParam("country")))
}

func (s *server) getSourceShares(c echo.Context) error {
	ds, cache, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	return c.JSON(http.StatusOK, cache.PerSourcePercentages(ds.Total, intParam(c, "year", 0)))
}

type rankedEmitter struct {
	Rank    int     `json:"rank"`
	Country string  `json:"country"`
	ISO3    string  `json:"iso3"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}

func (s *server) getTopEmitters(c echo.Context) error {
	ds, cache, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	t, ok := s.table(c, ds)
	if !ok {
		return badRequest(c, "unknown metric")
	}
	col := column(c)
	rows := cache.TopEmitters(t, col, intParam(c, "year", 0), intParam(c, "n", s.cfg.TopN))
	out := make([]rankedEmitter, len(rows))
	for i, r := range rows {
		v, _ := r.Value(col)
		out[i] = rankedEmitter{Rank: i + 1, Country: r.Country, ISO3: r.ISO3, Year: r.Year, Value: v}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *server) getGrowthRates(c echo.Context) error {
	ds, cache, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	t, ok := s.table(c, ds)
	if !ok {
		return badRequest(c, "unknown metric")
	}
	periods := parsePeriods(c.QueryParam("periods"))
	return c.JSON(http.StatusOK, cache.GrowthRates(t, column(c), periods))
}

func parsePeriods(raw string) []int {
	if raw == "" {
		return []int{5, 10, 20}
	}
	var periods []int
	for _, part := range strings.Split(raw, ",") {
		if p, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && p > 0 {
			periods = append(periods, p)
		}
	}
	if len(periods) == 0 {
		return []int{5, 10, 20}
	}
	return periods
}

func (s *server) getPercentChange(c echo.Context) error {
	ds, _, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	t, ok := s.table(c, ds)
	if !ok {
		return badRequest(c, "unknown metric")
	}
	year1 := intParam(c, "year1", 0)
	year2 := intParam(c, "year2", 0)
	if year1 == 0 || year2 == 0 {
		return badRequest(c, "year1 and year2 are required")
	}
	v := stats.PercentChange(t, column(c), year1, year2)
	return c.JSON(http.StatusOK, map[string]any{"year1": year1, "year2": year2, "percent_change": jsonFloat(v)})
}

func (s *server) getCAGR(c echo.Context) error {
	ds, _, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	t, ok := s.table(c, ds)
	if !ok {
		return badRequest(c, "unknown metric")
	}
	start := intParam(c, "start", s.cfg.DefaultStartYear)
	end := intParam(c, "end", s.cfg.DefaultEndYear)
	v := stats.CAGR(t, column(c), start, end)
	return c.JSON(http.StatusOK, map[string]any{"start": start, "end": end, "cagr": jsonFloat(v)})
}

func (s *server) getMovingAverage(c echo.Context) error {
	ds, _, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	t, ok := s.table(c, ds)
	if !ok {
		return badRequest(c, "unknown metric")
	}
	if country := c.QueryParam("country"); country != "" {
		t = t.FilterCountry(country)
	}
	return c.JSON(http.StatusOK, stats.MovingAverage(t, column(c), intParam(c, "window", 5)))
}

type intensityPoint struct {
	Country string  `json:"country"`
	ISO3    string  `json:"iso3"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}

func (s *server) getIntensity(c echo.Context) error {
	ds, _, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	source := c.QueryParam("source")
	if source == "" {
		return badRequest(c, "source is required")
	}
	t := ds.Total
	if country := c.QueryParam("country"); country != "" {
		t = t.FilterCountry(country)
	}
	values := stats.EmissionIntensity(t, source, emissions.ColTotal)
	out := make([]intensityPoint, len(values))
	for i, r := range t.Rows {
		out[i] = intensityPoint{Country: r.Country, ISO3: r.ISO3, Year: r.Year, Value: values[i]}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *server) getTopContributors(c echo.Context) error {
	ds, _, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	t, ok := s.table(c, ds)
	if !ok {
		return badRequest(c, "unknown metric")
	}
	year := intParam(c, "year", 0)
	if year == 0 {
		year = t.LatestYear()
	}
	n := intParam(c, "n", s.cfg.TopN)
	return c.JSON(http.StatusOK, stats.TopContributors(t, column(c), year, n, floatParam(c, "min")))
}

func (s *server) getReduction(c echo.Context) error {
	ds, _, ok := s.dataset()
	if !ok {
		return notReady(c)
	}
	t, ok := s.table(c, ds)
	if !ok {
		return badRequest(c, "unknown metric")
	}
	current := intParam(c, "current_year", t.LatestYear())
	target := intParam(c, "target_year", current)
	pct := floatParam(c, "target_pct")
	if pct == nil {
		return badRequest(c, "target_pct is required")
	}
	return c.JSON(http.StatusOK, stats.ReductionNeeded(t, column(c), current, target, *pct))
}

// registerUI serves a built SPA when one is present, with index.html
// fallback for non-API routes.
func registerUI(e *echo.Echo, uiDir string) {
	indexPath := filepath.Join(uiDir, "index.html")
	fi, err := os.Stat(indexPath)
	if err != nil || fi.IsDir() {
		return
	}
	e.Static("/", uiDir)
	e.GET("/", func(c echo.Context) error { return c.File(indexPath) })

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
			if !strings.HasPrefix(c.Request().URL.Path, "/api") {
				_ = c.File(indexPath)
				return
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
