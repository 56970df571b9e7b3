// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package exchange

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/finpick/internal/cache"
	"github.com/tomtom215/finpick/internal/config"
	"github.com/tomtom215/finpick/internal/logging"
	"github.com/tomtom215/finpick/internal/models"
)

// KRW is the quote currency of every Koreaexim rate.
const KRW = "KRW"

// DefaultHistoryDays is used when a caller does not specify a window.
const DefaultHistoryDays = 7

// kst is the publisher's time zone; "today" is a Seoul calendar day.
var kst = time.FixedZone("KST", 9*60*60)

// Store persists per-currency daily base rates.
type Store interface {
	SaveRate(ctx context.Context, currency string, day time.Time, rate decimal.Decimal) error
	ListRates(ctx context.Context, currency string, from, to time.Time) ([]models.RatePoint, error)
}

// Service answers latest, history, cross-rate and chart queries.
type Service struct {
	source   RateSource
	store    Store
	tables   *cache.Cache[[]models.ExchangeRate]
	lookback int
	now      func() time.Time
}

// NewService creates a Service. Close releases the table cache.
func NewService(source RateSource, store Store, cfg *config.ExchangeConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = 5
	}
	return &Service{
		source:   source,
		store:    store,
		tables:   cache.New[[]models.ExchangeRate]("exchange_tables", ttl),
		lookback: lookback,
		now:      time.Now,
	}
}

// Close stops the cache cleanup goroutine.
func (s *Service) Close() {
	s.tables.Close()
}

func (s *Service) today() time.Time {
	n := s.now().In(kst)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, kst)
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// table returns the published table for day, consulting the cache first.
func (s *Service) table(ctx context.Context, day time.Time) ([]models.ExchangeRate, error) {
	key := cache.GenerateKey("daily", day.Format("20060102"))
	if rates, ok := s.tables.Get(key); ok {
		return rates, nil
	}
	rates, err := s.source.DailyRates(ctx, day)
	if err != nil {
		return nil, err
	}
	s.tables.Set(key, rates)
	return rates, nil
}

// Latest returns the most recent non-empty table, walking back from today
// over the lookback window and skipping weekends.
func (s *Service) Latest(ctx context.Context) ([]models.ExchangeRate, error) {
	logger := logging.Ctx(ctx)
	today := s.today()

	var lastErr error
	for i := 0; i < s.lookback; i++ {
		day := today.AddDate(0, 0, -i)
		if isWeekend(day) {
			continue
		}
		rates, err := s.table(ctx, day)
		if err != nil {
			logger.Warn().Err(err).Str("date", day.Format("2006-01-02")).Msg("Failed to fetch exchange rates")
			lastErr = err
			continue
		}
		if len(rates) > 0 {
			return rates, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRates, lastErr)
	}
	return nil, ErrNoRates
}

// NormalizeCurrency upper-cases a currency code and trims spaces.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// baseCode strips the unit suffix Koreaexim appends to some codes ("JPY(100)").
func baseCode(code string) string {
	if i := strings.IndexByte(code, '('); i > 0 {
		return code[:i]
	}
	return code
}

func findRate(rates []models.ExchangeRate, currency string) (decimal.Decimal, bool) {
	for i := range rates {
		if rates[i].CurUnit == currency || baseCode(rates[i].CurUnit) == currency {
			return rates[i].DealBasR, true
		}
	}
	return decimal.Zero, false
}

// History returns the base rates of currency over the last days calendar days,
// oldest first. Stored rows are returned when any exist for the window;
// otherwise each weekday is fetched and persisted. Days that fail are skipped.
func (s *Service) History(ctx context.Context, currency string, days int) ([]models.RatePoint, error) {
	currency = NormalizeCurrency(currency)
	if days <= 0 {
		days = DefaultHistoryDays
	}
	end := s.today()
	start := end.AddDate(0, 0, -days)

	stored, err := s.store.ListRates(ctx, currency, start, end)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		return stored, nil
	}

	logger := logging.Ctx(ctx).With().Str("currency", currency).Logger()
	points := make([]models.RatePoint, 0, days)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if isWeekend(day) {
			continue
		}
		rates, err := s.table(ctx, day)
		if err != nil {
			logger.Warn().Err(err).Str("date", day.Format("2006-01-02")).Msg("Skipping exchange-rate day")
			continue
		}
		rate, ok := findRate(rates, currency)
		if !ok {
			continue
		}
		if err := s.store.SaveRate(ctx, currency, day, rate); err != nil {
			logger.Warn().Err(err).Str("date", day.Format("2006-01-02")).Msg("Failed to persist exchange rate")
		}
		points = append(points, models.RatePoint{
			Date:         day,
			Day:          day.Format("2006-01-02"),
			CurrencyCode: currency,
			Rate:         rate,
		})
	}
	return points, nil
}

// Record fetches the table for day and persists the base rate of every
// currency in it. It returns the number of rates written.
func (s *Service) Record(ctx context.Context, day time.Time) (int, error) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, kst)
	rates, err := s.table(ctx, day)
	if err != nil {
		return 0, err
	}
	for i := range rates {
		if err := s.store.SaveRate(ctx, rates[i].CurUnit, day, rates[i].DealBasR); err != nil {
			return i, err
		}
	}
	return len(rates), nil
}

// Cross returns the from/to rate series over the window. Quotes against KRW
// are the stored history itself.
func (s *Service) Cross(ctx context.Context, from, to string, days int) ([]models.RatePoint, error) {
	from, to = NormalizeCurrency(from), NormalizeCurrency(to)
	if to == KRW {
		return s.History(ctx, from, days)
	}

	fromRates, err := s.History(ctx, from, days)
	if err != nil {
		return nil, err
	}
	toRates, err := s.History(ctx, to, days)
	if err != nil {
		return nil, err
	}
	return CrossRates(from, to, fromRates, toRates), nil
}

var scaleFactors = map[string]decimal.Decimal{
	"BHD": decimal.NewFromFloat(0.1),
	"KWD": decimal.NewFromFloat(0.1),
	"JOD": decimal.NewFromFloat(0.1),
	"OMR": decimal.NewFromFloat(0.1),
	"KRW": decimal.NewFromInt(1000),
	"VND": decimal.NewFromInt(1000),
	"IDR": decimal.NewFromInt(1000),
	"JPY": decimal.NewFromInt(100),
}

// ScaleFactor returns the display scale of a currency (1 when unlisted).
func ScaleFactor(code string) decimal.Decimal {
	if f, ok := scaleFactors[baseCode(NormalizeCurrency(code))]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

// CrossRates pairs the two series by date and derives the from/to rate.
// Days where the to rate is zero, or missing from toRates, are dropped.
func CrossRates(from, to string, fromRates, toRates []models.RatePoint) []models.RatePoint {
	fromScale, toScale := ScaleFactor(from), ScaleFactor(to)
	fromIsKRW := baseCode(NormalizeCurrency(from)) == KRW
	toIsKRW := baseCode(NormalizeCurrency(to)) == KRW

	byDay := make(map[string]decimal.Decimal, len(toRates))
	for _, p := range toRates {
		byDay[p.Day] = p.Rate
	}

	out := make([]models.RatePoint, 0, len(fromRates))
	for _, fp := range fromRates {
		toRate, ok := byDay[fp.Day]
		if !ok || toRate.IsZero() {
			continue
		}

		var rate decimal.Decimal
		switch {
		case fromIsKRW:
			rate = fromScale.Div(toRate).Div(toScale)
		case toIsKRW:
			rate = fp.Rate.Mul(fromScale.Div(toScale))
		default:
			rate = fp.Rate.Div(toRate).Mul(fromScale.Div(toScale))
		}
		out = append(out, models.RatePoint{Date: fp.Date, Day: fp.Day, Rate: rate.Round(6)})
	}
	return out
}

// Chart summarizes the cross-rate series. It returns ErrNoData when the window is empty.
func (s *Service) Chart(ctx context.Context, from, to string, days int) (*models.RateChart, error) {
	points, err := s.Cross(ctx, from, to, days)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrNoData
	}
	return Summarize(points), nil
}

// Summarize builds chart statistics over a non-empty series. Std is the
// sample standard deviation and is zero for a single point.
func Summarize(points []models.RatePoint) *models.RateChart {
	sorted := make([]models.RatePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	chart := &models.RateChart{
		Dates: make([]string, len(sorted)),
		Rates: make([]float64, len(sorted)),
	}
	sum := decimal.Zero
	minR, maxR := sorted[0].Rate, sorted[0].Rate
	for i, p := range sorted {
		chart.Dates[i] = p.Day
		chart.Rates[i] = p.Rate.InexactFloat64()
		sum = sum.Add(p.Rate)
		if p.Rate.LessThan(minR) {
			minR = p.Rate
		}
		if p.Rate.GreaterThan(maxR) {
			maxR = p.Rate
		}
	}

	n := decimal.NewFromInt(int64(len(sorted)))
	mean := sum.Div(n)
	chart.Mean = mean.InexactFloat64()
	chart.Min = minR.InexactFloat64()
	chart.Max = maxR.InexactFloat64()

	if len(sorted) > 1 {
		sq := decimal.Zero
		for _, p := range sorted {
			d := p.Rate.Sub(mean)
			sq = sq.Add(d.Mul(d))
		}
		variance := sq.Div(n.Sub(decimal.NewFromInt(1)))
		chart.Std = math.Sqrt(variance.InexactFloat64())
	}
	return chart
}
