package application

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/loadline/pkg/domain/balancing"
	"github.com/felixgeelhaar/loadline/pkg/domain/bottleneck"
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
	"github.com/felixgeelhaar/loadline/pkg/domain/forecast"
	"github.com/felixgeelhaar/loadline/pkg/domain/narrative"
)

// DefaultForecastMonths is the forecast horizon when neither an end date nor
// a month count is requested.
const DefaultForecastMonths = 6

// Query selects the forecast window and, optionally, a subset of resources.
// Nil fields fall back to defaults: the reference date as start and the
// configured number of months after it as end.
type Query struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Months      *int
	ResourceIDs []string
}

// UtilizationOptions configures a UtilizationService.
type UtilizationOptions struct {
	DefaultMonths int
	Workers       int
	FetchTimeout  time.Duration
	// Clock supplies the reference date for open-ended queries.
	Clock func() time.Time
}

// UtilizationService answers forecast, bottleneck and balancing queries from
// one snapshot of provider data per call.
type UtilizationService struct {
	provider capacity.DataProvider
	opts     UtilizationOptions
	logger   zerolog.Logger
}

// NewUtilizationService creates a new utilization service.
func NewUtilizationService(provider capacity.DataProvider, opts UtilizationOptions, logger zerolog.Logger) *UtilizationService {
	if opts.DefaultMonths <= 0 {
		opts.DefaultMonths = DefaultForecastMonths
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &UtilizationService{provider: provider, opts: opts, logger: logger}
}

// ForecastReport is the utilization forecast for a window.
type ForecastReport struct {
	StartDate capacity.Date               `json:"startDate"`
	EndDate   capacity.Date               `json:"endDate"`
	Months    []string                    `json:"months"`
	Team      forecast.TeamForecast       `json:"team"`
	Resources []forecast.ResourceForecast `json:"resources"`
}

// BottleneckReport is the bottleneck analysis for a window.
type BottleneckReport struct {
	StartDate capacity.Date `json:"startDate"`
	EndDate   capacity.Date `json:"endDate"`
	Months    []string      `json:"months"`
	bottleneck.Report
}

// BalancingReport is the rebalancing proposal for a window.
type BalancingReport struct {
	StartDate capacity.Date `json:"startDate"`
	EndDate   capacity.Date `json:"endDate"`
	Months    []string      `json:"months"`
	balancing.Result
}

// ResolveRange turns a query into a concrete inclusive date range. It fails
// with an InvalidRangeError for a non-positive month count or an end date
// before the start date.
func (s *UtilizationService) ResolveRange(q Query) (capacity.DateRange, error) {
	start := capacity.DateOf(s.opts.Clock())
	if q.StartDate != nil {
		start = capacity.DateOf(*q.StartDate)
	}

	months := s.opts.DefaultMonths
	if q.Months != nil {
		months = *q.Months
	}
	// An explicit month count is checked even when an end date overrides it.
	if months <= 0 {
		return capacity.DateRange{}, &capacity.InvalidRangeError{Months: months, Reason: "months must be positive"}
	}

	var end capacity.Date
	if q.EndDate != nil {
		end = capacity.DateOf(*q.EndDate)
	} else {
		end = start.AddMonths(months)
	}

	if end.Before(start) {
		return capacity.DateRange{}, &capacity.InvalidRangeError{Start: start, End: end, Reason: "end date is before start date"}
	}
	return capacity.DateRange{Start: start, End: end}, nil
}

// LoadSnapshot fetches resources, allocations and capacity settings for the
// months touched by window in one pass. Failures are returned as
// UpstreamDataError; nothing is retried here.
func (s *UtilizationService) LoadSnapshot(ctx context.Context, resourceIDs []string, window capacity.DateRange) (capacity.Snapshot, error) {
	fetch := func(ctx context.Context) (capacity.Snapshot, error) {
		resources, err := s.provider.ListResources(ctx, resourceIDs)
		if err != nil {
			return capacity.Snapshot{}, &capacity.UpstreamDataError{Op: "list resources", Err: err}
		}
		allocations, err := s.provider.ListAllocations(ctx, resourceIDs, window)
		if err != nil {
			return capacity.Snapshot{}, &capacity.UpstreamDataError{Op: "list allocations", Err: err}
		}
		settings, err := s.provider.ListCapacitySettings(ctx, resourceIDs, window.Months())
		if err != nil {
			return capacity.Snapshot{}, &capacity.UpstreamDataError{Op: "list capacity settings", Err: err}
		}
		return capacity.Snapshot{Resources: resources, Allocations: allocations, Capacity: settings}, nil
	}

	var (
		snap capacity.Snapshot
		err  error
	)
	if s.opts.FetchTimeout > 0 {
		t := timeout.New[capacity.Snapshot](timeout.Config{DefaultTimeout: s.opts.FetchTimeout})
		snap, err = t.Execute(ctx, s.opts.FetchTimeout, fetch)
	} else {
		snap, err = fetch(ctx)
	}
	if err != nil {
		var upstream *capacity.UpstreamDataError
		if !errors.As(err, &upstream) {
			err = &capacity.UpstreamDataError{Op: "load snapshot", Err: err}
		}
		s.logger.Error().Err(err).Msg("data provider failed")
		return capacity.Snapshot{}, err
	}
	return snap, nil
}

type run struct {
	window capacity.DateRange
	labels []string
	result *forecast.Result
}

func (s *UtilizationService) compute(ctx context.Context, q Query, query string) (*run, error) {
	started := time.Now()

	window, err := s.ResolveRange(q)
	if err != nil {
		return nil, err
	}
	months, err := capacity.GenerateMonths(window.Start, window.End)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("query", query).
		Str("start", window.Start.String()).
		Str("end", window.End.String()).
		Int("months", len(months)).
		Strs("resources", q.ResourceIDs).
		Msg("computing utilization")

	// Widen the fetch to whole months so allocations active on any sampled
	// midpoint are included.
	fetchWindow := capacity.DateRange{Start: months[0].FirstDay(), End: months[len(months)-1].LastDay()}
	snap, err := s.LoadSnapshot(ctx, q.ResourceIDs, fetchWindow)
	if err != nil {
		return nil, err
	}

	result, err := forecast.Build(ctx, snap, months, forecast.Options{Workers: s.opts.Workers})
	if err != nil {
		return nil, err
	}
	for i := range result.Resources {
		result.Resources[i].Note = narrative.ResourceStatus(result.Resources[i])
	}
	result.Team.Forecast = narrative.TeamForecast(result.Team)

	s.logger.Info().
		Str("query", query).
		Int("resources", len(result.Resources)).
		Int("months", len(months)).
		Dur("duration", time.Since(started)).
		Msg("utilization computed")

	return &run{window: window, labels: capacity.MonthLabels(months), result: result}, nil
}

// Forecast returns the per-resource and team utilization forecast.
func (s *UtilizationService) Forecast(ctx context.Context, q Query) (*ForecastReport, error) {
	r, err := s.compute(ctx, q, "forecast")
	if err != nil {
		return nil, err
	}
	return &ForecastReport{
		StartDate: r.window.Start,
		EndDate:   r.window.End,
		Months:    r.labels,
		Team:      r.result.Team,
		Resources: r.result.Resources,
	}, nil
}

// Bottlenecks returns resource, role and project bottlenecks with
// recommendations.
func (s *UtilizationService) Bottlenecks(ctx context.Context, q Query) (*BottleneckReport, error) {
	r, err := s.compute(ctx, q, "bottlenecks")
	if err != nil {
		return nil, err
	}
	report := bottleneck.Detect(r.result.Resources, r.result.Months)
	report.Recommendations = narrative.BottleneckRecommendations(report)
	return &BottleneckReport{
		StartDate: r.window.Start,
		EndDate:   r.window.End,
		Months:    r.labels,
		Report:    report,
	}, nil
}

// Balancing returns over- and underallocated resources with transfer
// recommendations.
func (s *UtilizationService) Balancing(ctx context.Context, q Query) (*BalancingReport, error) {
	r, err := s.compute(ctx, q, "balancing")
	if err != nil {
		return nil, err
	}
	result := balancing.Balance(r.result.Resources)
	result.Summary.Message = narrative.BalancingSummary(result.Summary)
	return &BalancingReport{
		StartDate: r.window.Start,
		EndDate:   r.window.End,
		Months:    r.labels,
		Result:    result,
	}, nil
}
