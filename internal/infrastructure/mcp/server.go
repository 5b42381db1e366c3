package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/loadline/pkg/application"
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

type Server struct {
	mcpServer   *mcp.Server
	utilization *application.UtilizationService
	logger      zerolog.Logger
	close       func() error
}

// mcpErr returns a user-friendly error for MCP clients.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

// NewServer builds the services for root and registers the tools.
func NewServer(root string) (*Server, error) {
	services, err := wiring.BuildAppServices(root)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}
	s := NewServerWithService(services.Utilization, services.Logger.With().Str("component", "mcp").Logger())
	s.close = services.Close
	return s, nil
}

// NewServerWithService registers the tools against an existing service.
func NewServerWithService(svc *application.UtilizationService, logger zerolog.Logger) *Server {
	info := mcp.ServerInfo{
		Name:    "loadline",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Loadline MCP Server"),
			mcp.WithDescription("Loadline forecasts resource utilization, detects bottlenecks and proposes workload transfers."),
			mcp.WithWebsiteURL("https://github.com/felixgeelhaar/loadline"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Call loadline_forecast for monthly utilization, loadline_bottlenecks for overallocation hot spots and loadline_balance for transfer proposals."),
		),
		utilization: svc,
		logger:      logger,
		close:       func() error { return nil },
	}

	s.registerTools()
	s.registerSchemaResource()
	return s
}

// QueryArgs selects the forecast window. Omitted fields use the workspace
// defaults: today as start and the configured number of months.
type QueryArgs struct {
	StartDate   string   `json:"start_date,omitempty" jsonschema:"description=First day of the window (YYYY-MM-DD)"`
	EndDate     string   `json:"end_date,omitempty" jsonschema:"description=Last day of the window (YYYY-MM-DD); takes precedence over months"`
	Months      *int     `json:"months,omitempty" jsonschema:"description=Number of months after the start date"`
	ResourceIDs []string `json:"resource_ids,omitempty" jsonschema:"description=Restrict the forecast to these resource ids (forecast only)"`
}

func (a QueryArgs) query(withResources bool) (application.Query, error) {
	p := application.QueryParams{StartDate: a.StartDate, EndDate: a.EndDate}
	if a.Months != nil {
		p.Months = strconv.Itoa(*a.Months)
	}
	q, err := p.Query()
	if err != nil {
		return application.Query{}, err
	}
	if withResources {
		q.ResourceIDs = a.ResourceIDs
	}
	return q, nil
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("loadline_forecast").
		Description("Forecast monthly utilization per resource and for the whole team").
		Handler(s.handleForecast)

	s.mcpServer.Tool("loadline_bottlenecks").
		Description("Detect overallocated resources, roles and crowded projects with recommendations").
		Handler(s.handleBottlenecks)

	s.mcpServer.Tool("loadline_balance").
		Description("Propose moving allocations from overallocated to underallocated resources").
		Handler(s.handleBalance)
}

func (s *Server) handleForecast(ctx context.Context, args QueryArgs) (any, error) {
	q, err := args.query(true)
	if err != nil {
		return nil, s.toolErr("loadline_forecast", err)
	}
	report, err := s.utilization.Forecast(ctx, q)
	if err != nil {
		return nil, s.toolErr("loadline_forecast", err)
	}
	return report, nil
}

func (s *Server) handleBottlenecks(ctx context.Context, args QueryArgs) (any, error) {
	q, err := args.query(false)
	if err != nil {
		return nil, s.toolErr("loadline_bottlenecks", err)
	}
	report, err := s.utilization.Bottlenecks(ctx, q)
	if err != nil {
		return nil, s.toolErr("loadline_bottlenecks", err)
	}
	return report, nil
}

func (s *Server) handleBalance(ctx context.Context, args QueryArgs) (any, error) {
	q, err := args.query(false)
	if err != nil {
		return nil, s.toolErr("loadline_balance", err)
	}
	report, err := s.utilization.Balancing(ctx, q)
	if err != nil {
		return nil, s.toolErr("loadline_balance", err)
	}
	return report, nil
}

// toolErr logs the full error and returns the message shown to the client.
// Range problems are the caller's to fix, so their detail is kept.
func (s *Server) toolErr(tool string, err error) error {
	s.logger.Warn().Err(err).Str("tool", tool).Msg("tool call failed")
	switch {
	case errors.Is(err, capacity.ErrInvalidRange):
		return mcpErr(fmt.Sprintf("Invalid forecast window: %v", err))
	case errors.Is(err, capacity.ErrUpstreamData):
		return mcpErr("Unable to load capacity data. Check the workspace storage configuration.")
	default:
		return mcpErr("Unable to compute the forecast.")
	}
}

// Close releases the workspace opened by NewServer.
func (s *Server) Close() error {
	return s.close()
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}
