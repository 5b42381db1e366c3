package sdk

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/mcp-go/client"
)

// Tool and resource names served by `loadline mcp`.
const (
	ToolForecast    = "loadline_forecast"
	ToolBottlenecks = "loadline_bottlenecks"
	ToolBalance     = "loadline_balance"
	SchemaURI       = "loadline://schema"
)

// Client is a typed Go client for the Loadline MCP server.
type Client struct {
	mcp      *client.Client
	retryCfg retry.Config
}

// NewClient creates a new SDK client wrapping the given MCP transport.
func NewClient(transport client.Transport, opts ...Option) *Client {
	s := defaultSettings()
	for _, fn := range opts {
		fn(&s)
	}
	return &Client{
		mcp:      client.New(transport, client.WithTimeout(s.timeout)),
		retryCfg: s.retry,
	}
}

// Initialize performs the MCP initialize handshake.
func (c *Client) Initialize(ctx context.Context) (*client.ServerInfo, error) {
	return c.mcp.Initialize(ctx)
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.mcp.Close()
}

// Forecast returns the monthly utilization forecast for the window.
func (c *Client) Forecast(ctx context.Context, q Query) (*ForecastReport, error) {
	res, err := c.call(ctx, ToolForecast, q.args(true))
	if err != nil {
		return nil, err
	}
	return unmarshalText[ForecastReport](res)
}

// Bottlenecks returns the bottleneck analysis for the window. Query.ResourceIDs
// is ignored.
func (c *Client) Bottlenecks(ctx context.Context, q Query) (*BottleneckReport, error) {
	res, err := c.call(ctx, ToolBottlenecks, q.args(false))
	if err != nil {
		return nil, err
	}
	return unmarshalText[BottleneckReport](res)
}

// Balance returns the rebalancing proposal for the window. Query.ResourceIDs
// is ignored.
func (c *Client) Balance(ctx context.Context, q Query) (*BalancingReport, error) {
	res, err := c.call(ctx, ToolBalance, q.args(false))
	if err != nil {
		return nil, err
	}
	return unmarshalText[BalancingReport](res)
}

// SnapshotSchema reads the JSON schema accepted by `loadline import`.
func (c *Client) SnapshotSchema(ctx context.Context) (json.RawMessage, error) {
	rc, err := c.mcp.ReadResource(ctx, SchemaURI)
	if err != nil {
		return nil, fmt.Errorf("read schema resource: %w", err)
	}
	if !json.Valid([]byte(rc.Text)) {
		return nil, fmt.Errorf("schema resource is not valid JSON")
	}
	return json.RawMessage(rc.Text), nil
}

// call invokes a tool with retry. Error results are not retried.
func (c *Client) call(ctx context.Context, tool string, args map[string]any) (*client.ToolResult, error) {
	r := retry.New[*client.ToolResult](c.retryCfg)
	result, err := r.Do(ctx, func(ctx context.Context) (*client.ToolResult, error) {
		return c.mcp.CallTool(ctx, tool, args)
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", tool, err)
	}
	if result.IsError {
		msg := ""
		if len(result.Content) > 0 {
			msg = result.Content[0].Text
		}
		return nil, &ToolError{Tool: tool, Message: msg}
	}
	return result, nil
}

// unmarshalText extracts Content[0].Text from a tool result and unmarshals it as JSON.
func unmarshalText[T any](result *client.ToolResult) (*T, error) {
	if len(result.Content) == 0 {
		return nil, ErrNoContent
	}
	var v T
	if err := json.Unmarshal([]byte(result.Content[0].Text), &v); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &v, nil
}
