// Package sdk provides a typed Go client for the Loadline MCP server.
//
// The client wraps mcp-go/client.CallTool with one method per tool and
// retries failed calls via fortify.
//
// Usage:
//
//	transport, _ := client.NewStdioTransport("loadline", "mcp")
//	c := sdk.NewClient(transport)
//	defer c.Close()
//
//	_, _ = c.Initialize(ctx)
//	report, _ := c.Forecast(ctx, sdk.Query{Months: 3})
//	fmt.Println(report.Team.Forecast)
package sdk
