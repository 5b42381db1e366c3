package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/mcp-go/client"

	"github.com/felixgeelhaar/loadline/pkg/sdk"
)

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	t.Fatal("go.mod not found")
	return ""
}

// buildBinary compiles cmd/loadline into a temp dir.
func buildBinary(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "loadline")
	build := exec.Command("go", "build", "-o", bin, "./cmd/loadline")
	build.Dir = findRepoRoot(t)
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build loadline: %v\n%s", err, out)
	}
	return bin
}

func TestHappyPath(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	bin := buildBinary(t)
	workDir := t.TempDir()

	run := func(args ...string) string {
		cmd := exec.Command(bin, args...)
		cmd.Dir = workDir
		cmd.Env = append(os.Environ(), "LOADLINE_LOG_LEVEL=error")
		out, err := cmd.Output()
		if err != nil {
			t.Fatalf("loadline %v failed: %v\nOutput: %s", args, err, out)
		}
		return string(out)
	}

	out := run("init", "--sample")
	if !strings.Contains(out, "Initialized loadline workspace") {
		t.Errorf("unexpected init output: %s", out)
	}

	var forecast struct {
		Resources []struct {
			ResourceID string `json:"resourceId"`
			Status     string `json:"forecastStatus"`
		} `json:"resources"`
	}
	if err := json.Unmarshal([]byte(run("forecast", "--json")), &forecast); err != nil {
		t.Fatalf("forecast json: %v", err)
	}
	if len(forecast.Resources) != 4 {
		t.Fatalf("expected 4 sample resources, got %d", len(forecast.Resources))
	}

	out = run("bottlenecks")
	if !strings.Contains(out, "Ada") {
		t.Errorf("expected Ada among bottlenecks:\n%s", out)
	}

	out = run("balance")
	if !strings.Contains(out, "Grace") {
		t.Errorf("expected a transfer to Grace:\n%s", out)
	}

	cmd := exec.Command(bin, "forecast", "--start", "2025-06-01", "--end", "2025-01-01")
	cmd.Dir = workDir
	err := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 2 {
		t.Errorf("expected exit code 2 for an inverted range, got %v", err)
	}
}

func TestMCPOverStdio(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	bin := buildBinary(t)
	workDir := t.TempDir()

	initCmd := exec.Command(bin, "init", "--sample")
	initCmd.Dir = workDir
	if out, err := initCmd.CombinedOutput(); err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}

	shell := fmt.Sprintf("cd '%s' && LOADLINE_LOG_LEVEL=error '%s' mcp --transport stdio", workDir, bin)
	transport, err := client.NewStdioTransport("bash", "-lc", shell)
	if err != nil {
		t.Fatalf("stdio transport: %v", err)
	}
	c := sdk.NewClient(transport, sdk.WithTimeout(60*time.Second))
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	info, err := c.Initialize(ctx)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !info.Capabilities.Tools {
		t.Fatal("expected tools capability")
	}

	report, err := c.Forecast(ctx, sdk.Query{Months: 3})
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if len(report.Resources) != 4 || len(report.Months) != 4 {
		t.Errorf("unexpected forecast shape: %d resources, %d months", len(report.Resources), len(report.Months))
	}

	bottlenecks, err := c.Bottlenecks(ctx, sdk.Query{})
	if err != nil {
		t.Fatalf("bottlenecks: %v", err)
	}
	if len(bottlenecks.ResourceBottlenecks) == 0 {
		t.Error("expected resource bottlenecks in the sample team")
	}

	balance, err := c.Balance(ctx, sdk.Query{})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Summary.RecommendationCount == 0 {
		t.Error("expected balancing recommendations")
	}

	_, err = c.Forecast(ctx, sdk.Query{StartDate: "2025-06-01", EndDate: "2025-01-01"})
	var toolErr *sdk.ToolError
	if !errors.As(err, &toolErr) {
		t.Errorf("expected tool error for inverted range, got %v", err)
	}

	schema, err := c.SnapshotSchema(ctx)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(string(schema), "resources") {
		t.Errorf("schema does not describe resources: %s", schema)
	}
}
