package wiring

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/config"
	"github.com/felixgeelhaar/loadline/pkg/application"
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
	"github.com/felixgeelhaar/loadline/pkg/storage"
)

func TestBuildAppServicesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tempDir, ".loadline"), 0700); err != nil {
		t.Fatalf("mkdir loadline: %v", err)
	}

	services, err := BuildAppServicesWithLog(tempDir, io.Discard)
	if err != nil {
		t.Fatalf("build services failed: %v", err)
	}
	defer services.Close()

	if services.Workspace == nil || services.Utilization == nil {
		t.Fatalf("expected non-nil services, got %+v", services)
	}
	if _, ok := services.Workspace.Provider.(*storage.FilesystemRepository); !ok {
		t.Fatalf("expected filesystem provider, got %T", services.Workspace.Provider)
	}

	report, err := services.Utilization.Forecast(context.Background(), application.Query{})
	if err != nil {
		t.Fatalf("forecast on empty workspace: %v", err)
	}
	if len(report.Resources) != 0 || len(report.Months) != 7 {
		t.Errorf("unexpected empty-workspace forecast: %d resources, %d months", len(report.Resources), len(report.Months))
	}
}

func TestBuildAppServicesSQLite(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tempDir, ".loadline"), 0700); err != nil {
		t.Fatalf("mkdir loadline: %v", err)
	}
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendSQLite
	if err := config.SaveConfig(tempDir, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	services, err := BuildAppServicesWithLog(tempDir, io.Discard)
	if err != nil {
		t.Fatalf("build services failed: %v", err)
	}
	defer services.Close()

	store, ok := services.Workspace.Provider.(*storage.SQLiteStore)
	if !ok {
		t.Fatalf("expected sqlite provider, got %T", services.Workspace.Provider)
	}
	err = store.ImportSnapshot(context.Background(), capacity.Snapshot{
		Resources: []capacity.Resource{{ID: "r1", Name: "Ada"}},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, ".loadline", "loadline.db")); err != nil {
		t.Errorf("expected database file: %v", err)
	}
}

func TestBuildAppServicesInvalidConfig(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tempDir, ".loadline"), 0700); err != nil {
		t.Fatalf("mkdir loadline: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, ".loadline", "config.yaml"), []byte("log:\n  level: chatty\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := BuildAppServicesWithLog(tempDir, io.Discard); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}
