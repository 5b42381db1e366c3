package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/loadline/pkg/storage"
)

// loadServices wires the services for an initialized workspace.
func loadServices(root string) (*wiring.AppServices, error) {
	if !storage.NewFilesystemRepository(root).IsInitialized() {
		return nil, NewCLIError(
			fmt.Sprintf("no loadline workspace in %s", root),
			"Run 'loadline init' (or 'loadline init --sample') first",
			nil,
		)
	}
	services, err := wiring.BuildAppServices(root)
	if err != nil {
		return nil, NewCLIError("failed to build services", "Check .loadline/config.yaml or run 'loadline config show'", err)
	}
	return services, nil
}

// getProjectRoot resolves --project, falling back to the working directory.
func getProjectRoot() (string, error) {
	if projectPath == "" {
		return os.Getwd()
	}
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
	}
	info, err := os.Stat(abs)
	switch {
	case err != nil:
		return "", fmt.Errorf("project path %q: %w", abs, err)
	case !info.IsDir():
		return "", fmt.Errorf("project path %q is not a directory", abs)
	}
	return abs, nil
}

func loadServicesForCurrentDir() (*wiring.AppServices, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	return loadServices(root)
}
