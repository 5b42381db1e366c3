package wiring

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/logging"
	"github.com/felixgeelhaar/loadline/pkg/application"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace   *Workspace
	Logger      zerolog.Logger
	Utilization *application.UtilizationService
}

// BuildAppServices constructs the services for a repo root, logging to stderr.
func BuildAppServices(root string) (*AppServices, error) {
	return BuildAppServicesWithLog(root, nil)
}

// BuildAppServicesWithLog is BuildAppServices with an explicit log destination.
func BuildAppServicesWithLog(root string, logOut io.Writer) (*AppServices, error) {
	workspace, err := NewWorkspace(root)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(workspace.Config.Log, logOut)
	if err != nil {
		_ = workspace.Close()
		return nil, err
	}

	fc := workspace.Config.Forecast
	utilization := application.NewUtilizationService(workspace.Provider, application.UtilizationOptions{
		DefaultMonths: fc.DefaultMonths,
		Workers:       fc.Workers,
		FetchTimeout:  fc.FetchTimeout.Duration,
		Clock:         time.Now,
	}, logger.With().Str("component", "utilization").Logger())

	return &AppServices{
		Workspace:   workspace,
		Logger:      logger,
		Utilization: utilization,
	}, nil
}

// Close releases resources held by the services.
func (s *AppServices) Close() error {
	return s.Workspace.Close()
}
