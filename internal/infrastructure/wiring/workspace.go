package wiring

import (
	"fmt"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/config"
	"github.com/felixgeelhaar/loadline/pkg/storage"
)

// Workspace bundles core infrastructure dependencies.
type Workspace struct {
	Root     string
	Repo     *storage.FilesystemRepository
	Config   *config.Config
	Provider storage.Provider

	close func() error
}

// NewWorkspace loads the workspace configuration and opens the configured
// storage backend.
func NewWorkspace(root string) (*Workspace, error) {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	repo := storage.NewFilesystemRepository(root)
	ws := &Workspace{
		Root:     root,
		Repo:     repo,
		Config:   cfg,
		Provider: repo,
		close:    func() error { return nil },
	}

	if cfg.Storage.Backend == config.BackendSQLite {
		store, err := storage.NewSQLiteStore(cfg.SQLitePath(root))
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		ws.Provider = store
		ws.close = store.Close
	}

	return ws, nil
}

// Close releases the storage backend.
func (w *Workspace) Close() error {
	return w.close()
}
