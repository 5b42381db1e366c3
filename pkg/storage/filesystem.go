package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

const WorkspaceDir = ".loadline"
const ConfigFile = "config.yaml"
const ResourcesFile = "resources.yaml"
const AllocationsFile = "allocations.yaml"
const CapacityFile = "capacity.yaml"
const DatabaseFile = "loadline.db"

// DataFiles lists the workspace files that feed a forecast.
var DataFiles = []string{ResourcesFile, AllocationsFile, CapacityFile}

type resourcesDoc struct {
	Resources []capacity.Resource `yaml:"resources"`
}

type allocationsDoc struct {
	Allocations []capacity.Allocation `yaml:"allocations"`
}

type capacityDoc struct {
	Capacity []capacity.CapacitySetting `yaml:"capacity"`
}

// FilesystemRepository keeps capacity records as YAML files under .loadline.
type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// Dir returns the .loadline directory.
func (r *FilesystemRepository) Dir() string {
	return filepath.Join(r.root, WorkspaceDir)
}

// ResolvePath ensures the path is within the .loadline directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := r.Dir()
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	// Only direct children of .loadline are allowed.
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	// G301: Use 0700 for directories
	if err := os.MkdirAll(r.Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", WorkspaceDir, err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(r.Dir())
	return err == nil
}

// loadYAML reads a workspace file with retry. A missing file yields the zero
// document.
func loadYAML[T any](ctx context.Context, r *FilesystemRepository, filename string) (T, error) {
	retryer := retry.New[T](r.retryConfig)

	return retryer.Do(ctx, func(ctx context.Context) (T, error) {
		var doc T
		path, err := r.ResolvePath(filename)
		if err != nil {
			return doc, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return doc, nil
			}
			return doc, fmt.Errorf("failed to read %s: %w", filename, err)
		}

		if err := yaml.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("failed to unmarshal %s: %w", filename, err)
		}
		return doc, nil
	})
}

func (r *FilesystemRepository) saveYAML(filename string, doc any) error {
	path, err := r.ResolvePath(filename)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filename, err)
	}

	// G306: Use 0600 for files
	return os.WriteFile(path, data, 0600)
}

// LoadResources reads .loadline/resources.yaml.
func (r *FilesystemRepository) LoadResources(ctx context.Context) ([]capacity.Resource, error) {
	doc, err := loadYAML[resourcesDoc](ctx, r, ResourcesFile)
	if err != nil {
		return nil, err
	}
	return nonNil(doc.Resources), nil
}

// SaveResources writes .loadline/resources.yaml.
func (r *FilesystemRepository) SaveResources(resources []capacity.Resource) error {
	return r.saveYAML(ResourcesFile, resourcesDoc{Resources: resources})
}

// LoadAllocations reads .loadline/allocations.yaml.
func (r *FilesystemRepository) LoadAllocations(ctx context.Context) ([]capacity.Allocation, error) {
	doc, err := loadYAML[allocationsDoc](ctx, r, AllocationsFile)
	if err != nil {
		return nil, err
	}
	return nonNil(doc.Allocations), nil
}

// SaveAllocations writes .loadline/allocations.yaml.
func (r *FilesystemRepository) SaveAllocations(allocations []capacity.Allocation) error {
	return r.saveYAML(AllocationsFile, allocationsDoc{Allocations: allocations})
}

// LoadCapacitySettings reads .loadline/capacity.yaml.
func (r *FilesystemRepository) LoadCapacitySettings(ctx context.Context) ([]capacity.CapacitySetting, error) {
	doc, err := loadYAML[capacityDoc](ctx, r, CapacityFile)
	if err != nil {
		return nil, err
	}
	return nonNil(doc.Capacity), nil
}

// SaveCapacitySettings writes .loadline/capacity.yaml.
func (r *FilesystemRepository) SaveCapacitySettings(settings []capacity.CapacitySetting) error {
	return r.saveYAML(CapacityFile, capacityDoc{Capacity: settings})
}

func (r *FilesystemRepository) ListResources(ctx context.Context, ids []string) ([]capacity.Resource, error) {
	resources, err := r.LoadResources(ctx)
	if err != nil {
		return nil, err
	}
	return FilterResources(resources, ids), nil
}

func (r *FilesystemRepository) ListAllocations(ctx context.Context, resourceIDs []string, window capacity.DateRange) ([]capacity.Allocation, error) {
	allocations, err := r.LoadAllocations(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAllocations(allocations, resourceIDs, window), nil
}

func (r *FilesystemRepository) ListCapacitySettings(ctx context.Context, resourceIDs []string, window capacity.YearMonthRange) ([]capacity.CapacitySetting, error) {
	settings, err := r.LoadCapacitySettings(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCapacitySettings(settings, resourceIDs, window), nil
}

// ImportSnapshot merges the snapshot into the workspace files. Records are
// matched by id (capacity settings by resource and month); matches are
// replaced, new records appended.
func (r *FilesystemRepository) ImportSnapshot(ctx context.Context, snap capacity.Snapshot) error {
	if err := r.Initialize(); err != nil {
		return err
	}

	resources, err := r.LoadResources(ctx)
	if err != nil {
		return err
	}
	if err := r.SaveResources(MergeResources(resources, snap.Resources)); err != nil {
		return err
	}

	allocations, err := r.LoadAllocations(ctx)
	if err != nil {
		return err
	}
	if err := r.SaveAllocations(MergeAllocations(allocations, snap.Allocations)); err != nil {
		return err
	}

	settings, err := r.LoadCapacitySettings(ctx)
	if err != nil {
		return err
	}
	return r.SaveCapacitySettings(MergeCapacitySettings(settings, snap.Capacity))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
