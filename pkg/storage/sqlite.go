package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// SQLiteStore serves planning records from an SQLite database.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates it to the latest schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	// One connection keeps PRAGMA foreign_keys in effect for every query.
	conn.SetMaxOpenConns(1)

	if err := Migrate(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// inClause renders "col IN (?,?,...)" for a non-empty id list.
func inClause(column string, ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ",")), args
}

func (s *SQLiteStore) ListResources(ctx context.Context, ids []string) ([]capacity.Resource, error) {
	query := `SELECT id, name, role FROM resources`
	var args []any
	if len(ids) > 0 {
		clause, inArgs := inClause("id", ids)
		query += " WHERE " + clause
		args = inArgs
	}
	query += " ORDER BY rowid"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	resources := make([]capacity.Resource, 0)
	index := make(map[string]int)
	for rows.Next() {
		var r capacity.Resource
		if err := rows.Scan(&r.ID, &r.Name, &r.Role); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		r.Skills = []string{}
		index[r.ID] = len(resources)
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resources: %w", err)
	}
	if len(resources) == 0 {
		return resources, nil
	}

	skillQuery := `SELECT resource_id, skill FROM resource_skills`
	var skillArgs []any
	if len(ids) > 0 {
		clause, inArgs := inClause("resource_id", ids)
		skillQuery += " WHERE " + clause
		skillArgs = inArgs
	}
	skillQuery += " ORDER BY resource_id, position"

	skillRows, err := s.conn.QueryContext(ctx, skillQuery, skillArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var resourceID, skill string
		if err := skillRows.Scan(&resourceID, &skill); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		if i, ok := index[resourceID]; ok {
			resources[i].Skills = append(resources[i].Skills, skill)
		}
	}
	if err := skillRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skills: %w", err)
	}
	return resources, nil
}

func (s *SQLiteStore) ListAllocations(ctx context.Context, resourceIDs []string, window capacity.DateRange) ([]capacity.Allocation, error) {
	query := `SELECT id, resource_id, project_id, project_name, start_date, end_date, utilization_percent
		FROM allocations WHERE start_date <= ? AND end_date >= ?`
	args := []any{window.End.String(), window.Start.String()}
	if len(resourceIDs) > 0 {
		clause, inArgs := inClause("resource_id", resourceIDs)
		query += " AND " + clause
		args = append(args, inArgs...)
	}
	query += " ORDER BY rowid"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	allocations := make([]capacity.Allocation, 0)
	for rows.Next() {
		var (
			a          capacity.Allocation
			start, end string
		)
		if err := rows.Scan(&a.ID, &a.ResourceID, &a.ProjectID, &a.ProjectName, &start, &end, &a.UtilizationPercent); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		if a.StartDate, err = capacity.ParseDate(start); err != nil {
			return nil, fmt.Errorf("allocation %s: %w", a.ID, err)
		}
		if a.EndDate, err = capacity.ParseDate(end); err != nil {
			return nil, fmt.Errorf("allocation %s: %w", a.ID, err)
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read allocations: %w", err)
	}
	return allocations, nil
}

func (s *SQLiteStore) ListCapacitySettings(ctx context.Context, resourceIDs []string, window capacity.YearMonthRange) ([]capacity.CapacitySetting, error) {
	query := `SELECT resource_id, year, month, available_capacity_percent, planned_time_off_percent
		FROM capacity_settings WHERE (year * 12 + month - 1) BETWEEN ? AND ?`
	args := []any{window.From.Index(), window.To.Index()}
	if len(resourceIDs) > 0 {
		clause, inArgs := inClause("resource_id", resourceIDs)
		query += " AND " + clause
		args = append(args, inArgs...)
	}
	query += " ORDER BY resource_id, year, month"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query capacity settings: %w", err)
	}
	defer rows.Close()

	settings := make([]capacity.CapacitySetting, 0)
	for rows.Next() {
		var c capacity.CapacitySetting
		if err := rows.Scan(&c.ResourceID, &c.Year, &c.Month, &c.AvailableCapacityPercent, &c.PlannedTimeOffPercent); err != nil {
			return nil, fmt.Errorf("failed to scan capacity setting: %w", err)
		}
		settings = append(settings, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read capacity settings: %w", err)
	}
	return settings, nil
}

// ImportSnapshot upserts every record of the snapshot in one transaction.
func (s *SQLiteStore) ImportSnapshot(ctx context.Context, snap capacity.Snapshot) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range snap.Resources {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO resources (id, name, role) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, role = excluded.role`,
			r.ID, r.Name, r.Role); err != nil {
			return fmt.Errorf("failed to save resource %s: %w", r.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM resource_skills WHERE resource_id = ?`, r.ID); err != nil {
			return fmt.Errorf("failed to clear skills of %s: %w", r.ID, err)
		}
		for i, skill := range r.Skills {
			if _, err := tx.ExecContext(ctx, `INSERT INTO resource_skills (resource_id, position, skill) VALUES (?, ?, ?)`,
				r.ID, i, skill); err != nil {
				return fmt.Errorf("failed to save skill of %s: %w", r.ID, err)
			}
		}
	}

	for _, a := range snap.Allocations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO allocations (id, resource_id, project_id, project_name, start_date, end_date, utilization_percent)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				resource_id = excluded.resource_id,
				project_id = excluded.project_id,
				project_name = excluded.project_name,
				start_date = excluded.start_date,
				end_date = excluded.end_date,
				utilization_percent = excluded.utilization_percent`,
			a.ID, a.ResourceID, a.ProjectID, a.ProjectName, a.StartDate.String(), a.EndDate.String(), a.UtilizationPercent); err != nil {
			return fmt.Errorf("failed to save allocation %s: %w", a.ID, err)
		}
	}

	for _, c := range snap.Capacity {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO capacity_settings (resource_id, year, month, available_capacity_percent, planned_time_off_percent)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(resource_id, year, month) DO UPDATE SET
				available_capacity_percent = excluded.available_capacity_percent,
				planned_time_off_percent = excluded.planned_time_off_percent`,
			c.ResourceID, c.Year, c.Month, c.AvailableCapacityPercent, c.PlannedTimeOffPercent); err != nil {
			return fmt.Errorf("failed to save capacity setting for %s: %w", c.ResourceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
