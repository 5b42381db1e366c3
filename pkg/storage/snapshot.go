package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// SnapshotSchemaJSON describes the file accepted by ImportSnapshot callers.
const SnapshotSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "loadline snapshot",
  "type": "object",
  "properties": {
    "resources": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "id": { "type": "string" },
          "name": { "type": "string", "minLength": 1 },
          "role": { "type": "string" },
          "skills": { "type": "array", "items": { "type": "string" } }
        }
      }
    },
    "allocations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["resourceId", "projectId", "startDate", "endDate", "utilizationPercent"],
        "properties": {
          "id": { "type": "string" },
          "resourceId": { "type": "string", "minLength": 1 },
          "projectId": { "type": "string", "minLength": 1 },
          "projectName": { "type": "string" },
          "startDate": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}" },
          "endDate": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}" },
          "utilizationPercent": { "type": "integer", "minimum": 0 }
        }
      }
    },
    "capacity": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["resourceId", "year", "month"],
        "properties": {
          "resourceId": { "type": "string", "minLength": 1 },
          "year": { "type": "integer" },
          "month": { "type": "integer", "minimum": 1, "maximum": 12 },
          "availableCapacityPercent": { "type": "integer" },
          "plannedTimeOffPercent": { "type": "integer" }
        }
      }
    }
  }
}`

var snapshotSchemaLoader = gojsonschema.NewStringLoader(SnapshotSchemaJSON)

type snapshotDoc struct {
	Resources   []capacity.Resource   `json:"resources"`
	Allocations []capacity.Allocation `json:"allocations"`
	Capacity    []capacitySettingDoc  `json:"capacity"`
}

// capacitySettingDoc distinguishes an omitted available capacity from 0.
type capacitySettingDoc struct {
	ResourceID               string `json:"resourceId"`
	Year                     int    `json:"year"`
	Month                    int    `json:"month"`
	AvailableCapacityPercent *int   `json:"availableCapacityPercent"`
	PlannedTimeOffPercent    int    `json:"plannedTimeOffPercent"`
}

// DecodeSnapshot validates a JSON snapshot against the schema, assigns
// uuids to resources and allocations without an id, and checks each record.
func DecodeSnapshot(data []byte) (capacity.Snapshot, error) {
	result, err := gojsonschema.Validate(snapshotSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return capacity.Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return capacity.Snapshot{}, fmt.Errorf("snapshot does not match schema: %s", strings.Join(issues, "; "))
	}

	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return capacity.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	snap := capacity.Snapshot{
		Resources:   nonNil(doc.Resources),
		Allocations: nonNil(doc.Allocations),
		Capacity:    make([]capacity.CapacitySetting, 0, len(doc.Capacity)),
	}
	for i := range snap.Resources {
		if snap.Resources[i].ID == "" {
			snap.Resources[i].ID = uuid.NewString()
		}
	}
	for i := range snap.Allocations {
		a := &snap.Allocations[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if err := a.Validate(); err != nil {
			return capacity.Snapshot{}, err
		}
	}
	for _, c := range doc.Capacity {
		setting := capacity.CapacitySetting{
			ResourceID:               c.ResourceID,
			Year:                     c.Year,
			Month:                    c.Month,
			AvailableCapacityPercent: capacity.DefaultAvailableCapacity,
			PlannedTimeOffPercent:    c.PlannedTimeOffPercent,
		}
		if c.AvailableCapacityPercent != nil {
			setting.AvailableCapacityPercent = *c.AvailableCapacityPercent
		}
		if err := setting.Validate(); err != nil {
			return capacity.Snapshot{}, err
		}
		snap.Capacity = append(snap.Capacity, setting)
	}
	return snap, nil
}
