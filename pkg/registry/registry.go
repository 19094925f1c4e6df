// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"carprice-workers/internal/common/validation"

	"go.uber.org/multierr"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, creating the directory if needed.
func Save(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Find returns the activity with the given task type.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Add appends activity; IDs must be unique.
func (r *ActivityRegistry) Add(activity Activity) error {
	for _, existing := range r.Activities {
		if existing.ID == activity.ID {
			return fmt.Errorf("activity with ID %s already exists", activity.ID)
		}
	}
	r.Activities = append(r.Activities, activity)
	r.touch()
	return nil
}

// Update sets one scalar field of the activity with the given ID.
func (r *ActivityRegistry) Update(id, field, value string) error {
	var activity *Activity
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			activity = &r.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "taskType":
		activity.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	r.touch()
	return nil
}

func (r *ActivityRegistry) touch() {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}

// Validate reports every problem in the registry, not just the first.
// Each task type in required must have an activity.
func (r *ActivityRegistry) Validate(required ...string) error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	var errs error
	ids := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("activity missing required field: ID"))
			continue
		}
		if ids[activity.ID] {
			errs = multierr.Append(errs, fmt.Errorf("duplicate activity ID: %s", activity.ID))
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			errs = multierr.Append(errs, fmt.Errorf("activity %s missing required field: DisplayName", activity.ID))
		}
		if activity.Category == "" {
			errs = multierr.Append(errs, fmt.Errorf("activity %s missing required field: Category", activity.ID))
		}
		if activity.TaskType == "" {
			errs = multierr.Append(errs, fmt.Errorf("activity %s missing required field: TaskType", activity.ID))
		} else if err := validation.ValidateActivityNaming(activity.TaskType); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("activity %s: %w", activity.ID, err))
		}
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("activity %s: invalid timeout %q", activity.ID, activity.Timeout))
			}
		}
	}

	for _, taskType := range required {
		if _, ok := r.Find(taskType); !ok {
			errs = multierr.Append(errs, fmt.Errorf("no activity registered for task type %s", taskType))
		}
	}
	return errs
}
