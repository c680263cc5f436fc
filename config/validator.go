package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/c360/biznet/component"
)

// ComponentRegistry defines the interface needed for schema validation.
// This allows dependency injection and testing.
type ComponentRegistry interface {
	GetComponentSchema(componentType string) (component.ConfigSchema, error)
}

// Validator checks component configurations against their registered
// schemas before they are applied.
type Validator struct {
	logger *slog.Logger
}

// NewValidator creates a schema validator.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// ValidateWithSchema validates component configuration against its schema.
// Returns validation errors if the config doesn't meet schema requirements.
func (v *Validator) ValidateWithSchema(
	ctx context.Context,
	registry ComponentRegistry,
	componentType string,
	config map[string]any,
) []component.ValidationError {
	select {
	case <-ctx.Done():
		return []component.ValidationError{{Field: "context", Message: "validation cancelled"}}
	default:
	}

	if registry == nil {
		v.logger.Warn("Registry is nil, skipping schema validation", "component_type", componentType)
		return nil
	}

	schema, err := registry.GetComponentSchema(componentType)
	if err != nil {
		// Component type not found or error retrieving schema. Log but
		// don't fail validation (backward compatibility).
		v.logger.Warn("Failed to get component schema for validation",
			"component_type", componentType,
			"error", err)
		return nil
	}

	if len(schema.Properties) == 0 {
		v.logger.Debug("Component has no schema defined, skipping validation",
			"component_type", componentType)
		return nil
	}

	validationErrors := component.ValidateConfig(config, schema)

	if len(validationErrors) > 0 {
		v.logger.Info("Configuration validation failed",
			"component_type", componentType,
			"error_count", len(validationErrors))
	}

	return validationErrors
}

// ValidateComponentConfig validates a component configuration from its raw
// JSON form. This is a convenience method that handles unmarshaling.
func (v *Validator) ValidateComponentConfig(
	ctx context.Context,
	registry ComponentRegistry,
	componentType string,
	configJSON json.RawMessage,
) []component.ValidationError {
	var config map[string]any
	if err := json.Unmarshal(configJSON, &config); err != nil {
		return []component.ValidationError{
			{
				Field:   "",
				Message: fmt.Sprintf("Invalid JSON configuration: %v", err),
				Code:    "type",
			},
		}
	}

	return v.ValidateWithSchema(ctx, registry, componentType, config)
}
