package component

import (
	"encoding/json"
	"testing"
)

func TestValidateConfigRequiredFields(t *testing.T) {
	schema := ConfigSchema{
		Properties: map[string]PropertySchema{
			"nodes_bucket": {
				Type:     "string",
				Category: "basic",
			},
			"default_max_depth": {
				Type:     "int",
				Category: "basic",
			},
		},
		Required: []string{"nodes_bucket"},
	}

	tests := []struct {
		name       string
		config     map[string]any
		wantErrors int
		wantField  string
		wantCode   string
	}{
		{
			name:       "all required fields present",
			config:     map[string]any{"nodes_bucket": "BUSINESS_NODES"},
			wantErrors: 0,
		},
		{
			name:       "missing required field",
			config:     map[string]any{"default_max_depth": 3},
			wantErrors: 1,
			wantField:  "nodes_bucket",
			wantCode:   "required",
		},
		{
			name:       "empty config missing required",
			config:     map[string]any{},
			wantErrors: 1,
			wantField:  "nodes_bucket",
			wantCode:   "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateConfig(tt.config, schema)
			if len(errors) != tt.wantErrors {
				t.Fatalf("ValidateConfig() returned %d errors, want %d: %v", len(errors), tt.wantErrors, errors)
			}
			if tt.wantErrors > 0 {
				if errors[0].Field != tt.wantField {
					t.Errorf("error field = %q, want %q", errors[0].Field, tt.wantField)
				}
				if errors[0].Code != tt.wantCode {
					t.Errorf("error code = %q, want %q", errors[0].Code, tt.wantCode)
				}
			}
		})
	}
}

func TestValidateConfigMinMax(t *testing.T) {
	schema := ConfigSchema{
		Properties: map[string]PropertySchema{
			"default_max_depth": {
				Type:     "int",
				Minimum:  intPtr(1),
				Maximum:  intPtr(6),
				Category: "basic",
			},
			"neighbor_cap": {
				Type:     "int",
				Minimum:  intPtr(1),
				Category: "advanced",
			},
		},
	}

	tests := []struct {
		name     string
		config   map[string]any
		wantCode string
	}{
		{
			name:   "value within bounds",
			config: map[string]any{"default_max_depth": 3},
		},
		{
			name:   "value at minimum",
			config: map[string]any{"default_max_depth": 1},
		},
		{
			name:   "value at maximum",
			config: map[string]any{"default_max_depth": 6},
		},
		{
			name:     "value below minimum",
			config:   map[string]any{"default_max_depth": 0},
			wantCode: "min",
		},
		{
			name:     "value above maximum",
			config:   map[string]any{"default_max_depth": 9},
			wantCode: "max",
		},
		{
			name:   "json float64 within bounds",
			config: map[string]any{"default_max_depth": float64(4)},
		},
		{
			name:     "json float64 above maximum",
			config:   map[string]any{"default_max_depth": float64(7)},
			wantCode: "max",
		},
		{
			name:     "min-only bound violated",
			config:   map[string]any{"neighbor_cap": 0},
			wantCode: "min",
		},
		{
			name:   "min-only bound has no upper limit",
			config: map[string]any{"neighbor_cap": 100000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateConfig(tt.config, schema)
			if tt.wantCode == "" {
				if len(errors) != 0 {
					t.Fatalf("ValidateConfig() returned unexpected errors: %v", errors)
				}
				return
			}
			if len(errors) != 1 {
				t.Fatalf("ValidateConfig() returned %d errors, want 1: %v", len(errors), errors)
			}
			if errors[0].Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", errors[0].Code, tt.wantCode)
			}
		})
	}
}

func TestValidateConfigEnumValues(t *testing.T) {
	schema := ConfigSchema{
		Properties: map[string]PropertySchema{
			"size_class": {
				Type:     "string",
				Enum:     []string{"small", "medium", "large", "enterprise"},
				Category: "basic",
			},
		},
	}

	tests := []struct {
		name     string
		value    any
		wantCode string
	}{
		{name: "valid enum value", value: "medium"},
		{name: "another valid enum value", value: "enterprise"},
		{name: "invalid enum value", value: "gigantic", wantCode: "enum"},
		{name: "case sensitive mismatch", value: "Medium", wantCode: "enum"},
		{name: "non-string value", value: 42, wantCode: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateConfig(map[string]any{"size_class": tt.value}, schema)
			if tt.wantCode == "" {
				if len(errors) != 0 {
					t.Fatalf("ValidateConfig() returned unexpected errors: %v", errors)
				}
				return
			}
			if len(errors) == 0 {
				t.Fatal("ValidateConfig() returned no errors, want one")
			}
			if errors[0].Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", errors[0].Code, tt.wantCode)
			}
		})
	}
}

func TestValidateConfigTypeValidation(t *testing.T) {
	schema := ConfigSchema{
		Properties: map[string]PropertySchema{
			"nodes_bucket":  {Type: "string"},
			"neighbor_cap":  {Type: "int"},
			"cache_enabled": {Type: "bool"},
			"edge_weight":   {Type: "float"},
		},
	}

	tests := []struct {
		name    string
		config  map[string]any
		wantErr bool
	}{
		{name: "valid string", config: map[string]any{"nodes_bucket": "BUSINESS_NODES"}},
		{name: "string gets int", config: map[string]any{"nodes_bucket": 7}, wantErr: true},
		{name: "valid int", config: map[string]any{"neighbor_cap": 100}},
		{name: "int accepts json float64", config: map[string]any{"neighbor_cap": float64(100)}},
		{name: "int gets string", config: map[string]any{"neighbor_cap": "100"}, wantErr: true},
		{name: "valid bool", config: map[string]any{"cache_enabled": true}},
		{name: "bool gets string", config: map[string]any{"cache_enabled": "true"}, wantErr: true},
		{name: "valid float", config: map[string]any{"edge_weight": 0.41}},
		{name: "float accepts int", config: map[string]any{"edge_weight": 1}},
		{name: "float gets string", config: map[string]any{"edge_weight": "0.41"}, wantErr: true},
		{name: "unknown fields allowed", config: map[string]any{"future_field": "anything"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateConfig(tt.config, schema)
			if tt.wantErr && len(errors) == 0 {
				t.Error("ValidateConfig() returned no errors, want type error")
			}
			if !tt.wantErr && len(errors) != 0 {
				t.Errorf("ValidateConfig() returned unexpected errors: %v", errors)
			}
			if tt.wantErr && len(errors) > 0 && errors[0].Code != "type" {
				t.Errorf("error code = %q, want %q", errors[0].Code, "type")
			}
		})
	}
}

func TestValidateConfigMultipleErrors(t *testing.T) {
	schema := ConfigSchema{
		Properties: map[string]PropertySchema{
			"default_max_depth": {
				Type:    "int",
				Minimum: intPtr(1),
				Maximum: intPtr(6),
			},
			"size_class": {
				Type: "string",
				Enum: []string{"small", "medium", "large", "enterprise"},
			},
		},
		Required: []string{"nodes_bucket"},
	}

	config := map[string]any{
		"default_max_depth": 12,
		"size_class":        "colossal",
	}

	errors := ValidateConfig(config, schema)
	if len(errors) != 3 {
		t.Fatalf("ValidateConfig() returned %d errors, want 3: %v", len(errors), errors)
	}

	codes := make(map[string]bool)
	for _, e := range errors {
		codes[e.Code] = true
	}
	for _, want := range []string{"required", "max", "enum"} {
		if !codes[want] {
			t.Errorf("missing expected error code %q in %v", want, errors)
		}
	}
}

func TestGetPropertyValue(t *testing.T) {
	config := map[string]any{
		"nodes_bucket":      "BUSINESS_NODES",
		"default_max_depth": 3,
		"cache_enabled":     true,
	}

	tests := []struct {
		name       string
		config     map[string]any
		key        string
		wantValue  any
		wantExists bool
	}{
		{name: "existing string", config: config, key: "nodes_bucket", wantValue: "BUSINESS_NODES", wantExists: true},
		{name: "existing int", config: config, key: "default_max_depth", wantValue: 3, wantExists: true},
		{name: "existing bool", config: config, key: "cache_enabled", wantValue: true, wantExists: true},
		{name: "missing key", config: config, key: "neighbor_cap", wantValue: nil, wantExists: false},
		{name: "nil config", config: nil, key: "nodes_bucket", wantValue: nil, wantExists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, exists := GetPropertyValue(tt.config, tt.key)
			if exists != tt.wantExists {
				t.Errorf("GetPropertyValue() exists = %v, want %v", exists, tt.wantExists)
			}
			if value != tt.wantValue {
				t.Errorf("GetPropertyValue() value = %v, want %v", value, tt.wantValue)
			}
		})
	}
}

func TestValidationErrorStructure(t *testing.T) {
	ve := ValidationError{
		Field:   "default_max_depth",
		Message: `Field "default_max_depth" must be <= 6`,
		Code:    "max",
	}

	data, err := json.Marshal(ve)
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}

	if decoded["field"] != "default_max_depth" {
		t.Errorf("field = %q, want %q", decoded["field"], "default_max_depth")
	}
	if decoded["code"] != "max" {
		t.Errorf("code = %q, want %q", decoded["code"], "max")
	}
	if decoded["message"] == "" {
		t.Error("message should not be empty")
	}
}

// TestValidationErrorCodes verifies the stable machine-readable error codes
// that operators and tooling key on.
func TestValidationErrorCodes(t *testing.T) {
	schema := ConfigSchema{
		Properties: map[string]PropertySchema{
			"nodes_bucket": {Type: "string"},
			"default_max_depth": {
				Type:    "int",
				Minimum: intPtr(1),
				Maximum: intPtr(6),
			},
			"size_class": {
				Type: "string",
				Enum: []string{"small", "medium", "large", "enterprise"},
			},
		},
		Required: []string{"nodes_bucket"},
	}

	tests := []struct {
		name     string
		config   map[string]any
		wantCode string
	}{
		{name: "required code", config: map[string]any{}, wantCode: "required"},
		{name: "type code", config: map[string]any{"nodes_bucket": 7}, wantCode: "type"},
		{name: "min code", config: map[string]any{"nodes_bucket": "b", "default_max_depth": 0}, wantCode: "min"},
		{name: "max code", config: map[string]any{"nodes_bucket": "b", "default_max_depth": 7}, wantCode: "max"},
		{name: "enum code", config: map[string]any{"nodes_bucket": "b", "size_class": "huge"}, wantCode: "enum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateConfig(tt.config, schema)
			found := false
			for _, e := range errors {
				if e.Code == tt.wantCode {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error code %q not returned: %v", tt.wantCode, errors)
			}
		})
	}
}
