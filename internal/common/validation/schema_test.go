package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func vehicleSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"year", "brand"},
		Properties: map[string]Property{
			"year":    {Type: "integer", Minimum: floatPtr(1970), Maximum: floatPtr(2025)},
			"brand":   {Type: "string", MinLength: intPtr(1), MaxLength: intPtr(10)},
			"mileage": {Type: "number", Minimum: floatPtr(0)},
			"fuel":    {Type: "string", Enum: []string{"Gasoline", "Diesel"}},
		},
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		wantField string
		wantCode  string
	}{
		{
			name:      "valid with float-encoded integer",
			input:     map[string]interface{}{"year": float64(2018), "brand": "Toyota", "mileage": 85000.0},
			wantValid: true,
		},
		{
			name:      "valid with int",
			input:     map[string]interface{}{"year": 2018, "brand": "Toyota"},
			wantValid: true,
		},
		{
			name:      "missing required",
			input:     map[string]interface{}{"year": 2018.0},
			wantField: "brand",
			wantCode:  "REQUIRED_FIELD_MISSING",
		},
		{
			name:      "fractional year",
			input:     map[string]interface{}{"year": 2018.5, "brand": "Toyota"},
			wantField: "year",
			wantCode:  "INVALID_TYPE",
		},
		{
			name:      "year as string",
			input:     map[string]interface{}{"year": "2018", "brand": "Toyota"},
			wantField: "year",
			wantCode:  "INVALID_TYPE",
		},
		{
			name:      "year below minimum",
			input:     map[string]interface{}{"year": 1950.0, "brand": "Toyota"},
			wantField: "year",
			wantCode:  "MINIMUM_VIOLATION",
		},
		{
			name:      "year above maximum",
			input:     map[string]interface{}{"year": 2030.0, "brand": "Toyota"},
			wantField: "year",
			wantCode:  "MAXIMUM_VIOLATION",
		},
		{
			name:      "negative mileage",
			input:     map[string]interface{}{"year": 2018.0, "brand": "Toyota", "mileage": -1.0},
			wantField: "mileage",
			wantCode:  "MINIMUM_VIOLATION",
		},
		{
			name:      "empty brand",
			input:     map[string]interface{}{"year": 2018.0, "brand": ""},
			wantField: "brand",
			wantCode:  "MIN_LENGTH_VIOLATION",
		},
		{
			name:      "brand too long",
			input:     map[string]interface{}{"year": 2018.0, "brand": "Mercedes-Benz AMG"},
			wantField: "brand",
			wantCode:  "MAX_LENGTH_VIOLATION",
		},
		{
			name:      "enum mismatch",
			input:     map[string]interface{}{"year": 2018.0, "brand": "Toyota", "fuel": "Steam"},
			wantField: "fuel",
			wantCode:  "INVALID_ENUM_VALUE",
		},
		{
			name:      "extra field rejected",
			input:     map[string]interface{}{"year": 2018.0, "brand": "Toyota", "color": "red"},
			wantField: "color",
			wantCode:  "EXTRA_FIELD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, vehicleSchema())
			assert.Equal(t, tt.wantValid, result.Valid, result.GetErrorMessages())
			if tt.wantValid {
				return
			}
			require.True(t, result.HasErrors(tt.wantField))
			assert.Equal(t, tt.wantCode, result.GetErrorsForField(tt.wantField)[0].Code)
		})
	}
}

func TestValidateInput_NestedAndArrays(t *testing.T) {
	schema := JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"brands": {Type: "array", Items: &Property{Type: "string", MinLength: intPtr(1)}},
			"defaults": {
				Type:       "object",
				Required:   []string{"year"},
				Properties: map[string]Property{"year": {Type: "integer"}},
			},
		},
	}

	result := ValidateInput(map[string]interface{}{
		"brands":   []interface{}{"Toyota", ""},
		"defaults": map[string]interface{}{"brand": "Toyota"},
	}, schema)

	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("brands.1"))
	assert.True(t, result.HasErrors("defaults.year"))
	assert.False(t, result.HasErrors("defaults.brand"))
	assert.Len(t, result.GetErrorsForField("brands"), 1)
	assert.Equal(t, "MIN_LENGTH_VIOLATION", result.GetErrorsForField("brands")[0].Code)
	assert.Equal(t, "REQUIRED_FIELD_MISSING", result.GetErrorsForField("defaults")[0].Code)
}

func TestValidateInput_AdditionalProperties(t *testing.T) {
	schema := JSONSchema{
		Type:                 "object",
		Properties:           map[string]Property{"brand": {Type: "string"}},
		AdditionalProperties: true,
	}

	result := ValidateInput(map[string]interface{}{"brand": "Toyota", "color": "red"}, schema)
	assert.True(t, result.Valid, result.GetErrorMessages())

	schema.AdditionalProperties = false
	result = ValidateInput(map[string]interface{}{"brand": "Toyota", "color": "red"}, schema)
	assert.False(t, result.Valid)
	require.True(t, result.HasErrors("color"))
	assert.Equal(t, "EXTRA_FIELD", result.GetErrorsForField("color")[0].Code)
}

func TestValidateInput_InvalidSchema(t *testing.T) {
	schema := JSONSchema{
		Type:       "object",
		Properties: map[string]Property{"brand": {Type: "text"}},
	}

	result := ValidateInput(map[string]interface{}{"brand": "Toyota"}, schema)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "INVALID_SCHEMA", result.Errors[0].Code)
}

func TestValidationResult_GetErrorMessages(t *testing.T) {
	result := ValidateInput(map[string]interface{}{"year": 2018.0}, vehicleSchema())
	require.Len(t, result.GetErrorMessages(), 1)
	assert.Contains(t, result.GetErrorMessages()[0], "brand: ")
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("pricing.car.estimate"))
	assert.NoError(t, ValidateActivityNaming("catalog.car.models"))
	assert.Error(t, ValidateActivityNaming("estimate-car-price"))
	assert.Error(t, ValidateActivityNaming("Pricing.Car.Estimate"))
}

func TestGetSchemaFromJSON(t *testing.T) {
	schema, err := GetSchemaFromJSON(`{"type":"object","required":["brand"],"properties":{"brand":{"type":"string","maxLength":100}}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"brand"}, schema.Required)
	assert.Equal(t, 100, *schema.Properties["brand"].MaxLength)

	_, err = GetSchemaFromJSON(`{`)
	assert.Error(t, err)
}
