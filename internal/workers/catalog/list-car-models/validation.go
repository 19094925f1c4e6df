package listcarmodels

import "carprice-workers/internal/common/validation"

var InputVariables = []string{"brand"}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"brand": {
				Type:        "string",
				Description: "Brand whose models are requested; omit for the brand list",
				MaxLength:   intPtr(100),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"defaults"},
		Properties: map[string]validation.Property{
			"brands":     {Type: "array", Description: "Brands in catalog order", Items: &validation.Property{Type: "string"}},
			"brand":      {Type: "string", Description: "Requested brand"},
			"knownBrand": {Type: "boolean", Description: "Whether the brand is in the catalog"},
			"models":     {Type: "array", Description: "Models of brand in catalog order", Items: &validation.Property{Type: "string"}},
			"defaults": {
				Type:        "object",
				Description: "Initial form selection",
				Required:    []string{"year", "brand", "model", "mileage", "documentType", "transmission", "fuel"},
				Properties: map[string]validation.Property{
					"year":         {Type: "integer"},
					"brand":        {Type: "string"},
					"model":        {Type: "string"},
					"mileage":      {Type: "integer"},
					"documentType": {Type: "string"},
					"transmission": {Type: "string"},
					"fuel":         {Type: "string"},
				},
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
