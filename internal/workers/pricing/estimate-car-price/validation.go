package estimatecarprice

import "carprice-workers/internal/common/validation"

// InputVariables are fetched from the process scope for each job.
var InputVariables = []string{"year", "brand", "model", "mileage", "documentType", "transmission", "fuel", "requestId"}

// GetInputSchema checks shapes and ranges. Enum labels are parsed by the
// service since several form labels map to each code.
func GetInputSchema(cfg *Config) validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"year", "brand", "model", "mileage", "documentType", "transmission", "fuel"},
		Properties: map[string]validation.Property{
			"year": {
				Type:        "integer",
				Description: "Model year",
				Minimum:     floatPtr(float64(cfg.MinYear)),
				Maximum:     floatPtr(float64(cfg.MaxYear)),
			},
			"brand": {
				Type:        "string",
				Description: "Manufacturer as listed in the catalog",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(100),
			},
			"model": {
				Type:        "string",
				Description: "Model name",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(100),
			},
			"mileage": {
				Type:        "integer",
				Description: "Odometer reading in kilometres",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(float64(cfg.MaxMileage)),
			},
			"documentType": {
				Type:        "string",
				Description: "Registration papers",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(50),
			},
			"transmission": {
				Type:        "string",
				Description: "Gearbox type",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(50),
			},
			"fuel": {
				Type:        "string",
				Description: "Fuel type",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(50),
			},
			"requestId": {
				Type:        "string",
				Description: "Caller correlation id",
				MaxLength:   intPtr(100),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"estimateId", "price", "priceFormatted", "priceUnit", "brand", "model", "year", "artifactFingerprint", "cached", "estimatedAt"},
		Properties: map[string]validation.Property{
			"estimateId":          {Type: "string", Description: "Unique estimate identifier"},
			"requestId":           {Type: "string", Description: "Echo of the caller correlation id"},
			"price":               {Type: "number", Description: "Estimated price in priceUnit"},
			"priceFormatted":      {Type: "string", Description: "Rounded display price with unit"},
			"priceUnit":           {Type: "string", Description: "Unit of price"},
			"brand":               {Type: "string", Description: "Brand as entered"},
			"model":               {Type: "string", Description: "Model as entered"},
			"year":                {Type: "integer", Description: "Year as entered"},
			"artifactFingerprint": {Type: "string", Description: "Fingerprint of the model bundle used"},
			"cached":              {Type: "boolean", Description: "Whether the price came from the cache"},
			"estimatedAt":         {Type: "string", Description: "RFC 3339 timestamp"},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}
