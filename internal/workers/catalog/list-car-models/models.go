package listcarmodels

import (
	"carprice-workers/internal/common/logger"
	"carprice-workers/internal/estimator/artifacts"
)

type Input struct {
	Brand string `json:"brand,omitempty"`
}

// Output carries either the brand list or one brand's models, plus the
// form's initial selection.
type Output struct {
	Brands     []string            `json:"brands,omitempty"`
	Brand      string              `json:"brand,omitempty"`
	KnownBrand bool                `json:"knownBrand"`
	Models     []string            `json:"models,omitempty"`
	Defaults   artifacts.Selection `json:"defaults"`
}

func (o *Output) Variables() map[string]interface{} {
	vars := map[string]interface{}{
		"defaults": map[string]interface{}{
			"year":         o.Defaults.Year,
			"brand":        o.Defaults.Brand,
			"model":        o.Defaults.Model,
			"mileage":      o.Defaults.Mileage,
			"documentType": string(o.Defaults.Documents),
			"transmission": string(o.Defaults.Transmission),
			"fuel":         string(o.Defaults.Fuel),
		},
	}
	if o.Brand == "" {
		vars["brands"] = nonNil(o.Brands)
		return vars
	}
	vars["brand"] = o.Brand
	vars["knownBrand"] = o.KnownBrand
	vars["models"] = nonNil(o.Models)
	return vars
}

// nonNil keeps empty lists as [] rather than null in process variables.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type ServiceDependencies struct {
	Logger  logger.Logger
	Catalog *artifacts.Catalog
}
