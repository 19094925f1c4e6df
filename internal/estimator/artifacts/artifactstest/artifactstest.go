// Package artifactstest provides a small, fully known artifact bundle for
// tests. The model is linear so expected prices can be worked out by hand.
package artifactstest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"carprice-workers/internal/estimator/artifacts"
	"carprice-workers/internal/models"
)

var (
	Brands = []string{"Dacia", "Hyundai", "Peugeot", "Renault", "Toyota", "Volkswagen"}
	Models = []string{"208", "Clio", "Corolla", "Golf", "Logan", "Yaris"}

	// Coefficients follow models.FeatureColumns order.
	Coefficients = []float64{0.5, 0.01, 0.02, -0.3, -0.2, -0.4, -0.1, -0.05, -0.15, -0.25}
)

const (
	Intercept = 0.1

	YearMean     = 2010.0
	YearScale    = 5.0
	MileageMean  = 150000.0
	MileageScale = 50000.0
	PriceMean    = 20.0
	PriceScale   = 10.0

	Fingerprint = "artifactstest"
)

// CatalogBrands is the catalog order, which is deliberately not sorted.
var CatalogBrands = []string{"Renault", "Peugeot", "Dacia", "Volkswagen", "Hyundai", "Toyota"}

var catalogModels = map[string][]string{
	"Renault":    {"Clio"},
	"Peugeot":    {"208"},
	"Dacia":      {"Logan"},
	"Volkswagen": {"Golf"},
	"Hyundai":    {},
	"Toyota":     {"Yaris", "Corolla"},
}

func Catalog() *artifacts.Catalog {
	return artifacts.NewCatalog(CatalogBrands, catalogModels)
}

// New returns the in-memory bundle.
func New() *artifacts.Artifacts {
	brands, err := artifacts.NewClassEncoder(Brands)
	if err != nil {
		panic(err)
	}
	modelEnc, err := artifacts.NewClassEncoder(Models)
	if err != nil {
		panic(err)
	}
	coef := make([]float64, len(Coefficients))
	copy(coef, Coefficients)

	return &artifacts.Artifacts{
		Model: &artifacts.LinearRegressor{
			Names:        models.FeatureColumns(),
			Coefficients: coef,
			Intercept:    Intercept,
		},
		YearScaler:    artifacts.StandardScaler{Mean: YearMean, Scale: YearScale},
		MileageScaler: artifacts.StandardScaler{Mean: MileageMean, Scale: MileageScale},
		BrandEncoder:  brands,
		ModelEncoder:  modelEnc,
		PriceScaler:   artifacts.StandardScaler{Mean: PriceMean, Scale: PriceScale},
		Catalog:       Catalog(),
		Fingerprint:   Fingerprint,
		LoadedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Files returns the bundle as file contents keyed by default file name.
func Files() map[string][]byte {
	catalog := []byte(`{"Renault":["Clio"],"Peugeot":["208"],"Dacia":["Logan"],` +
		`"Volkswagen":["Golf"],"Hyundai":[],"Toyota":["Yaris","Corolla"]}`)

	return map[string][]byte{
		"model.json": mustJSON(map[string]interface{}{
			"kind":          "linear",
			"feature_names": models.FeatureColumns(),
			"coefficients":  Coefficients,
			"intercept":     Intercept,
		}),
		"year_scaler.json":    mustJSON(map[string]interface{}{"kind": "standard", "mean": YearMean, "scale": YearScale}),
		"mileage_scaler.json": mustJSON(map[string]interface{}{"kind": "standard", "mean": MileageMean, "scale": MileageScale}),
		"brand_encoder.json":  mustJSON(map[string]interface{}{"kind": "label", "classes": Brands}),
		"model_encoder.json":  mustJSON(map[string]interface{}{"kind": "label", "classes": Models}),
		"price_scaler.json":   mustJSON(map[string]interface{}{"kind": "standard", "mean": PriceMean, "scale": PriceScale}),
		"brand_models.json":   catalog,
	}
}

// WriteFiles writes the bundle into dir and returns its paths.
func WriteFiles(t testing.TB, dir string) artifacts.Paths {
	t.Helper()
	for name, data := range Files() {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return artifacts.PathsFromDir(dir)
}

func mustJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
