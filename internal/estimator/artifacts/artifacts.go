// Package artifacts loads the fitted model, scalers, label encoders and the
// brand/model catalog that the price estimator runs on. Everything is read
// once at startup and is immutable afterwards, so an *Artifacts value may be
// shared freely between concurrent job handlers.
package artifacts

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Artifact names, used in errors, logs and metrics.
const (
	NameModel         = "model"
	NameYearScaler    = "year_scaler"
	NameMileageScaler = "mileage_scaler"
	NameBrandEncoder  = "brand_encoder"
	NameModelEncoder  = "model_encoder"
	NamePriceScaler   = "price_scaler"
	NameCatalog       = "catalog"
)

// ErrUnknownCategory is returned by a LabelEncoder for labels it was not fitted on.
var ErrUnknownCategory = errors.New("unknown category")

// Scaler is a fitted one-dimensional numeric transform.
type Scaler interface {
	Transform(x float64) float64
	InverseTransform(y float64) float64
}

// LabelEncoder maps a fitted vocabulary of labels to integer codes.
type LabelEncoder interface {
	Transform(label string) (int, error)
	Classes() []string
}

// Regressor is a trained model over a fixed, named feature schema.
type Regressor interface {
	FeatureNames() []string
	Predict(row []float64) (float64, error)
}

// Artifacts is the read-only bundle the estimator needs.
type Artifacts struct {
	Model         Regressor
	YearScaler    Scaler
	MileageScaler Scaler
	BrandEncoder  LabelEncoder
	ModelEncoder  LabelEncoder
	PriceScaler   Scaler
	Catalog       *Catalog

	// Fingerprint is a sha256 over the model and transformer files.
	Fingerprint string
	LoadedAt    time.Time
}

// LoadError reports one artifact that could not be loaded.
type LoadError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load artifact %s: %v", e.Artifact, e.Err)
	}
	return fmt.Sprintf("load artifact %s from %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err carries at least one LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// LoadErrors flattens a combined load error into its parts.
func LoadErrors(err error) []*LoadError {
	var out []*LoadError
	for _, e := range multierr.Errors(err) {
		var le *LoadError
		if errors.As(e, &le) {
			out = append(out, le)
		}
	}
	return out
}
