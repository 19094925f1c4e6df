// Package predictor runs the regression model on an encoded record and maps
// its output back to a price.
package predictor

import (
	"fmt"
	"math"

	"carprice-workers/internal/estimator/artifacts"
	"carprice-workers/internal/models"
)

// Prediction stages, reported in PredictionError.
const (
	StageSchema           = "schema"
	StageModel            = "model"
	StageInverseTransform = "inverse_transform"
)

type PredictionError struct {
	Stage string
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed at %s: %v", e.Stage, e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// Predict returns the price in the price scaler's original units. The
// record's columns must equal the model's trained feature names, in order.
func Predict(record models.FeatureRecord, a *artifacts.Artifacts) (float64, error) {
	if err := checkSchema(a.Model.FeatureNames(), record.Columns()); err != nil {
		return 0, &PredictionError{Stage: StageSchema, Err: err}
	}

	raw, err := a.Model.Predict(record.Values())
	if err != nil {
		return 0, &PredictionError{Stage: StageModel, Err: err}
	}
	if !finite(raw) {
		return 0, &PredictionError{Stage: StageModel, Err: fmt.Errorf("model returned %v", raw)}
	}

	price := a.PriceScaler.InverseTransform(raw)
	if !finite(price) {
		return 0, &PredictionError{Stage: StageInverseTransform, Err: fmt.Errorf("price scaler returned %v", price)}
	}
	return price, nil
}

func checkSchema(trained, columns []string) error {
	if len(trained) != len(columns) {
		return fmt.Errorf("model expects %d features, record has %d", len(trained), len(columns))
	}
	for i := range trained {
		if trained[i] != columns[i] {
			return fmt.Errorf("feature %d: model expects %q, record has %q", i, trained[i], columns[i])
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
