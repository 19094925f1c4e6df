package predictor

import (
	"errors"
	"math"
	"testing"

	"carprice-workers/internal/estimator/artifacts"
	"carprice-workers/internal/estimator/artifacts/artifactstest"
	"carprice-workers/internal/estimator/features"
	"carprice-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corolla() models.RawInput {
	return models.RawInput{
		Year:         2013,
		Brand:        "Toyota",
		Model:        "Corolla",
		Mileage:      100000,
		Documents:    models.DocumentStandardCard,
		Transmission: models.TransmissionManual,
		Fuel:         models.FuelGasoline,
	}
}

type stubModel struct {
	names []string
	out   float64
	err   error
}

func (m stubModel) FeatureNames() []string             { return m.names }
func (m stubModel) Predict([]float64) (float64, error) { return m.out, m.err }

type nanScaler struct{}

func (nanScaler) Transform(x float64) float64        { return x }
func (nanScaler) InverseTransform(float64) float64 { return math.NaN() }

func TestPredict(t *testing.T) {
	a := artifactstest.New()

	tests := []struct {
		name  string
		brand string
		want  float64
	}{
		{name: "known vehicle", brand: "Toyota", want: 25.3},
		{name: "unknown brand still predicts", brand: "Unobtainium", want: 24.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := corolla()
			raw.Brand = tt.brand

			price, err := Predict(features.Encode(raw, a).Record, a)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, price, 1e-9)
		})
	}
}

func TestPredict_Deterministic(t *testing.T) {
	a := artifactstest.New()
	record := features.Encode(corolla(), a).Record

	first, err := Predict(record, a)
	require.NoError(t, err)
	second, err := Predict(features.Encode(corolla(), a).Record, a)
	require.NoError(t, err)

	assert.Equal(t, math.Float64bits(first), math.Float64bits(second))
}

func TestPredict_Failures(t *testing.T) {
	swapped := models.FeatureColumns()
	swapped[0], swapped[1] = swapped[1], swapped[0]

	tests := []struct {
		name      string
		modify    func(a *artifacts.Artifacts)
		wantStage string
	}{
		{
			name:      "columns out of order",
			modify:    func(a *artifacts.Artifacts) { a.Model = stubModel{names: swapped} },
			wantStage: StageSchema,
		},
		{
			name:      "missing column",
			modify:    func(a *artifacts.Artifacts) { a.Model = stubModel{names: models.FeatureColumns()[:9]} },
			wantStage: StageSchema,
		},
		{
			name: "model error",
			modify: func(a *artifacts.Artifacts) {
				a.Model = stubModel{names: models.FeatureColumns(), err: errors.New("bad row")}
			},
			wantStage: StageModel,
		},
		{
			name: "model returns infinity",
			modify: func(a *artifacts.Artifacts) {
				a.Model = stubModel{names: models.FeatureColumns(), out: math.Inf(1)}
			},
			wantStage: StageModel,
		},
		{
			name:      "inverse transform not finite",
			modify:    func(a *artifacts.Artifacts) { a.PriceScaler = nanScaler{} },
			wantStage: StageInverseTransform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := artifactstest.New()
			tt.modify(a)

			_, err := Predict(features.Encode(corolla(), a).Record, a)
			require.Error(t, err)

			var pe *PredictionError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantStage, pe.Stage)
		})
	}
}
