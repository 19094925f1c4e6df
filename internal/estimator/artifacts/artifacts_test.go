package artifacts

import (
	"errors"
	"fmt"
	"testing"

	"carprice-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestStandardScaler(t *testing.T) {
	s := StandardScaler{Mean: 2010, Scale: 5}
	assert.InDelta(t, 0.6, s.Transform(2013), 1e-12)
	assert.InDelta(t, 2013, s.InverseTransform(0.6), 1e-9)

	flat := StandardScaler{Mean: 3, Scale: 0}
	assert.Equal(t, 2.0, flat.Transform(5))
	assert.Equal(t, 5.0, flat.InverseTransform(2))
}

func TestMinMaxScaler(t *testing.T) {
	s := MinMaxScaler{Min: -0.5, Scale: 0.25}
	assert.Equal(t, 0.0, s.Transform(2))
	assert.Equal(t, 2.0, s.InverseTransform(0))
}

func TestDecodeScaler(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Scaler
		wantErr bool
	}{
		{name: "standard", data: `{"kind":"standard","mean":1,"scale":2}`, want: StandardScaler{Mean: 1, Scale: 2}},
		{name: "minmax", data: `{"kind":"minmax","min":0.5,"scale":0.1}`, want: MinMaxScaler{Min: 0.5, Scale: 0.1}},
		{name: "standard without mean", data: `{"kind":"standard","scale":2}`, wantErr: true},
		{name: "minmax without min", data: `{"kind":"minmax","scale":2}`, wantErr: true},
		{name: "unknown kind", data: `{"kind":"robust","scale":2}`, wantErr: true},
		{name: "not json", data: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeScaler([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassEncoder(t *testing.T) {
	enc, err := NewClassEncoder([]string{"Dacia", "Renault", "Toyota"})
	require.NoError(t, err)

	code, err := enc.Transform("Toyota")
	require.NoError(t, err)
	assert.Equal(t, 2, code)

	_, err = enc.Transform("Unobtainium")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	// labels are matched exactly
	_, err = enc.Transform("toyota")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	classes := enc.Classes()
	classes[0] = "changed"
	assert.Equal(t, []string{"Dacia", "Renault", "Toyota"}, enc.Classes())
}

func TestNewClassEncoder_RejectsUnsortedOrDuplicate(t *testing.T) {
	_, err := NewClassEncoder([]string{"Toyota", "Dacia"})
	assert.Error(t, err)

	_, err = NewClassEncoder([]string{"Dacia", "Dacia"})
	assert.Error(t, err)
}

func TestDecodeEncoder(t *testing.T) {
	enc, err := decodeEncoder([]byte(`{"kind":"label","classes":["a","b"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, enc.Classes())

	_, err = decodeEncoder([]byte(`{"kind":"onehot","classes":["a"]}`))
	assert.Error(t, err)
}

func TestLinearRegressor(t *testing.T) {
	m := &LinearRegressor{Names: []string{"a", "b"}, Coefficients: []float64{2, -1}, Intercept: 0.5}

	y, err := m.Predict([]float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, 2.5, y)

	_, err = m.Predict([]float64{1})
	assert.Error(t, err)

	short := &LinearRegressor{Names: []string{"a", "b"}, Coefficients: []float64{2}}
	assert.NotPanics(t, func() {
		_, err = short.Predict([]float64{3, 4})
	})
	assert.ErrorContains(t, err, "1 coefficients for 2 features")
}

const twoTreeModel = `{
	"kind": "tree_ensemble",
	"feature_names": ["a", "b"],
	"aggregation": %q,
	"base_score": %v,
	"learning_rate": 0.5,
	"trees": [
		{"children_left": [1, -1, -1], "children_right": [2, -1, -1],
		 "feature": [0, -2, -2], "threshold": [0.5, -2, -2], "value": [0, 10, 20]},
		{"children_left": [-1], "children_right": [-1],
		 "feature": [-2], "threshold": [-2], "value": [4]}
	]
}`

func TestTreeEnsemble(t *testing.T) {
	tests := []struct {
		name        string
		aggregation string
		baseScore   float64
		row         []float64
		want        float64
	}{
		{name: "mean goes left", aggregation: "mean", row: []float64{0.3, 0}, want: 7},
		{name: "mean goes right", aggregation: "mean", row: []float64{0.9, 0}, want: 12},
		{name: "threshold is inclusive", aggregation: "mean", row: []float64{0.5, 0}, want: 7},
		{name: "boosted sum", aggregation: "sum", baseScore: 1, row: []float64{0.9, 0}, want: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := decodeModel([]byte(fmt.Sprintf(twoTreeModel, tt.aggregation, tt.baseScore)))
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, m.FeatureNames())

			got, err := m.Predict(tt.row)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestDecodeModel_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "no feature names", data: `{"kind":"linear","feature_names":[],"coefficients":[]}`},
		{name: "coefficient count", data: `{"kind":"linear","feature_names":["a","b"],"coefficients":[1]}`},
		{name: "unknown kind", data: `{"kind":"svm","feature_names":["a"]}`},
		{name: "no trees", data: `{"kind":"tree_ensemble","feature_names":["a"],"trees":[]}`},
		{name: "child before parent", data: `{"kind":"tree_ensemble","feature_names":["a"],"trees":[
			{"children_left":[0,-1],"children_right":[1,-1],"feature":[0,-2],"threshold":[0,0],"value":[0,1]}]}`},
		{name: "split feature out of range", data: `{"kind":"tree_ensemble","feature_names":["a"],"trees":[
			{"children_left":[1,-1,-1],"children_right":[2,-1,-1],"feature":[3,-2,-2],"threshold":[0,0,0],"value":[0,1,2]}]}`},
		{name: "ragged node arrays", data: `{"kind":"tree_ensemble","feature_names":["a"],"trees":[
			{"children_left":[-1],"children_right":[-1],"feature":[-2],"threshold":[0],"value":[]}]}`},
		{name: "bad aggregation", data: `{"kind":"tree_ensemble","feature_names":["a"],"aggregation":"max","trees":[
			{"children_left":[-1],"children_right":[-1],"feature":[-2],"threshold":[0],"value":[1]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeModel([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeCatalog_KeepsOrder(t *testing.T) {
	c, err := decodeCatalog([]byte(`{"Renault":["Clio","Megane"],"Dacia":["Logan"],"Audi":[]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Renault", "Dacia", "Audi"}, c.Brands())
	assert.Equal(t, []string{"Clio", "Megane"}, c.Models("Renault"))
	assert.Empty(t, c.Models("Audi"))
	assert.Empty(t, c.Models("Unobtainium"))
	assert.True(t, c.HasBrand("Audi"))
	assert.False(t, c.HasBrand("audi"))
	assert.True(t, c.HasModel("Renault", "Megane"))
	assert.False(t, c.HasModel("Dacia", "Megane"))
	assert.Equal(t, 3, c.Len())
}

func TestDecodeCatalog_Errors(t *testing.T) {
	for _, data := range []string{
		`["Renault"]`,
		`{"Renault":["Clio"],"Renault":["Megane"]}`,
		`{"Renault":"Clio"}`,
		`{"Renault":["Clio"]} {}`,
		`{"Renault":["Clio"]`,
	} {
		_, err := decodeCatalog([]byte(data))
		assert.Error(t, err, data)
	}
}

func TestCatalog_Defaults(t *testing.T) {
	tests := []struct {
		name      string
		brands    []string
		models    map[string][]string
		wantBrand string
		wantModel string
	}{
		{
			name:      "sixth brand and sixth model",
			brands:    []string{"a", "b", "c", "d", "e", "f", "g"},
			models:    map[string][]string{"f": {"1", "2", "3", "4", "5", "6", "7"}},
			wantBrand: "f",
			wantModel: "6",
		},
		{
			name:      "clamped to last",
			brands:    []string{"a", "b"},
			models:    map[string][]string{"b": {"x", "y"}},
			wantBrand: "b",
			wantModel: "y",
		},
		{
			name:      "brand without models",
			brands:    []string{"a"},
			wantBrand: "a",
		},
		{
			name: "empty catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewCatalog(tt.brands, tt.models).Defaults()
			assert.Equal(t, tt.wantBrand, d.Brand)
			assert.Equal(t, tt.wantModel, d.Model)
			assert.Equal(t, DefaultYear, d.Year)
			assert.Equal(t, DefaultMileage, d.Mileage)
			assert.Equal(t, models.DocumentStandardCard, d.Documents)
			assert.Equal(t, models.TransmissionManual, d.Transmission)
			assert.Equal(t, models.FuelGasoline, d.Fuel)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	cause := errors.New("boom")
	err := multierr.Combine(
		&LoadError{Artifact: NameModel, Path: "/m.json", Err: cause},
		&LoadError{Artifact: NameCatalog, Err: cause},
	)

	assert.True(t, IsLoadError(err))
	assert.ErrorIs(t, err, cause)

	parts := LoadErrors(err)
	require.Len(t, parts, 2)
	assert.Equal(t, "load artifact model from /m.json: boom", parts[0].Error())
	assert.Equal(t, "load artifact catalog: boom", parts[1].Error())

	assert.False(t, IsLoadError(cause))
}
