package artifacts

import (
	"encoding/json"
	"fmt"
)

const (
	scalerKindStandard = "standard"
	scalerKindMinMax   = "minmax"
)

// StandardScaler standardizes with a fitted mean and spread.
type StandardScaler struct {
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

func (s StandardScaler) scale() float64 {
	// zero-variance features are left unscaled
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

func (s StandardScaler) Transform(x float64) float64 {
	return (x - s.Mean) / s.scale()
}

func (s StandardScaler) InverseTransform(y float64) float64 {
	return y*s.scale() + s.Mean
}

// MinMaxScaler applies x*Scale + Min, with Min and Scale as fitted for the
// target feature range.
type MinMaxScaler struct {
	Min   float64 `json:"min"`
	Scale float64 `json:"scale"`
}

func (s MinMaxScaler) Transform(x float64) float64 {
	return x*s.Scale + s.Min
}

func (s MinMaxScaler) InverseTransform(y float64) float64 {
	if s.Scale == 0 {
		return y - s.Min
	}
	return (y - s.Min) / s.Scale
}

type scalerFile struct {
	Kind  string   `json:"kind"`
	Mean  *float64 `json:"mean"`
	Scale *float64 `json:"scale"`
	Min   *float64 `json:"min"`
}

func decodeScaler(data []byte) (Scaler, error) {
	var f scalerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}

	switch f.Kind {
	case scalerKindStandard:
		if f.Mean == nil || f.Scale == nil {
			return nil, fmt.Errorf("standard scaler requires mean and scale")
		}
		return StandardScaler{Mean: *f.Mean, Scale: *f.Scale}, nil
	case scalerKindMinMax:
		if f.Min == nil || f.Scale == nil {
			return nil, fmt.Errorf("minmax scaler requires min and scale")
		}
		return MinMaxScaler{Min: *f.Min, Scale: *f.Scale}, nil
	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", f.Kind)
	}
}
