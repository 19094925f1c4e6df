// internal/models/feature.go
package models

import (
	"bytes"
	"encoding/json"
)

// Column names of the trained model's input schema.
const (
	ColumnYear                      = "Year"
	ColumnBrand                     = "Brand"
	ColumnModel                     = "Model"
	ColumnMileage                   = "Mileage"
	ColumnPapersYellowCard          = "Papers_YellowCard"
	ColumnPapersLicense             = "Papers_License"
	ColumnTransmissionManual        = "Transmission_Manual"
	ColumnTransmissionSemiAutomatic = "Transmission_SemiAutomatic"
	ColumnFuelGasoline              = "Fuel_Gasoline"
	ColumnFuelLPG                   = "Fuel_LPG"
)

// NumFeatures is the width of a FeatureRecord.
const NumFeatures = 10

var featureColumns = [NumFeatures]string{
	ColumnYear,
	ColumnBrand,
	ColumnModel,
	ColumnMileage,
	ColumnPapersYellowCard,
	ColumnPapersLicense,
	ColumnTransmissionManual,
	ColumnTransmissionSemiAutomatic,
	ColumnFuelGasoline,
	ColumnFuelLPG,
}

// FeatureColumns returns the model input columns in order.
func FeatureColumns() []string {
	out := make([]string, NumFeatures)
	copy(out, featureColumns[:])
	return out
}

// FeatureRecord is a single encoded row. Brand and Model hold label-encoder
// indices (or -1 for labels outside the vocabulary); the six indicator
// columns are 0 or 1 with Automatic, Diesel and StandardCard as the implicit
// all-zero reference categories.
type FeatureRecord struct {
	Year                      float64
	Brand                     float64
	Model                     float64
	Mileage                   float64
	PapersYellowCard          float64
	PapersLicense             float64
	TransmissionManual        float64
	TransmissionSemiAutomatic float64
	FuelGasoline              float64
	FuelLPG                   float64
}

func (r FeatureRecord) Columns() []string {
	return FeatureColumns()
}

// Values returns the row in column order.
func (r FeatureRecord) Values() []float64 {
	return []float64{
		r.Year,
		r.Brand,
		r.Model,
		r.Mileage,
		r.PapersYellowCard,
		r.PapersLicense,
		r.TransmissionManual,
		r.TransmissionSemiAutomatic,
		r.FuelGasoline,
		r.FuelLPG,
	}
}

func (r FeatureRecord) Get(column string) (float64, bool) {
	values := r.Values()
	for i, c := range featureColumns {
		if c == column {
			return values[i], true
		}
	}
	return 0, false
}

// MarshalJSON keeps the keys in schema order.
func (r FeatureRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range r.Values() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(featureColumns[i])
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
