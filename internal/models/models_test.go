package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums_CodesAndFormLabels(t *testing.T) {
	tests := []struct {
		in   string
		want DocumentType
	}{
		{"StandardCard", DocumentStandardCard},
		{"Carte grise / safia", DocumentStandardCard},
		{"  carte jaune ", DocumentYellowCard},
		{"YellowCard", DocumentYellowCard},
		{"License/Delay", DocumentLicense},
		{"Licence / Délai", DocumentLicense},
	}
	for _, tt := range tests {
		got, err := ParseDocumentType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	tr, err := ParseTransmission("Semi Automatique")
	require.NoError(t, err)
	assert.Equal(t, TransmissionSemiAutomatic, tr)

	tr, err = ParseTransmission("manuelle")
	require.NoError(t, err)
	assert.Equal(t, TransmissionManual, tr)

	fuel, err := ParseFuelType("Essence")
	require.NoError(t, err)
	assert.Equal(t, FuelGasoline, fuel)

	fuel, err = ParseFuelType("GPL")
	require.NoError(t, err)
	assert.Equal(t, FuelLPG, fuel)
}

func TestParseEnums_Unknown(t *testing.T) {
	_, err := ParseDocumentType("passport")
	assert.Error(t, err)
	_, err = ParseTransmission("CVT")
	assert.Error(t, err)
	_, err = ParseFuelType("electric")
	assert.Error(t, err)
	_, err = ParseFuelType("")
	assert.Error(t, err)
}

func TestFeatureRecord_ColumnOrder(t *testing.T) {
	r := FeatureRecord{Year: 0.6, Brand: 4, Model: 2, Mileage: -1, TransmissionManual: 1, FuelGasoline: 1}

	assert.Equal(t, []string{
		"Year", "Brand", "Model", "Mileage",
		"Papers_YellowCard", "Papers_License",
		"Transmission_Manual", "Transmission_SemiAutomatic",
		"Fuel_Gasoline", "Fuel_LPG",
	}, r.Columns())
	assert.Equal(t, []float64{0.6, 4, 2, -1, 0, 0, 1, 0, 1, 0}, r.Values())
	assert.Len(t, r.Values(), NumFeatures)

	v, ok := r.Get(ColumnBrand)
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	_, ok = r.Get("Color")
	assert.False(t, ok)
}

func TestFeatureColumns_ReturnsCopy(t *testing.T) {
	cols := FeatureColumns()
	cols[0] = "mutated"
	assert.Equal(t, ColumnYear, FeatureColumns()[0])
}

func TestFeatureRecord_MarshalJSON(t *testing.T) {
	r := FeatureRecord{Year: 0.5, Brand: -1, PapersLicense: 1}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Year":0.5,"Brand":-1,"Model":0,"Mileage":0,"Papers_YellowCard":0,"Papers_License":1,`+
			`"Transmission_Manual":0,"Transmission_SemiAutomatic":0,"Fuel_Gasoline":0,"Fuel_LPG":0}`,
		string(data))

	var decoded map[string]float64
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, NumFeatures)
}
