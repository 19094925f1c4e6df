// Package features turns a RawInput into the model's feature record.
package features

import (
	"carprice-workers/internal/estimator/artifacts"
	"carprice-workers/internal/models"
)

// UnknownCode stands in for a brand or model the encoder was not fitted on.
const UnknownCode = -1

// Fields that may fall back to UnknownCode.
const (
	FieldBrand = "brand"
	FieldModel = "model"
)

// Encoding is an encoded record plus the fields that fell back to UnknownCode.
type Encoding struct {
	Record  models.FeatureRecord
	Unknown []string
}

// HasUnknown reports whether field was encoded as UnknownCode.
func (e Encoding) HasUnknown(field string) bool {
	for _, f := range e.Unknown {
		if f == field {
			return true
		}
	}
	return false
}

type encodeResult struct {
	code int
	err  error
}

func tryEncode(enc artifacts.LabelEncoder, label string) encodeResult {
	code, err := enc.Transform(label)
	return encodeResult{code: code, err: err}
}

// Encode never fails: labels outside an encoder's vocabulary, or any other
// encoder failure, become UnknownCode and are listed in Encoding.Unknown.
func Encode(raw models.RawInput, a *artifacts.Artifacts) Encoding {
	var out Encoding

	brand := tryEncode(a.BrandEncoder, raw.Brand)
	if brand.err != nil {
		brand.code = UnknownCode
		out.Unknown = append(out.Unknown, FieldBrand)
	}
	model := tryEncode(a.ModelEncoder, raw.Model)
	if model.err != nil {
		model.code = UnknownCode
		out.Unknown = append(out.Unknown, FieldModel)
	}

	out.Record = models.FeatureRecord{
		Year:    a.YearScaler.Transform(float64(raw.Year)),
		Brand:   float64(brand.code),
		Model:   float64(model.code),
		Mileage: a.MileageScaler.Transform(float64(raw.Mileage)),

		// StandardCard, Automatic and Diesel are the dropped reference levels.
		PapersYellowCard:          indicator(raw.Documents == models.DocumentYellowCard),
		PapersLicense:             indicator(raw.Documents == models.DocumentLicense),
		TransmissionManual:        indicator(raw.Transmission == models.TransmissionManual),
		TransmissionSemiAutomatic: indicator(raw.Transmission == models.TransmissionSemiAutomatic),
		FuelGasoline:              indicator(raw.Fuel == models.FuelGasoline),
		FuelLPG:                   indicator(raw.Fuel == models.FuelLPG),
	}
	return out
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
