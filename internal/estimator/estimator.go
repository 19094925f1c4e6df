// Package estimator wires the feature encoder and the predictor over one
// loaded artifact bundle.
package estimator

import (
	"errors"
	"math"
	"strings"

	"carprice-workers/internal/estimator/artifacts"
	"carprice-workers/internal/estimator/features"
	"carprice-workers/internal/estimator/predictor"
	"carprice-workers/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultPriceUnit is the unit the training prices were expressed in.
const DefaultPriceUnit = "MILLIONS"

var ErrNoArtifacts = errors.New("estimator has no artifacts")

// Estimate is one priced vehicle. Brand, Model and Year echo the input.
type Estimate struct {
	Price         float64
	Brand         string
	Model         string
	Year          int
	Record        models.FeatureRecord
	UnknownFields []string
}

// Estimator is safe for concurrent use; it never mutates its artifacts.
type Estimator struct {
	artifacts *artifacts.Artifacts
}

func New(a *artifacts.Artifacts) *Estimator {
	return &Estimator{artifacts: a}
}

func (e *Estimator) Artifacts() *artifacts.Artifacts {
	if e == nil {
		return nil
	}
	return e.artifacts
}

func (e *Estimator) Estimate(raw models.RawInput) (*Estimate, error) {
	if e == nil || e.artifacts == nil {
		return nil, ErrNoArtifacts
	}

	enc := features.Encode(raw, e.artifacts)
	price, err := predictor.Predict(enc.Record, e.artifacts)
	if err != nil {
		return nil, err
	}

	return &Estimate{
		Price:         price,
		Brand:         raw.Brand,
		Model:         raw.Model,
		Year:          raw.Year,
		Record:        enc.Record,
		UnknownFields: enc.Unknown,
	}, nil
}

// FormatPrice renders price rounded half to even with comma thousands
// separators, followed by unit, e.g. "1,234 MILLIONS". Negative prices that
// round to zero keep their sign.
func FormatPrice(price float64, unit string) string {
	if unit == "" {
		unit = DefaultPriceUnit
	}
	rounded := decimal.NewFromFloat(price).RoundBank(0)
	digits := rounded.StringFixed(0)
	if math.Signbit(price) && rounded.IsZero() {
		digits = "-" + digits
	}
	return groupThousands(digits) + " " + unit
}

func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	b.WriteString(sign)
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
