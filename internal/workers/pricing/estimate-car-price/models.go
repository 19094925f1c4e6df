package estimatecarprice

import (
	"context"
	"time"

	"carprice-workers/internal/common/logger"
	"carprice-workers/internal/common/observability"
	"carprice-workers/internal/estimator"
)

// Input is the vehicle form. Enum fields hold canonical codes or form labels.
type Input struct {
	Year         int    `json:"year"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Mileage      int    `json:"mileage"`
	DocumentType string `json:"documentType"`
	Transmission string `json:"transmission"`
	Fuel         string `json:"fuel"`
	RequestID    string `json:"requestId,omitempty"`
}

type Output struct {
	EstimateID          string    `json:"estimateId"`
	RequestID           string    `json:"requestId,omitempty"`
	Price               float64   `json:"price"`
	PriceFormatted      string    `json:"priceFormatted"`
	PriceUnit           string    `json:"priceUnit"`
	Brand               string    `json:"brand"`
	Model               string    `json:"model"`
	Year                int       `json:"year"`
	ArtifactFingerprint string    `json:"artifactFingerprint"`
	Cached              bool      `json:"cached"`
	EstimatedAt         time.Time `json:"estimatedAt"`
}

// Variables returns the process variables the job completes with.
func (o *Output) Variables() map[string]interface{} {
	vars := map[string]interface{}{
		"estimateId":          o.EstimateID,
		"price":               o.Price,
		"priceFormatted":      o.PriceFormatted,
		"priceUnit":           o.PriceUnit,
		"brand":               o.Brand,
		"model":               o.Model,
		"year":                o.Year,
		"artifactFingerprint": o.ArtifactFingerprint,
		"cached":              o.Cached,
		"estimatedAt":         o.EstimatedAt.Format(time.RFC3339),
	}
	if o.RequestID != "" {
		vars["requestId"] = o.RequestID
	}
	return vars
}

// Cache stores estimates as JSON. *database.RedisClient implements it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Estimator     *estimator.Estimator
	Cache         Cache
	Observability *observability.Observability
}

// cachedEstimate is what the cache holds for one normalized vehicle.
type cachedEstimate struct {
	Price         float64  `json:"price"`
	UnknownFields []string `json:"unknownFields,omitempty"`
}
