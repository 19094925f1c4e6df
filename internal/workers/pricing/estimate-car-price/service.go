package estimatecarprice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"carprice-workers/internal/common/database"
	"carprice-workers/internal/common/errors"
	"carprice-workers/internal/common/logger"
	"carprice-workers/internal/common/metrics"
	"carprice-workers/internal/common/observability"
	"carprice-workers/internal/estimator"
	"carprice-workers/internal/estimator/artifacts"
	"carprice-workers/internal/estimator/predictor"
	"carprice-workers/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Service struct {
	config    *Config
	logger    logger.Logger
	estimator *estimator.Estimator
	cache     Cache
	obs       *observability.Observability
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	cache := deps.Cache
	if !config.CacheEnabled {
		cache = nil
	}
	return &Service{
		config:    config,
		logger:    deps.Logger,
		estimator: deps.Estimator,
		cache:     cache,
		obs:       deps.Observability,
		now:       time.Now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := s.obs.StartSpan(ctx, "estimate-car-price",
		attribute.String("brand", input.Brand),
		attribute.String("model", input.Model),
		attribute.Int("year", input.Year),
	)
	defer span.End()

	s.logger.Info("Estimating car price", map[string]interface{}{
		"requestId": input.RequestID,
		"brand":     input.Brand,
		"model":     input.Model,
		"year":      input.Year,
	})

	raw, err := s.toRawInput(input)
	if err != nil {
		metrics.EstimatesTotal.WithLabelValues(metrics.OutcomeInvalidInput).Inc()
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}

	a := s.estimator.Artifacts()
	if a == nil {
		return nil, errors.NewArtifactLoadFailedError(estimator.ErrNoArtifacts)
	}
	s.checkCatalog(a.Catalog, raw)

	key := cacheKey(s.config.CacheKeyPrefix, a.Fingerprint, raw)
	if hit, ok := s.lookup(ctx, key); ok {
		out := s.buildOutput(input, hit.Price, a.Fingerprint, true)
		s.recordEstimate(ctx, raw, out, hit.UnknownFields)
		return out, nil
	}

	est, err := s.estimate(ctx, raw)
	if err != nil {
		metrics.EstimatesTotal.WithLabelValues(metrics.OutcomePredictionFailed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "prediction failed")
		return nil, err
	}

	s.store(ctx, key, cachedEstimate{Price: est.Price, UnknownFields: est.UnknownFields})

	out := s.buildOutput(input, est.Price, a.Fingerprint, false)
	s.recordEstimate(ctx, raw, out, est.UnknownFields)
	return out, nil
}

// recordEstimate counts a successful estimate, whether computed or served
// from the cache.
func (s *Service) recordEstimate(ctx context.Context, raw models.RawInput, out *Output, unknownFields []string) {
	for _, field := range unknownFields {
		metrics.UnknownCategoryTotal.WithLabelValues(field).Inc()
		s.logger.Debug("Label outside the encoder vocabulary", map[string]interface{}{
			"field": field,
			"brand": raw.Brand,
			"model": raw.Model,
		})
	}

	metrics.EstimatesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.EstimatedPrice.Observe(out.Price)
	s.obs.RecordEstimate(ctx, out.Price, raw.Brand)

	s.logger.Info("Car price estimated", map[string]interface{}{
		"estimateId":     out.EstimateID,
		"requestId":      out.RequestID,
		"price":          out.Price,
		"priceFormatted": out.PriceFormatted,
		"cached":         out.Cached,
		"unknownFields":  unknownFields,
	})
}

func (s *Service) estimate(ctx context.Context, raw models.RawInput) (*estimator.Estimate, error) {
	_, span := s.obs.StartSpan(ctx, "encode-and-predict")
	defer span.End()

	est, err := s.estimator.Estimate(raw)
	if err == nil {
		return est, nil
	}

	var predErr *predictor.PredictionError
	switch {
	case stderrors.Is(err, estimator.ErrNoArtifacts):
		return nil, errors.NewArtifactLoadFailedError(err)
	case stderrors.As(err, &predErr):
		s.logger.Error("Prediction failed", map[string]interface{}{
			"stage": predErr.Stage,
			"error": predErr.Err.Error(),
			"brand": raw.Brand,
			"model": raw.Model,
		})
		return nil, errors.NewPredictionFailedError(err)
	default:
		return nil, errors.NewPredictionFailedError(err)
	}
}

// toRawInput parses the form labels and re-checks ranges, since Execute is
// also called directly without the job schema.
func (s *Service) toRawInput(input *Input) (models.RawInput, error) {
	docs, err := models.ParseDocumentType(input.DocumentType)
	if err != nil {
		return models.RawInput{}, errors.NewValidationFailedError(err.Error())
	}
	transmission, err := models.ParseTransmission(input.Transmission)
	if err != nil {
		return models.RawInput{}, errors.NewValidationFailedError(err.Error())
	}
	fuel, err := models.ParseFuelType(input.Fuel)
	if err != nil {
		return models.RawInput{}, errors.NewValidationFailedError(err.Error())
	}

	if input.Year < s.config.MinYear || input.Year > s.config.MaxYear {
		return models.RawInput{}, errors.NewValidationFailedError(
			fmt.Sprintf("year %d outside %d-%d", input.Year, s.config.MinYear, s.config.MaxYear))
	}
	if input.Mileage < 0 || input.Mileage > s.config.MaxMileage {
		return models.RawInput{}, errors.NewValidationFailedError(
			fmt.Sprintf("mileage %d outside 0-%d", input.Mileage, s.config.MaxMileage))
	}
	if input.Brand == "" || input.Model == "" {
		return models.RawInput{}, errors.NewValidationFailedError("brand and model are required")
	}

	return models.RawInput{
		Year:         input.Year,
		Brand:        input.Brand,
		Model:        input.Model,
		Mileage:      input.Mileage,
		Documents:    docs,
		Transmission: transmission,
		Fuel:         fuel,
	}, nil
}

// checkCatalog only logs: the catalog drives the form, it does not gate prices.
func (s *Service) checkCatalog(catalog *artifacts.Catalog, raw models.RawInput) {
	if catalog == nil {
		return
	}
	switch {
	case !catalog.HasBrand(raw.Brand):
		s.logger.Warn("Brand not in catalog", map[string]interface{}{"brand": raw.Brand})
	case !catalog.HasModel(raw.Brand, raw.Model):
		s.logger.Warn("Model not in catalog for brand", map[string]interface{}{
			"brand": raw.Brand,
			"model": raw.Model,
		})
	}
}

func (s *Service) lookup(ctx context.Context, key string) (*cachedEstimate, bool) {
	if s.cache == nil {
		return nil, false
	}
	var hit cachedEstimate
	err := s.cache.GetJSON(ctx, key, &hit)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		return &hit, true
	case stderrors.Is(err, database.ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		s.logger.Warn("Estimate cache lookup failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return nil, false
}

func (s *Service) store(ctx context.Context, key string, value cachedEstimate) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.config.CacheTTL); err != nil {
		s.logger.Warn("Estimate cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *Service) buildOutput(input *Input, price float64, fingerprint string, cached bool) *Output {
	return &Output{
		EstimateID:          uuid.NewString(),
		RequestID:           input.RequestID,
		Price:               price,
		PriceFormatted:      estimator.FormatPrice(price, s.config.PriceUnit),
		PriceUnit:           s.config.PriceUnit,
		Brand:               input.Brand,
		Model:               input.Model,
		Year:                input.Year,
		ArtifactFingerprint: fingerprint,
		Cached:              cached,
		EstimatedAt:         s.now().UTC(),
	}
}

// cacheKey is prefix:fingerprint:sha256(normalized input).
func cacheKey(prefix, fingerprint string, raw models.RawInput) string {
	if len(fingerprint) > 12 {
		fingerprint = fingerprint[:12]
	}
	data, _ := json.Marshal(raw)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:%s", prefix, fingerprint, hex.EncodeToString(sum[:]))
}
