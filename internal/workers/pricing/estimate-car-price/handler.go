package estimatecarprice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carprice-workers/internal/common/camunda"
	"carprice-workers/internal/common/config"
	"carprice-workers/internal/common/errors"
	"carprice-workers/internal/common/logger"
	"carprice-workers/internal/common/metrics"
	"carprice-workers/internal/common/observability"
	"carprice-workers/internal/common/validation"
	"carprice-workers/internal/estimator"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "pricing.car.estimate"

// ConfigKey is the entry under workers in the application config.
const ConfigKey = "estimate-car-price"

type Handler struct {
	config       *Config
	logger       logger.Logger
	camunda      *camunda.Client
	service      *Service
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	worker       *camunda.Worker
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Camunda       *camunda.Client
	CustomConfig  *Config
	Logger        logger.Logger
	Estimator     *estimator.Estimator
	Cache         Cache
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", ConfigKey, err)
	}
	if opts.Estimator == nil {
		return nil, fmt.Errorf("%s requires an estimator", ConfigKey)
	}
	if workerConfig.CacheEnabled && opts.Cache == nil {
		return nil, fmt.Errorf("%s has the cache enabled but no cache client", ConfigKey)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}

	handler := &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		camunda:      opts.Camunda,
		errorHandler: errors.NewErrorHandler(loggerInstance),
		obs:          opts.Observability,
	}

	handler.service = NewService(ServiceDependencies{
		Logger:        loggerInstance,
		Estimator:     opts.Estimator,
		Cache:         opts.Cache,
		Observability: opts.Observability,
	}, workerConfig)

	return handler, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing car price estimate", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             TaskType,
	})

	output, err := h.process(ctx, job)
	if err != nil {
		bpmnErr := h.errorHandler.HandleJobError(ctx, client, job, err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")
}

// process runs everything between job activation and completion.
func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	if !h.config.Enabled {
		return nil, errors.NewInternalError(fmt.Errorf("worker %s is disabled", TaskType))
	}

	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}

	return h.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	validationResult := validation.ValidateInput(variables, GetInputSchema(h.config))
	if !validationResult.Valid {
		return nil, errors.NewValidationFailedError(strings.Join(validationResult.GetErrorMessages(), "; "))
	}

	input := &Input{
		Year:         intVar(variables["year"]),
		Brand:        variables["brand"].(string),
		Model:        variables["model"].(string),
		Mileage:      intVar(variables["mileage"]),
		DocumentType: variables["documentType"].(string),
		Transmission: variables["transmission"].(string),
		Fuel:         variables["fuel"].(string),
	}

	if requestID, ok := variables["requestId"].(string); ok {
		input.RequestID = requestID
	}

	return input, nil
}

// intVar converts a schema-checked integer. Job variables decode as float64.
func intVar(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(output.Variables())
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
		return
	}

	h.logger.Info("Completed car price estimate", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"estimateId": output.EstimateID,
		"price":      output.Price,
		"cached":     output.Cached,
		"worker":     TaskType,
	})
}

func (h *Handler) Register() error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", map[string]interface{}{
			"worker": TaskType,
		})
		return nil
	}
	if h.camunda == nil {
		return fmt.Errorf("%s: no camunda client", TaskType)
	}

	h.worker = camunda.StartWorker(h.camunda.GetClient(), camunda.WorkerOptions{
		TaskType:       TaskType,
		MaxJobsActive:  h.config.MaxJobsActive,
		Timeout:        h.config.Timeout,
		FetchVariables: InputVariables,
	}, h.Handle, h.logger)

	return nil
}

func (h *Handler) Close() {
	h.worker.Close()
	h.worker = nil
}

func (h *Handler) HealthCheck(ctx context.Context) error {
	if h.service.estimator.Artifacts() == nil {
		return fmt.Errorf("no artifacts loaded")
	}
	if h.camunda != nil {
		if err := h.camunda.HealthCheck(ctx); err != nil {
			return fmt.Errorf("camunda health check failed: %w", err)
		}
	}
	return nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[ConfigKey]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
		}

		est := appConfig.Estimation
		if est.MinYear > 0 {
			cfg.MinYear = est.MinYear
		}
		if est.MaxYear > 0 {
			cfg.MaxYear = est.MaxYear
		}
		if est.MaxMileage > 0 {
			cfg.MaxMileage = est.MaxMileage
		}
		if est.PriceUnit != "" {
			cfg.PriceUnit = est.PriceUnit
		}
		cfg.CacheEnabled = est.Cache.Enabled
		if est.Cache.TTL > 0 {
			cfg.CacheTTL = config.GetDuration(est.Cache.TTL)
		}
		if est.Cache.KeyPrefix != "" {
			cfg.CacheKeyPrefix = est.Cache.KeyPrefix
		}
	}

	return cfg
}

// Execute implements the standard worker interface for direct execution
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}
