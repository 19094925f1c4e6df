package listcarmodels

import (
	"context"
	"fmt"

	"carprice-workers/internal/common/logger"
	"carprice-workers/internal/estimator/artifacts"
)

type Service struct {
	config  *Config
	logger  logger.Logger
	catalog *artifacts.Catalog
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:  config,
		logger:  deps.Logger,
		catalog: deps.Catalog,
	}
}

func (s *Service) Execute(_ context.Context, input *Input) (*Output, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("no catalog loaded")
	}

	out := &Output{Defaults: s.catalog.Defaults()}
	if input.Brand == "" {
		out.Brands = s.catalog.Brands()
		return out, nil
	}

	out.Brand = input.Brand
	out.KnownBrand = s.catalog.HasBrand(input.Brand)
	out.Models = s.catalog.Models(input.Brand)
	if !out.KnownBrand {
		s.logger.Warn("Models requested for unknown brand", map[string]interface{}{
			"brand": input.Brand,
		})
	}
	return out, nil
}
