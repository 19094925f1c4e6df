package estimator

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"carprice-workers/internal/common/config"
	"carprice-workers/internal/estimator/artifacts"
)

// PathsFromConfig resolves every artifact file, falling back to the default
// layout under cfg.Dir.
func PathsFromConfig(cfg config.ArtifactsConfig) artifacts.Paths {
	def := artifacts.PathsFromDir(cfg.Dir)
	return artifacts.Paths{
		Model:         cfg.FilePath(cfg.Model, filepath.Base(def.Model)),
		YearScaler:    cfg.FilePath(cfg.YearScaler, filepath.Base(def.YearScaler)),
		MileageScaler: cfg.FilePath(cfg.MileageScaler, filepath.Base(def.MileageScaler)),
		BrandEncoder:  cfg.FilePath(cfg.BrandEncoder, filepath.Base(def.BrandEncoder)),
		ModelEncoder:  cfg.FilePath(cfg.ModelEncoder, filepath.Base(def.ModelEncoder)),
		PriceScaler:   cfg.FilePath(cfg.PriceScaler, filepath.Base(def.PriceScaler)),
		Catalog:       cfg.FilePath(cfg.Catalog, filepath.Base(def.Catalog)),
	}
}

// LoaderFromConfig builds the artifact loader. db is only used, and then
// required, when the catalog lives in Postgres.
func LoaderFromConfig(cfg config.ArtifactsConfig, db *sql.DB) (*artifacts.Loader, error) {
	loader := &artifacts.Loader{Paths: PathsFromConfig(cfg)}

	switch cfg.CatalogSource {
	case "", config.CatalogSourceFile:
	case config.CatalogSourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("catalog source %q needs a database connection", cfg.CatalogSource)
		}
		loader.Catalog = &artifacts.PostgresCatalog{DB: db, Table: cfg.CatalogTable}
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
	return loader, nil
}

// LoadFromConfig loads the bundle described by cfg.
func LoadFromConfig(ctx context.Context, cfg config.ArtifactsConfig, db *sql.DB) (*artifacts.Artifacts, error) {
	loader, err := LoaderFromConfig(cfg, db)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx)
}
