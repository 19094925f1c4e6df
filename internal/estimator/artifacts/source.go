package artifacts

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	"github.com/jmoiron/sqlx"
)

// CatalogSource supplies the brand/model catalog.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// FileCatalog reads the catalog from a JSON object of brand -> [models].
type FileCatalog struct {
	Path string
}

func (f FileCatalog) LoadCatalog(_ context.Context) (*Catalog, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(catalogSchema, data); err != nil {
		return nil, err
	}
	return decodeCatalog(data)
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type catalogRow struct {
	Brand string `db:"brand"`
	Model string `db:"model"`
}

// PostgresCatalog reads the catalog from a table with columns
// brand, model, brand_position and model_position.
type PostgresCatalog struct {
	DB    *sql.DB
	Table string
}

func (p PostgresCatalog) LoadCatalog(ctx context.Context) (*Catalog, error) {
	if p.DB == nil {
		return nil, fmt.Errorf("postgres catalog: no database")
	}
	if !tableNamePattern.MatchString(p.Table) {
		return nil, fmt.Errorf("postgres catalog: invalid table name %q", p.Table)
	}

	query := fmt.Sprintf(
		"SELECT brand, model FROM %s ORDER BY brand_position, model_position", p.Table)
	var rows []catalogRow
	if err := sqlx.NewDb(p.DB, "postgres").SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog table %s is empty", p.Table)
	}

	var brands []string
	byBrand := make(map[string][]string)
	for _, r := range rows {
		if _, ok := byBrand[r.Brand]; !ok {
			brands = append(brands, r.Brand)
		}
		byBrand[r.Brand] = append(byBrand[r.Brand], r.Model)
	}
	return NewCatalog(brands, byBrand), nil
}
