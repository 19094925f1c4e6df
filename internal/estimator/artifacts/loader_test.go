package artifacts_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"carprice-workers/internal/estimator/artifacts"
	"carprice-workers/internal/estimator/artifacts/artifactstest"
	"carprice-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogQuery = "SELECT brand, model FROM car_catalog ORDER BY brand_position, model_position"

func TestLoad_Success(t *testing.T) {
	paths := artifactstest.WriteFiles(t, t.TempDir())

	a, err := artifacts.Load(context.Background(), paths)
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.Equal(t, models.FeatureColumns(), a.Model.FeatureNames())
	assert.Equal(t, artifactstest.Brands, a.BrandEncoder.Classes())
	assert.Equal(t, artifactstest.Models, a.ModelEncoder.Classes())
	assert.InDelta(t, 0.6, a.YearScaler.Transform(2013), 1e-12)
	assert.InDelta(t, -1.0, a.MileageScaler.Transform(100000), 1e-12)
	assert.InDelta(t, 25.3, a.PriceScaler.InverseTransform(0.53), 1e-9)
	assert.Equal(t, artifactstest.CatalogBrands, a.Catalog.Brands())
	assert.Len(t, a.Fingerprint, 64)
	assert.False(t, a.LoadedAt.IsZero())
}

func TestLoad_FingerprintTracksContent(t *testing.T) {
	dir := t.TempDir()
	paths := artifactstest.WriteFiles(t, dir)

	first, err := artifacts.Load(context.Background(), paths)
	require.NoError(t, err)
	second, err := artifacts.Load(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	require.NoError(t, os.WriteFile(paths.PriceScaler,
		[]byte(`{"kind":"standard","mean":21,"scale":10}`), 0o644))

	third, err := artifacts.Load(context.Background(), paths)
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint)
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name         string
		breakFiles   func(t *testing.T, paths artifacts.Paths)
		wantArtifact []string
	}{
		{
			name: "missing model",
			breakFiles: func(t *testing.T, p artifacts.Paths) {
				require.NoError(t, os.Remove(p.Model))
			},
			wantArtifact: []string{artifacts.NameModel},
		},
		{
			name: "corrupt year scaler",
			breakFiles: func(t *testing.T, p artifacts.Paths) {
				require.NoError(t, os.WriteFile(p.YearScaler, []byte(`{"kind":`), 0o644))
			},
			wantArtifact: []string{artifacts.NameYearScaler},
		},
		{
			name: "scaler of unknown kind",
			breakFiles: func(t *testing.T, p artifacts.Paths) {
				require.NoError(t, os.WriteFile(p.PriceScaler, []byte(`{"kind":"robust","scale":1}`), 0o644))
			},
			wantArtifact: []string{artifacts.NamePriceScaler},
		},
		{
			name: "unsorted encoder classes",
			breakFiles: func(t *testing.T, p artifacts.Paths) {
				require.NoError(t, os.WriteFile(p.BrandEncoder,
					[]byte(`{"kind":"label","classes":["Toyota","Dacia"]}`), 0o644))
			},
			wantArtifact: []string{artifacts.NameBrandEncoder},
		},
		{
			name: "catalog is a list",
			breakFiles: func(t *testing.T, p artifacts.Paths) {
				require.NoError(t, os.WriteFile(p.Catalog, []byte(`["Renault"]`), 0o644))
			},
			wantArtifact: []string{artifacts.NameCatalog},
		},
		{
			name: "every failure is reported",
			breakFiles: func(t *testing.T, p artifacts.Paths) {
				require.NoError(t, os.Remove(p.MileageScaler))
				require.NoError(t, os.Remove(p.ModelEncoder))
				require.NoError(t, os.Remove(p.Catalog))
			},
			wantArtifact: []string{artifacts.NameMileageScaler, artifacts.NameModelEncoder, artifacts.NameCatalog},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := artifactstest.WriteFiles(t, t.TempDir())
			tt.breakFiles(t, paths)

			a, err := artifacts.Load(context.Background(), paths)
			require.Error(t, err)
			assert.Nil(t, a)
			assert.True(t, artifacts.IsLoadError(err))

			var got []string
			for _, le := range artifacts.LoadErrors(err) {
				got = append(got, le.Artifact)
			}
			assert.Equal(t, tt.wantArtifact, got)
		})
	}
}

func TestLoad_MissingFileKeepsCause(t *testing.T) {
	paths := artifactstest.WriteFiles(t, t.TempDir())
	require.NoError(t, os.Remove(paths.Model))

	_, err := artifacts.Load(context.Background(), paths)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	parts := artifacts.LoadErrors(err)
	require.Len(t, parts, 1)
	assert.Equal(t, paths.Model, parts[0].Path)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, err := artifacts.Load(context.Background(), artifacts.PathsFromDir(t.TempDir()))
	require.Error(t, err)
	assert.Len(t, artifacts.LoadErrors(err), 7)
}

func TestLoad_CancelledContext(t *testing.T) {
	paths := artifactstest.WriteFiles(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := artifacts.Load(ctx, paths)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPathsFromDir(t *testing.T) {
	p := artifacts.PathsFromDir("/srv/artifacts")
	assert.Equal(t, filepath.Join("/srv/artifacts", "model.json"), p.Model)
	assert.Equal(t, filepath.Join("/srv/artifacts", "brand_models.json"), p.Catalog)
	assert.Equal(t, filepath.Join("/srv/artifacts", "price_scaler.json"), p.PriceScaler)
}

func setupMockDB(t *testing.T) (*artifacts.PostgresCatalog, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &artifacts.PostgresCatalog{DB: db, Table: "car_catalog"}, mock
}

func TestPostgresCatalog(t *testing.T) {
	src, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"brand", "model"}).
			AddRow("Renault", "Clio").
			AddRow("Renault", "Megane").
			AddRow("Dacia", "Logan"))

	c, err := src.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Renault", "Dacia"}, c.Brands())
	assert.Equal(t, []string{"Clio", "Megane"}, c.Models("Renault"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalog_Errors(t *testing.T) {
	t.Run("query fails", func(t *testing.T) {
		src, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).WillReturnError(errors.New("connection refused"))

		_, err := src.LoadCatalog(context.Background())
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("empty table", func(t *testing.T) {
		src, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"brand", "model"}))

		_, err := src.LoadCatalog(context.Background())
		assert.Error(t, err)
	})

	t.Run("invalid table name", func(t *testing.T) {
		src, _ := setupMockDB(t)
		src.Table = "car_catalog; DROP TABLE users"

		_, err := src.LoadCatalog(context.Background())
		assert.ErrorContains(t, err, "invalid table name")
	})
}

func TestLoader_PostgresCatalogSource(t *testing.T) {
	paths := artifactstest.WriteFiles(t, t.TempDir())
	require.NoError(t, os.Remove(paths.Catalog))

	src, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"brand", "model"}).AddRow("Toyota", "Corolla"))

	a, err := (&artifacts.Loader{Paths: paths, Catalog: src}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Toyota"}, a.Catalog.Brands())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_CatalogSourceFailure(t *testing.T) {
	paths := artifactstest.WriteFiles(t, t.TempDir())

	src, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).WillReturnError(errors.New("timeout"))

	_, err := (&artifacts.Loader{Paths: paths, Catalog: src}).Load(context.Background())
	require.Error(t, err)

	parts := artifacts.LoadErrors(err)
	require.Len(t, parts, 1)
	assert.Equal(t, artifacts.NameCatalog, parts[0].Artifact)
	assert.Equal(t, "postgres:car_catalog", parts[0].Path)
}
