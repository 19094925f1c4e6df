package artifacts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"os"
	"path/filepath"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/multierr"
)

// Paths locates each artifact file.
type Paths struct {
	Model         string `json:"model"`
	YearScaler    string `json:"yearScaler"`
	MileageScaler string `json:"mileageScaler"`
	BrandEncoder  string `json:"brandEncoder"`
	ModelEncoder  string `json:"modelEncoder"`
	PriceScaler   string `json:"priceScaler"`
	Catalog       string `json:"catalog"`
}

// PathsFromDir returns the default file layout under dir.
func PathsFromDir(dir string) Paths {
	return Paths{
		Model:         filepath.Join(dir, "model.json"),
		YearScaler:    filepath.Join(dir, "year_scaler.json"),
		MileageScaler: filepath.Join(dir, "mileage_scaler.json"),
		BrandEncoder:  filepath.Join(dir, "brand_encoder.json"),
		ModelEncoder:  filepath.Join(dir, "model_encoder.json"),
		PriceScaler:   filepath.Join(dir, "price_scaler.json"),
		Catalog:       filepath.Join(dir, "brand_models.json"),
	}
}

// Loader reads a complete artifact bundle. Catalog replaces the catalog
// file in Paths when set.
type Loader struct {
	Paths   Paths
	Catalog CatalogSource
}

// Load reads every artifact in paths. See Loader.Load.
func Load(ctx context.Context, paths Paths) (*Artifacts, error) {
	return (&Loader{Paths: paths}).Load(ctx)
}

type bundleReader struct {
	errs error
	hash hash.Hash
}

func (r *bundleReader) fail(name, path string, err error) {
	r.errs = multierr.Append(r.errs, &LoadError{Artifact: name, Path: path, Err: err})
}

// read returns the validated file contents, or nil after recording a failure.
func (r *bundleReader) read(name, path string, schema *gojsonschema.Schema) []byte {
	if path == "" {
		r.fail(name, path, fmt.Errorf("no path configured"))
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		r.fail(name, path, err)
		return nil
	}
	if err := validateDocument(schema, data); err != nil {
		r.fail(name, path, err)
		return nil
	}
	fmt.Fprintf(r.hash, "%s:%d:", name, len(data))
	r.hash.Write(data)
	return data
}

func (r *bundleReader) scaler(name, path string) Scaler {
	data := r.read(name, path, scalerSchema)
	if data == nil {
		return nil
	}
	s, err := decodeScaler(data)
	if err != nil {
		r.fail(name, path, err)
		return nil
	}
	return s
}

func (r *bundleReader) encoder(name, path string) LabelEncoder {
	data := r.read(name, path, encoderSchema)
	if data == nil {
		return nil
	}
	e, err := decodeEncoder(data)
	if err != nil {
		r.fail(name, path, err)
		return nil
	}
	return e
}

func (r *bundleReader) model(name, path string) Regressor {
	data := r.read(name, path, modelSchema)
	if data == nil {
		return nil
	}
	m, err := decodeModel(data)
	if err != nil {
		r.fail(name, path, err)
		return nil
	}
	return m
}

// Load reads and decodes all artifacts. Every failure is reported as a
// *LoadError and all of them are combined into the returned error. A
// partially loaded bundle is never returned.
func (l *Loader) Load(ctx context.Context) (*Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &bundleReader{hash: sha256.New()}
	p := l.Paths

	a := &Artifacts{
		Model:         r.model(NameModel, p.Model),
		YearScaler:    r.scaler(NameYearScaler, p.YearScaler),
		MileageScaler: r.scaler(NameMileageScaler, p.MileageScaler),
		BrandEncoder:  r.encoder(NameBrandEncoder, p.BrandEncoder),
		ModelEncoder:  r.encoder(NameModelEncoder, p.ModelEncoder),
		PriceScaler:   r.scaler(NamePriceScaler, p.PriceScaler),
	}

	var src CatalogSource = FileCatalog{Path: p.Catalog}
	if l.Catalog != nil {
		src = l.Catalog
	}
	catalog, err := src.LoadCatalog(ctx)
	if err != nil {
		r.fail(NameCatalog, catalogLocation(src), err)
	}
	a.Catalog = catalog

	if r.errs != nil {
		return nil, r.errs
	}

	a.Fingerprint = hex.EncodeToString(r.hash.Sum(nil))
	a.LoadedAt = time.Now().UTC()
	return a, nil
}

func catalogLocation(src CatalogSource) string {
	switch s := src.(type) {
	case FileCatalog:
		return s.Path
	case *FileCatalog:
		return s.Path
	case PostgresCatalog:
		return "postgres:" + s.Table
	case *PostgresCatalog:
		return "postgres:" + s.Table
	default:
		return ""
	}
}
