package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"carprice-workers/internal/models"
)

// Initial form selection.
const (
	DefaultYear       = 2013
	DefaultMileage    = 100000
	defaultBrandIndex = 5
	defaultModelIndex = 5
)

// Catalog lists the brands offered on the form and, per brand, its models.
// Both lists keep the order of the source file.
type Catalog struct {
	brands []string
	models map[string][]string
}

func NewCatalog(brands []string, modelsByBrand map[string][]string) *Catalog {
	c := &Catalog{
		brands: make([]string, 0, len(brands)),
		models: make(map[string][]string, len(brands)),
	}
	for _, b := range brands {
		if _, dup := c.models[b]; dup {
			continue
		}
		c.brands = append(c.brands, b)
		ms := modelsByBrand[b]
		cp := make([]string, len(ms))
		copy(cp, ms)
		c.models[b] = cp
	}
	return c
}

func (c *Catalog) Brands() []string {
	out := make([]string, len(c.brands))
	copy(out, c.brands)
	return out
}

// Models returns the models of brand, or an empty list for unknown brands.
func (c *Catalog) Models(brand string) []string {
	ms := c.models[brand]
	out := make([]string, len(ms))
	copy(out, ms)
	return out
}

func (c *Catalog) HasBrand(brand string) bool {
	_, ok := c.models[brand]
	return ok
}

func (c *Catalog) HasModel(brand, model string) bool {
	for _, m := range c.models[brand] {
		if m == model {
			return true
		}
	}
	return false
}

func (c *Catalog) Len() int {
	return len(c.brands)
}

// Selection is a pre-filled estimation form.
type Selection struct {
	Year         int                 `json:"year"`
	Brand        string              `json:"brand"`
	Model        string              `json:"model"`
	Mileage      int                 `json:"mileage"`
	Documents    models.DocumentType `json:"documentType"`
	Transmission models.Transmission `json:"transmission"`
	Fuel         models.FuelType     `json:"fuel"`
}

func clampIndex(i, n int) int {
	if i > n-1 {
		return n - 1
	}
	return i
}

// Defaults returns the form's initial selection for this catalog.
func (c *Catalog) Defaults() Selection {
	s := Selection{
		Year:         DefaultYear,
		Mileage:      DefaultMileage,
		Documents:    models.DocumentStandardCard,
		Transmission: models.TransmissionManual,
		Fuel:         models.FuelGasoline,
	}
	if len(c.brands) == 0 {
		return s
	}
	s.Brand = c.brands[clampIndex(defaultBrandIndex, len(c.brands))]
	if ms := c.models[s.Brand]; len(ms) > 0 {
		s.Model = ms[clampIndex(defaultModelIndex, len(ms))]
	}
	return s
}

// decodeCatalog reads a JSON object of brand -> [models] without losing the
// key order, which encoding/json maps would discard.
func decodeCatalog(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode catalog: expected object")
	}

	var brands []string
	byBrand := make(map[string][]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		brand, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode catalog: expected brand name")
		}
		if _, dup := byBrand[brand]; dup {
			return nil, fmt.Errorf("decode catalog: duplicate brand %q", brand)
		}
		var ms []string
		if err := dec.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode catalog: models of %q: %w", brand, err)
		}
		brands = append(brands, brand)
		byBrand[brand] = ms
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode catalog: trailing data")
	}

	return NewCatalog(brands, byBrand), nil
}
