package chartspec

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"inflationdash/domain/chart"
	"inflationdash/domain/core"
	"inflationdash/internal/errors"
)

//go:embed descriptors.yaml
var defaultCatalog []byte

type catalogFile struct {
	Charts []chart.Descriptor `yaml:"charts"`
}

// Catalog is the ordered, validated set of chart descriptors
type Catalog struct {
	descriptors []chart.Descriptor
	byID        map[core.ChartID]int
}

// DefaultCatalog returns the built-in chart catalog
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog override from path, or the built-in one when path is empty
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.LoadError("chart catalog "+path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.LoadError("chart catalog", errors.SchemaInvalid("malformed catalog", err))
	}
	return NewCatalog(file.Charts)
}

// NewCatalog validates descriptors and indexes them by id
func NewCatalog(descriptors []chart.Descriptor) (*Catalog, error) {
	if len(descriptors) == 0 {
		return nil, errors.LoadError("chart catalog", errors.SchemaInvalid("catalog has no charts", nil))
	}

	c := &Catalog{
		descriptors: make([]chart.Descriptor, 0, len(descriptors)),
		byID:        make(map[core.ChartID]int, len(descriptors)),
	}
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, errors.LoadError("chart catalog", errors.SchemaInvalid("invalid descriptor", err))
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, errors.LoadError("chart catalog",
				errors.SchemaInvalid(fmt.Sprintf("duplicate chart id %q", d.ID), nil))
		}
		c.byID[d.ID] = len(c.descriptors)
		c.descriptors = append(c.descriptors, d)
	}
	return c, nil
}

// Descriptors returns the descriptors in catalog order
func (c *Catalog) Descriptors() []chart.Descriptor {
	out := make([]chart.Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

func (c *Catalog) Len() int { return len(c.descriptors) }

// Lookup finds a descriptor by id
func (c *Catalog) Lookup(id core.ChartID) (chart.Descriptor, error) {
	i, ok := c.byID[id]
	if !ok {
		return chart.Descriptor{}, fmt.Errorf("%w: %s", core.ErrUnknownChart, id)
	}
	return c.descriptors[i], nil
}
