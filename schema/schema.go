package schema

import (
	"fmt"
	"strings"

	"github.com/spektr-org/worlddash/engine"
)

// ============================================================================
// SCHEMA — Describes the shape of a source table
// ============================================================================
// Discovered from the loaded rows. The loaders use it to decide which cells
// become measures; the report uses it to check required columns up front.
// Keys are the original header text so that derived names such as
// "IncomeGroup_Low Income" read the same as the source.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Rows        int    `json:"rows"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`

	// Columns not usable as analysis features (identifiers, empty columns).
	// They are still loaded as dimensions.
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key             string   `json:"key"`
	Slug            string   `json:"slug"`
	DisplayName     string   `json:"displayName"`
	SampleValues    []string `json:"sampleValues"`
	Groupable       bool     `json:"groupable"`
	Filterable      bool     `json:"filterable"`
	Parent          string   `json:"parent,omitempty"` // Parent dimension key for hierarchies
	CardinalityHint string   `json:"cardinalityHint,omitempty"`
	NullCount       int      `json:"nullCount,omitempty"`
}

// MeasureMeta describes a numeric field.
type MeasureMeta struct {
	Key         string `json:"key"`
	Slug        string `json:"slug"`
	DisplayName string `json:"displayName"`
	Unit        string `json:"unit,omitempty"` // "usd", "percent", "years", "index", "per_1000"
	IsTemporal  bool   `json:"isTemporal,omitempty"`
	NullCount   int    `json:"nullCount,omitempty"`
}

// SkippedColumn records why a column is not used as a feature.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"`
}

// DimensionKeys returns all dimension keys in source order, skipped
// identifier columns included.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys in source order.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// IsMeasure reports whether key is a numeric column.
func (c Config) IsMeasure(key string) bool {
	for _, m := range c.Measures {
		if m.Key == key {
			return true
		}
	}
	return false
}

// Has reports whether key is a column of the dataset.
func (c Config) Has(key string) bool {
	if c.IsMeasure(key) {
		return true
	}
	for _, d := range c.Dimensions {
		if d.Key == key {
			return true
		}
	}
	return false
}

// Require returns an error wrapping engine.ErrMissingColumn naming every
// absent column.
func (c Config) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if !c.Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %w: %s", c.Name, engine.ErrMissingColumn, strings.Join(missing, ", "))
}

// RequireMeasure is Require plus a check that each column is numeric.
func (c Config) RequireMeasure(keys ...string) error {
	if err := c.Require(keys...); err != nil {
		return err
	}
	for _, k := range keys {
		if !c.IsMeasure(k) {
			return fmt.Errorf("%s: column %q is not numeric", c.Name, k)
		}
	}
	return nil
}

// Identifiers returns the skipped identifier column names.
func (c Config) Identifiers() []string {
	out := make([]string, 0, len(c.SkippedColumns))
	for _, s := range c.SkippedColumns {
		out = append(out, s.Column)
	}
	return out
}
