package helpers

import (
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ============================================================================
// LOAD CACHE — Memoizes the two source reads
// ============================================================================
// Keyed by both paths, the sheet name and both modification times, so
// touching either file forces a reload on the next call. Safe for use from
// concurrent HTTP handlers.
// ============================================================================

// Source names the two input files.
type Source struct {
	IndicatorsPath string `yaml:"indicators" json:"indicators"`
	Sheet          string `yaml:"sheet" json:"sheet,omitempty"`
	HDIPath        string `yaml:"hdi" json:"hdi"`
}

// Dataset is the result of one load: both tables, read together.
type Dataset struct {
	Indicators *Table
	HDI        *Table
	LoadedAt   time.Time
}

// Loader loads a Dataset for a Source.
type Loader interface {
	Load(src Source) (*Dataset, error)
}

// Cache is a Loader that keeps the last Dataset until a key changes.
type Cache struct {
	mu      sync.Mutex
	key     string
	dataset *Dataset
	loads   int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Load returns the cached Dataset when paths and modification times are
// unchanged, otherwise reads both files again.
func (c *Cache) Load(src Source) (*Dataset, error) {
	key, err := cacheKey(src)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dataset != nil && c.key == key {
		return c.dataset, nil
	}

	start := time.Now()
	indicators, err := LoadIndicatorsXLSX(src.IndicatorsPath, src.Sheet)
	if err != nil {
		return nil, err
	}
	hdi, err := LoadHDICSV(src.HDIPath)
	if err != nil {
		return nil, err
	}

	c.key = key
	c.dataset = &Dataset{Indicators: indicators, HDI: hdi, LoadedAt: time.Now()}
	c.loads++
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("📦 Dataset loaded")
	return c.dataset, nil
}

// Invalidate drops the cached Dataset.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.dataset = nil
	log.Debug("🧹 Dataset cache cleared")
}

// Loads reports how many times the files have actually been read.
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

func cacheKey(src Source) (string, error) {
	a, err := os.Stat(src.IndicatorsPath)
	if err != nil {
		return "", fmt.Errorf("indicators source: %w", err)
	}
	b, err := os.Stat(src.HDIPath)
	if err != nil {
		return "", fmt.Errorf("hdi source: %w", err)
	}
	return fmt.Sprintf("%s|%s|%d|%s|%d",
		src.IndicatorsPath, src.Sheet, a.ModTime().UnixNano(),
		src.HDIPath, b.ModTime().UnixNano()), nil
}
