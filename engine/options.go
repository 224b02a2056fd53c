package engine

// ============================================================================
// FEATURE OPTIONS — Functional options for FeatureMatrix()
// ============================================================================

// Option configures feature-matrix construction via functional options pattern.
type Option func(*config)

type config struct {
	Drop      []string // columns removed before encoding
	FillValue float64  // replacement for missing measures
	DropFirst bool     // drop the first (sorted) category of each dimension
	Exclude   map[string]bool
}

// WithDrop removes columns before encoding. Every named column must exist.
func WithDrop(columns ...string) Option {
	return func(c *config) {
		c.Drop = append(c.Drop, columns...)
	}
}

// WithFill sets the value substituted for missing measures (default 0).
func WithFill(v float64) Option {
	return func(c *config) {
		c.FillValue = v
	}
}

// WithDropFirst controls whether the first category of each categorical
// column is dropped during one-hot encoding (default true).
func WithDropFirst(drop bool) Option {
	return func(c *config) {
		c.DropFirst = drop
	}
}

// WithIgnore removes columns if present, without requiring them to exist.
func WithIgnore(columns ...string) Option {
	return func(c *config) {
		for _, col := range columns {
			c.Exclude[col] = true
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		DropFirst: true,
		Exclude:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
