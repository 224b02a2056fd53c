package schema

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column classification
// ============================================================================
// Inspects raw cell text and generates a schema.Config.
//
// Classification pipeline per column:
//   1. Drop null markers ("", "NA", "..", ...) → count nulls
//   2. Detect type (numeric vs text), or take it from a typed source
//   3. Type + name + cardinality → role (measure, dimension, identifier)
//   4. Pattern matching → temporal columns, units, hierarchies
//
// Numeric columns are always measures, including all-empty ones: downstream
// steps fill them with zero like any other missing measure. Identifier
// columns stay loadable as dimensions but are listed in SkippedColumns so
// analysis steps know to leave them out.
// ============================================================================

// ErrNoColumns is returned when a table has no header row.
var ErrNoColumns = errors.New("table has no columns")

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize       int      // Max rows to inspect (0 = all)
	NumericThreshold float64  // Share of non-null cells that must parse as numbers. Default: 1.0
	RecoverColumns   []string // Force-include identifier columns as plain dimensions
	Identifiers      []string // Extra header names to treat as identifiers
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{NumericThreshold: 1.0}
}

// ColumnKind tells Describe whether a source already typed a column.
type ColumnKind int

const (
	KindAuto ColumnKind = iota
	KindNumeric
	KindText
)

// ColumnInfo is one column of a source table as cell text.
type ColumnInfo struct {
	Header string
	Kind   ColumnKind
	Values []string
}

// Discover generates a schema.Config from a header row and string rows.
// Short rows are padded with nulls.
func Discover(name string, headers []string, rows [][]string, opts ...DiscoverOptions) (*Config, error) {
	if len(headers) == 0 {
		return nil, ErrNoColumns
	}

	opt := resolveOptions(opts)
	if opt.SampleSize > 0 && len(rows) > opt.SampleSize {
		rows = rows[:opt.SampleSize]
	}

	columns := make([]ColumnInfo, len(headers))
	for i, h := range headers {
		values := make([]string, len(rows))
		for r, row := range rows {
			if i < len(row) {
				values[r] = row[i]
			}
		}
		columns[i] = ColumnInfo{Header: h, Values: values}
	}
	return Describe(name, columns, opt)
}

// Describe builds a schema.Config from column-wise cell text. Typed sources
// (e.g. a dataframe that already detected its column types) pass KindNumeric
// or KindText to bypass type detection.
func Describe(name string, columns []ColumnInfo, opts ...DiscoverOptions) (*Config, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	opt := resolveOptions(opts)

	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		h := strings.TrimSpace(c.Header)
		if h == "" {
			return nil, fmt.Errorf("%s: empty column header", name)
		}
		if seen[h] {
			return nil, fmt.Errorf("%s: duplicate column %q", name, h)
		}
		seen[h] = true
	}

	identifiers := make(map[string]bool)
	for _, id := range opt.Identifiers {
		identifiers[strings.ToLower(id)] = true
	}
	recoverSet := make(map[string]bool)
	for _, col := range opt.RecoverColumns {
		recoverSet[strings.ToLower(col)] = true
	}

	totalRows := 0
	analyses := make([]columnAnalysis, len(columns))
	for i, c := range columns {
		analyses[i] = analyzeColumn(c, opt.NumericThreshold, identifiers)
		if len(c.Values) > totalRows {
			totalRows = len(c.Values)
		}
	}

	config := &Config{
		Name:           name,
		Version:        "1.0",
		Rows:           totalRows,
		DiscoveredFrom: "table",
		DiscoveredAt:   time.Now().Format(time.RFC3339),
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	for _, col := range analyses {
		switch col.role {
		case roleMeasure:
			config.Measures = append(config.Measures, col.toMeasure())
			if col.uniqueCount == 0 {
				config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
					Column: col.header, Reason: "All values are empty/null",
				})
			}

		case roleDimension:
			config.Dimensions = append(config.Dimensions, col.toDimension())

		case roleIdentifier:
			config.Dimensions = append(config.Dimensions, col.toDimension())
			if recoverSet[strings.ToLower(col.header)] || recoverSet[col.slug] {
				continue
			}
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column:      col.header,
				Reason:      col.skipReason,
				Recoverable: true,
			})
		}
	}

	detectHierarchies(config.Dimensions, columns)
	return config, nil
}

func resolveOptions(opts []DiscoverOptions) DiscoverOptions {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.NumericThreshold <= 0 || opt.NumericThreshold > 1 {
		opt.NumericThreshold = 1.0
	}
	return opt
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleIdentifier
)

type columnAnalysis struct {
	header     string
	slug       string
	role       columnRole
	skipReason string

	// Stats
	uniqueCount int
	totalCount  int
	nullCount   int
	sampleVals  []string

	isTemporal      bool
	unit            string
	cardinalityHint string
}

// identifierNames are headers that name or code an entity rather than
// describe it.
var identifierNames = map[string]bool{
	"country name": true,
	"country code": true,
	"country":      true,
	"iso3":         true,
	"iso2":         true,
	"id":           true,
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(c ColumnInfo, threshold float64, extraIDs map[string]bool) columnAnalysis {
	header := strings.TrimSpace(c.Header)
	col := columnAnalysis{
		header:     header,
		slug:       Key(header),
		totalCount: len(c.Values),
	}

	values := make([]string, 0, len(c.Values))
	uniqueSet := make(map[string]bool)
	for _, raw := range c.Values {
		val := strings.TrimSpace(raw)
		if IsNull(val) {
			col.nullCount++
			continue
		}
		values = append(values, val)
		uniqueSet[val] = true
	}
	col.uniqueCount = len(uniqueSet)
	col.sampleVals = collectSamples(uniqueSet, 10)

	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}

	numeric := c.Kind == KindNumeric
	if c.Kind == KindAuto {
		numeric = len(values) == 0 || detectNumeric(values, threshold)
	}
	if numeric {
		col.role = roleMeasure
		col.unit = detectUnit(header)
		col.isTemporal = detectTemporal(header, values)
		return col
	}

	lower := strings.ToLower(header)
	switch {
	case identifierNames[lower] || extraIDs[lower]:
		col.role = roleIdentifier
		col.skipReason = "Identifier column"
	case col.uniqueCount == col.totalCount-col.nullCount && col.uniqueCount > 10:
		// Every value unique → likely an ID or free text
		col.role = roleIdentifier
		col.skipReason = "Unique per row — likely an identifier"
	default:
		col.role = roleDimension
	}
	return col
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

var nullMarkers = map[string]bool{
	"": true, "null": true, "NULL": true, "N/A": true, "n/a": true,
	"NA": true, "NaN": true, "nan": true, "..": true, "#N/A": true,
}

// IsNull reports whether a trimmed cell is a missing-value marker.
func IsNull(s string) bool { return nullMarkers[s] }

// ParseNumber parses a numeric cell, accepting thousands separators.
// Null markers and text return ok=false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// detectNumeric requires threshold share of non-null values to parse.
func detectNumeric(values []string, threshold float64) bool {
	numCount := 0
	for _, v := range values {
		if _, ok := ParseNumber(v); ok {
			numCount++
		}
	}
	return float64(numCount) >= float64(len(values))*threshold
}

// ============================================================================
// SPECIAL PATTERN DETECTION
// ============================================================================

var yearPattern = regexp.MustCompile(`^(1[89]|2[01])\d{2}(\.0+)?$`)

// detectTemporal marks year-like columns: named "year" or holding only
// four-digit years.
func detectTemporal(header string, values []string) bool {
	if strings.EqualFold(header, "year") {
		return true
	}
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if !yearPattern.MatchString(v) {
			return false
		}
	}
	return true
}

var unitPatterns = []struct {
	re   *regexp.Regexp
	unit string
}{
	{regexp.MustCompile(`(?i)\(usd\)|\$`), "usd"},
	{regexp.MustCompile(`(?i)\(%\)|percent|%`), "percent"},
	{regexp.MustCompile(`(?i)\(years\)`), "years"},
	{regexp.MustCompile(`(?i)per 1,?000`), "per_1000"},
	{regexp.MustCompile(`(?i)^hdi`), "index"},
}

func detectUnit(header string) string {
	for _, p := range unitPatterns {
		if p.re.MatchString(header) {
			return p.unit
		}
	}
	return ""
}

// ============================================================================
// HIERARCHY DETECTION
// ============================================================================

// detectHierarchies finds parent/child relationships between dimensions.
// If every value of dimension B maps to exactly one value of dimension A,
// and A has fewer unique values, then A is parent of B.
// When multiple valid parents exist, picks the closest (highest cardinality).
func detectHierarchies(dimensions []DimensionMeta, columns []ColumnInfo) {
	values := make(map[string][]string, len(columns))
	for _, c := range columns {
		values[strings.TrimSpace(c.Header)] = c.Values
	}
	uniques := make(map[string]int, len(dimensions))
	for _, d := range dimensions {
		set := make(map[string]bool)
		for _, v := range values[d.Key] {
			if v = strings.TrimSpace(v); !IsNull(v) {
				set[v] = true
			}
		}
		uniques[d.Key] = len(set)
	}

	for i := range dimensions {
		childKey := dimensions[i].Key
		bestParent := ""
		bestParentUniques := 0

		for j := range dimensions {
			parentKey := dimensions[j].Key
			if i == j || uniques[parentKey] >= uniques[childKey] {
				continue
			}
			if isFunctionOf(values[childKey], values[parentKey]) && uniques[parentKey] > bestParentUniques {
				bestParent = parentKey
				bestParentUniques = uniques[parentKey]
			}
		}

		if bestParent != "" {
			dimensions[i].Parent = bestParent
		}
	}
}

// isFunctionOf reports whether every child value maps to exactly one
// parent value, ignoring rows where either side is null.
func isFunctionOf(child, parent []string) bool {
	childToParent := make(map[string]string)
	for r := range child {
		if r >= len(parent) {
			break
		}
		c, p := strings.TrimSpace(child[r]), strings.TrimSpace(parent[r])
		if IsNull(c) || IsNull(p) {
			continue
		}
		if existing, ok := childToParent[c]; ok {
			if existing != p {
				return false
			}
		} else {
			childToParent[c] = p
		}
	}
	return len(childToParent) > 1
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

func (col *columnAnalysis) toDimension() DimensionMeta {
	return DimensionMeta{
		Key:             col.header,
		Slug:            col.slug,
		DisplayName:     toDisplayName(col.header),
		SampleValues:    col.sampleVals,
		Groupable:       true,
		Filterable:      true,
		CardinalityHint: col.cardinalityHint,
		NullCount:       col.nullCount,
	}
}

func (col *columnAnalysis) toMeasure() MeasureMeta {
	return MeasureMeta{
		Key:         col.header,
		Slug:        col.slug,
		DisplayName: toDisplayName(col.header),
		Unit:        col.unit,
		IsTemporal:  col.isTemporal,
		NullCount:   col.nullCount,
	}
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// Key converts a header into a snake_case lookup key:
// "GDP per capita (USD)" → "gdp_per_capita_usd", "hdi_2021" → "hdi_2021",
// "IncomeGroup" → "income_group".
func Key(s string) string {
	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	out := strings.ToLower(result.String())
	out = nonWord.ReplaceAllString(out, "_")
	return strings.Trim(out, "_")
}

// toDisplayName cleans a header for human display.
// "hdi_2021" → "Hdi 2021", "Life expectancy at birth (years)" unchanged.
func toDisplayName(s string) string {
	// If already has spaces/mixed case, just trim
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples representative values.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}

	// Sort for deterministic output
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
