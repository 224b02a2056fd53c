package report

import (
	"errors"
	"fmt"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/helpers"
)

// ============================================================================
// SECTIONS — Independent read-and-render passes over the two tables
// ============================================================================
// Each section reads only the Dataset and Config; none consumes another
// section's output. A failing section carries its error and the others
// still build.
// ============================================================================

// SectionID names a report section.
type SectionID string

const (
	SectionGDPGrowth        SectionID = "gdp_growth"
	SectionPopulationGrowth SectionID = "population_growth"
	SectionOverlap          SectionID = "overlap"
	SectionHDIRegion        SectionID = "hdi_region"
	SectionLifeExpectancy   SectionID = "life_expectancy_corr"
	SectionIncome           SectionID = "income_corr"
)

var (
	// ErrUnknownSection is returned for a section id outside the registry.
	ErrUnknownSection = errors.New("unknown section")

	// ErrNoData is returned when a section has no non-missing values to rank.
	ErrNoData = errors.New("no data to rank")
)

// Section is one rendered panel of the report.
type Section struct {
	ID         SectionID           `json:"id"`
	Header     string              `json:"header"`
	Title      string              `json:"title"`
	Period     string              `json:"period,omitempty"`
	Chart      *engine.ChartConfig `json:"chart,omitempty"`
	Tables     []*engine.TableData `json:"tables,omitempty"`
	Annotation *engine.TextData    `json:"annotation,omitempty"`
	Groups     []engine.Group      `json:"groups,omitempty"`

	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the section could not be built.
func (s *Section) Failed() bool { return s.Err != nil }

type buildFunc func(ds *helpers.Dataset, cfg Config) (*Section, error)

type sectionDef struct {
	id     SectionID
	header string
	build  buildFunc
}

var registry = []sectionDef{
	{SectionGDPGrowth, "1.1: Countries with Highest GDP Growth", buildGDPGrowth},
	{SectionPopulationGrowth, "1.2: Countries with Highest Population Growth", buildPopulationGrowth},
	{SectionOverlap, "1.3: Is there overlap between GDP & Population Growth?", buildOverlap},
	{SectionHDIRegion, "2: HDI Growth by Region", buildHDIByRegion},
	{SectionLifeExpectancy, "3: Factors Correlated with Life Expectancy", buildLifeExpectancyCorrelation},
	{SectionIncome, "4: Factors Differentiating High vs Low Income Countries", buildIncomeCorrelation},
}

func lookupSection(id SectionID) (sectionDef, bool) {
	for _, def := range registry {
		if def.id == id {
			return def, true
		}
	}
	return sectionDef{}, false
}

// SectionIDs returns every section id in report order.
func SectionIDs() []SectionID {
	ids := make([]SectionID, len(registry))
	for i, def := range registry {
		ids[i] = def.id
	}
	return ids
}

// BuildSection runs a single section. Build errors are returned on the
// section (Err/Error), only an unknown id is returned as error.
func BuildSection(ds *helpers.Dataset, cfg Config, id SectionID) (*Section, error) {
	def, ok := lookupSection(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, id)
	}
	return runSection(def, ds, cfg), nil
}

func runSection(def sectionDef, ds *helpers.Dataset, cfg Config) (sec *Section) {
	defer func() {
		if r := recover(); r != nil {
			sec = failedSection(def, fmt.Errorf("section panicked: %v", r))
		}
	}()

	sec, err := def.build(ds, cfg)
	if err != nil {
		return failedSection(def, err)
	}
	sec.ID = def.id
	if sec.Header == "" {
		sec.Header = def.header
	}
	return sec
}

func failedSection(def sectionDef, err error) *Section {
	return &Section{
		ID:     def.id,
		Header: def.header,
		Err:    err,
		Error:  err.Error(),
	}
}
