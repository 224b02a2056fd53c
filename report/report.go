package report

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/helpers"
)

// ============================================================================
// REPORT — Runs every enabled section over one Dataset
// ============================================================================

// previewRows is the number of source rows shown per dataset preview.
const previewRows = 5

// Report is the full output of one run.
type Report struct {
	RunID       string              `json:"runId"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Title       string              `json:"title"`
	Sections    []*Section          `json:"sections"`
	Previews    []*engine.TableData `json:"previews,omitempty"`
}

// Section returns the section with the given id.
func (r *Report) Section(id SectionID) (*Section, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Failed returns the sections that could not be built.
func (r *Report) Failed() []*Section {
	var out []*Section
	for _, s := range r.Sections {
		if s.Failed() {
			out = append(out, s)
		}
	}
	return out
}

// Build runs the enabled sections in order. A section error never stops the
// remaining sections.
func Build(ds *helpers.Dataset, cfg Config) *Report {
	start := time.Now()
	rep := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: start,
		Title:       cfg.Title,
		Previews: []*engine.TableData{
			engine.BuildPreviewTable("Economic indicators", ds.Indicators.View(), nil, previewRows),
			engine.BuildPreviewTable("Human development index", ds.HDI.View(), nil, previewRows),
		},
	}

	logger := log.WithField("run", rep.RunID)
	for _, id := range enabledSections(cfg) {
		def, _ := lookupSection(id)
		sec := runSection(def, ds, cfg)
		if sec.Failed() {
			logger.WithError(sec.Err).Warnf("⚠️  Section %s failed", id)
		} else {
			logger.Debugf("✅ Section %s built", id)
		}
		rep.Sections = append(rep.Sections, sec)
	}

	logger.Infof("📊 Report built: %d sections, %d failed in %s",
		len(rep.Sections), len(rep.Failed()), time.Since(start).Round(time.Millisecond))
	return rep
}

// enabledSections resolves cfg.Sections, skipping unknown ids.
func enabledSections(cfg Config) []SectionID {
	if len(cfg.Sections) == 0 {
		return SectionIDs()
	}
	ids := make([]SectionID, 0, len(cfg.Sections))
	for _, s := range cfg.Sections {
		id := SectionID(s)
		if _, ok := lookupSection(id); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
