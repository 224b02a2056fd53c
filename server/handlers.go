package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/spektr-org/worlddash/render"
	"github.com/spektr-org/worlddash/report"
)

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rep, err := s.currentReport()
	if err != nil {
		http.Error(w, "report unavailable: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.HTML(w, rep, true); err != nil {
		log.WithError(err).Error("❌ Page render failed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.currentReport()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	sec, status, err := s.section(r)
	if err != nil {
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, sec)
}

func (s *Server) handleSectionCSV(w http.ResponseWriter, r *http.Request) {
	sec, status, err := s.section(r)
	if err != nil {
		writeError(w, status, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+string(sec.ID)+`.csv"`)
	if err := render.CSV(w, sec); err != nil {
		log.WithError(err).Error("❌ CSV render failed")
	}
}

func (s *Server) handleSectionSVG(w http.ResponseWriter, r *http.Request) {
	sec, status, err := s.section(r)
	if err != nil {
		writeError(w, status, err)
		return
	}
	if sec.Failed() {
		writeError(w, http.StatusUnprocessableEntity, sec.Err)
		return
	}

	svg, err := render.SVG(sec.Chart)
	if errors.Is(err, render.ErrEmptyChart) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.reset()
	rep, err := s.currentReport()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	log.WithField("run", rep.RunID).Info("🔄 Report reloaded")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runId":    rep.RunID,
		"sections": len(rep.Sections),
		"failed":   len(rep.Failed()),
	})
}

// section resolves the {id} route variable against the current report.
func (s *Server) section(r *http.Request) (*report.Section, int, error) {
	id := report.SectionID(mux.Vars(r)["id"])
	rep, err := s.currentReport()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	sec, ok := rep.Section(id)
	if !ok {
		return nil, http.StatusNotFound, report.ErrUnknownSection
	}
	return sec, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := render.JSON(w, v, false); err != nil {
		log.WithError(err).Error("❌ JSON encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
