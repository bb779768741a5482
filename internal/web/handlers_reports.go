package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/motorlab/internal/logging"
)

// handleTestedReport downloads tested results as xlsx.
// Query: from=YYYY-MM-DD, to=YYYY-MM-DD, model=<name>; all optional.
func (s *Server) handleTestedReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := s.service.ReportFilter(q.Get("from"), q.Get("to"), q.Get("model"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	n, err := s.service.TestedReport(r.Context(), filter, &buf)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("tested report generated",
		"from", filter.From.Format("2006-01-02"),
		"to", filter.To.Format("2006-01-02"),
		"model", filter.Model,
		"rows", n,
	)

	last := filter.To.AddDate(0, 0, -1)
	name := fmt.Sprintf("tested_data_%s_%s.xlsx", filter.From.Format("20060102"), last.Format("20060102"))
	writeAttachment(w, name, &buf)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.service.Models(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

// handleDailyStats returns today's totals and failure breakdown.
func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.TodayStats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
