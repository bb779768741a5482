package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/motorlab/internal/core"
	"github.com/JonMunkholm/motorlab/internal/logging"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleImport parses an uploaded workbook into a new review session.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	if r.ContentLength > maxSize {
		s.fail(w, r, &http.MaxBytesError{Limit: maxSize})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.fail(w, r, err)
			return
		}
		s.fail(w, r, errNoFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, errNoFile)
		return
	}
	defer file.Close()

	snap, err := s.service.Import(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Sessions())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleResetSession discards a session and its staged rows.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetSession(chi.URLParam(r, "sessionID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateRow merges a partial edit into one row and returns the
// revalidated row. Body: {"minVoltage": 210, "model": "M-1", ...}
func (s *Server) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	index, ok := s.rowIndex(w, r)
	if !ok {
		return
	}

	var patch core.RowPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}

	row, err := s.service.UpdateRow(chi.URLParam(r, "sessionID"), index, patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleRemoveRow(w http.ResponseWriter, r *http.Request) {
	index, ok := s.rowIndex(w, r)
	if !ok {
		return
	}
	if err := s.service.RemoveRow(chi.URLParam(r, "sessionID"), index); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRetryRow(w http.ResponseWriter, r *http.Request) {
	index, ok := s.rowIndex(w, r)
	if !ok {
		return
	}
	row, err := s.service.RetryRow(chi.URLParam(r, "sessionID"), index)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// SyncResponse is returned by the sync endpoint.
type SyncResponse struct {
	Report  core.SyncReport      `json:"report"`
	Session core.SessionSnapshot `json:"session"`
}

// handleSync sends every eligible row of the session to the database.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	report, err := s.service.SyncSession(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	snap, err := s.service.Session(id)
	if err != nil {
		// Reset while the sync was running
		s.fail(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("session synced",
		"session_id", id,
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	writeJSON(w, http.StatusOK, SyncResponse{Report: report, Session: snap})
}

type stepRequest struct {
	Step core.Step `json:"step"`
}

func (s *Server) handleAdvanceStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	snap, err := s.service.AdvanceStep(chi.URLParam(r, "sessionID"), req.Step)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleFailedRowsExport downloads invalid and errored rows as xlsx.
func (s *Server) handleFailedRowsExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.service.FailedRowsReport(chi.URLParam(r, "sessionID"), &buf); err != nil {
		s.fail(w, r, err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	writeAttachment(w, fmt.Sprintf("failed_rows_%s.xlsx", timestamp), &buf)
}

func (s *Server) handleEvaluateRow(w http.ResponseWriter, r *http.Request) {
	index, ok := s.rowIndex(w, r)
	if !ok {
		return
	}
	ev, err := s.service.EvaluateRow(r.Context(), chi.URLParam(r, "sessionID"), index)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

type submitRequest struct {
	SerialNo string `json:"serialNo"`
}

// handleSubmitRow stores the tested result of one unit.
func (s *Server) handleSubmitRow(w http.ResponseWriter, r *http.Request) {
	index, ok := s.rowIndex(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	stored, err := s.service.SubmitRow(r.Context(), chi.URLParam(r, "sessionID"), index, req.SerialNo)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// rowIndex parses the {index} path parameter. A malformed index cannot
// name a row, so it is reported as not found.
func (s *Server) rowIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		s.fail(w, r, core.ErrRowNotFound)
		return 0, false
	}
	return index, true
}

func writeAttachment(w http.ResponseWriter, filename string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}
