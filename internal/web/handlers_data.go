package web

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/motorlab/internal/core"
	"github.com/JonMunkholm/motorlab/internal/logging"
)

func (s *Server) handleListMasterData(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.ListMasterData(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleLatestMasterData(w http.ResponseWriter, r *http.Request) {
	md, err := s.service.LatestMasterData(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// handleLatestLiveReading returns the newest row written by the test rig.
func (s *Server) handleLatestLiveReading(w http.ResponseWriter, r *http.Request) {
	reading, err := s.service.LatestLiveReading(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status   string             `json:"status"`
	Database string             `json:"database"`
	Service  core.ServiceStatus `json:"service"`
}

// handleHealth reports liveness, database reachability and parse-slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "skipped",
		Service:  s.service.Status(),
	}
	status := http.StatusOK

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			logging.FromContext(r.Context()).Warn("health check: database unreachable", "error", err)
			resp.Status = "degraded"
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}

	writeJSON(w, status, resp)
}
