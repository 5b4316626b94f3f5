// Package api is a thin HTTP wrapper around the verification service:
// it constructs flight plans from request bodies and prints results.
// No algorithmic content lives here.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"skyverify/internal/flightplan"
	"skyverify/internal/verify"
)

// Server exposes the verification query API over HTTP.
type Server struct {
	svc    *verify.Service
	logger *slog.Logger
	mux    *http.ServeMux
}

// missionRequest is the wire shape of a mission to verify.
type missionRequest struct {
	UAVID     string                `json:"uav_id"`
	Speed     float64               `json:"speed"`
	Waypoints []flightplan.Waypoint `json:"waypoints"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer wires the routes.
func NewServer(svc *verify.Service, logger *slog.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /verify", s.handleVerify)
	s.mux.HandleFunc("GET /airspace", s.handleAirspace)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s
}

// Handler returns the route multiplexer, for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req missionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	speed := req.Speed
	if speed == 0 {
		speed = flightplan.DefaultSpeed
	}
	mission, err := flightplan.NewWithSpeed(req.UAVID, speed, req.Waypoints)
	if err != nil {
		// Construction errors are the caller's problem, not ours.
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result := s.svc.VerifyMission(mission)
	s.logger.Info("mission verified",
		"uav_id", mission.UAVID(),
		"status", result.Status,
		"conflicts", len(result.Conflicts))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("encode result", "error", err)
	}
}

func (s *Server) handleAirspace(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.svc.AirspaceStats())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	var msg string
	if err != nil {
		msg = err.Error()
	}
	if errors.Is(err, flightplan.ErrTooFewWaypoints) ||
		errors.Is(err, flightplan.ErrNonIncreasingTime) ||
		errors.Is(err, flightplan.ErrNonFiniteValue) {
		code = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
