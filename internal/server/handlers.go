package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/san-kum/structdyn/internal/analysis"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/material"
	"github.com/san-kum/structdyn/internal/reaction"
	"github.com/san-kum/structdyn/internal/storage"
	"github.com/san-kum/structdyn/internal/vehicle"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

// statusOf maps the error taxonomy to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, dynamo.ErrInvalidRequest), errors.Is(err, dynamo.ErrDimensionMismatch):
		return http.StatusBadRequest
	case errors.Is(err, dynamo.ErrIOConflict):
		return http.StatusConflict
	case errors.Is(err, dynamo.ErrSingularMatrix):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// decode reads a JSON body into v, which should already hold the
// defaults. Unknown fields are rejected.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, dynamo.Invalid("request body: %v", err))
		return false
	}
	return true
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) materials(w http.ResponseWriter, r *http.Request) {
	names := material.List()
	out := make([]material.Material, 0, len(names))
	for _, name := range names {
		m, err := material.Get(name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out = append(out, m)
	}
	writeJSON(w, http.StatusOK, out)
}

type reactionsRequest struct {
	Geometry     reaction.Geometry `json:"geometry"`
	AppliedForce reaction.Vector3  `json:"applied_force"`
	Decimals     *int              `json:"decimals,omitempty"`
}

type reactionsResponse struct {
	reaction.Result
	ResidualForce  reaction.Vector3 `json:"residual_force"`
	ResidualMoment reaction.Vector3 `json:"residual_moment"`
	Balanced       bool             `json:"balanced"`
}

func (s *Server) reactions(w http.ResponseWriter, r *http.Request) {
	var req reactionsRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := reaction.Solve(req.AppliedForce, req.Geometry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	force, moment := reaction.Residual(res, req.AppliedForce, req.Geometry)
	if req.Decimals != nil {
		res = res.Round(*req.Decimals)
	}
	writeJSON(w, http.StatusOK, reactionsResponse{
		Result:         res,
		ResidualForce:  force,
		ResidualMoment: moment,
		Balanced:       reaction.Balanced(force, moment),
	})
}

func (s *Server) static(w http.ResponseWriter, r *http.Request) {
	var req analysis.StaticRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := analysis.RunStatic(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) fatigue(w http.ResponseWriter, r *http.Request) {
	var req analysis.FatigueRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := analysis.RunFatigue(r.Context(), req, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) knuckle(w http.ResponseWriter, r *http.Request) {
	var req analysis.KnuckleRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := analysis.RunKnuckle(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// newModel returns the defaults of the model named in the route.
func newModel(name string) vehicle.Model {
	switch name {
	case "half-car":
		return vehicle.NewHalfCar()
	case "two-mass":
		return vehicle.NewTwoMass()
	default:
		return vehicle.NewQuarterCar()
	}
}

// modelRequest carries a partial model over the defaults of the route's
// model.
type modelRequest struct {
	Model   json.RawMessage         `json:"model,omitempty"`
	Options analysis.DynamicOptions `json:"options"`
}

func (s *Server) decodeModel(w http.ResponseWriter, r *http.Request, raw json.RawMessage) (vehicle.Model, bool) {
	m := newModel(mux.Vars(r)["model"])
	if len(raw) == 0 {
		return m, true
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(m); err != nil {
		writeError(w, r, dynamo.Invalid("model: %v", err))
		return nil, false
	}
	return m, true
}

func (s *Server) dynamic(w http.ResponseWriter, r *http.Request) {
	req := modelRequest{Options: analysis.DynamicOptions{TimeStep: 0.001, FinalTime: 2}}
	if !s.decode(w, r, &req) {
		return
	}
	m, ok := s.decodeModel(w, r, req.Model)
	if !ok {
		return
	}
	res, err := analysis.RunDynamic(r.Context(), m, req.Options, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) beam(w http.ResponseWriter, r *http.Request) {
	var req analysis.BeamRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := analysis.RunBeam(r.Context(), req, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type sweepRequest struct {
	Model json.RawMessage       `json:"model,omitempty"`
	Sweep analysis.SweepRequest `json:"sweep"`
}

func (s *Server) sweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if !s.decode(w, r, &req) {
		return
	}
	base, ok := s.decodeModel(w, r, req.Model)
	if !ok {
		return
	}
	if n := gridSize(req.Sweep.Parameters); n > s.opts.MaxSweepItems {
		writeError(w, r, dynamo.Invalid("sweep has %d items, limit is %d", n, s.opts.MaxSweepItems))
		return
	}
	if req.Sweep.Workers <= 0 {
		req.Sweep.Workers = s.opts.Workers
	}
	res, err := analysis.RunSweep(r.Context(), base, req.Sweep, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func gridSize(params []analysis.SweepParameter) int {
	if len(params) == 0 {
		return 0
	}
	n := 1
	for _, p := range params {
		n *= len(p.Values)
	}
	return n
}

func writePDF(w http.ResponseWriter, r *http.Request, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("writing report: %v", err)
	}
}

func reportTitle(r *http.Request, fallback string) string {
	if t := r.URL.Query().Get("title"); t != "" {
		return t
	}
	return fallback
}

func (s *Server) staticReport(w http.ResponseWriter, r *http.Request) {
	var req analysis.StaticRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := analysis.RunStatic(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePDF(w, r, func(out io.Writer) error {
		return storage.WriteStaticReport(out, reportTitle(r, "Static analysis"), res)
	})
}

func (s *Server) fatigueReport(w http.ResponseWriter, r *http.Request) {
	var req analysis.FatigueRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := analysis.RunFatigue(r.Context(), req, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePDF(w, r, func(out io.Writer) error {
		return storage.WriteFatigueReport(out, reportTitle(r, "Fatigue analysis"), res)
	})
}
