package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/maretraitesuisse/simulator/internal/calculation"
	"github.com/maretraitesuisse/simulator/internal/config"
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/maretraitesuisse/simulator/internal/output"
	"github.com/maretraitesuisse/simulator/internal/storage"
)

const (
	simulationsPath = "/api/v1/simulations"
	rulesPath       = "/api/v1/rules"
	healthPath      = "/healthz"

	defaultListLimit = 50
	maxListLimit     = 500
	maxBodySize      = 1 << 20
)

// RulesSource provides the legal rule set in force. Each request takes one snapshot.
type RulesSource interface {
	Rules() domain.LegalRules
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// SimulationRequest is the intake document of POST /api/v1/simulations
type SimulationRequest struct {
	Client  domain.Client        `json:"client"`
	Profile domain.PersonProfile `json:"profile"`
}

// SimulationResponse pairs the stored record with the client summary
type SimulationResponse struct {
	Simulation   storage.Record      `json:"simulation"`
	Notification output.Notification `json:"notification"`
}

// Server exposes the simulator over HTTP
type Server struct {
	rules    RulesSource
	parser   *config.InputParser
	recorder storage.Recorder
	logger   calculation.Logger
	srv      *fasthttp.Server
}

// NewServer wires the HTTP handlers. A nil recorder disables persistence.
func NewServer(rules RulesSource, parser *config.InputParser, recorder storage.Recorder, logger calculation.Logger) *Server {
	if parser == nil {
		parser = config.NewInputParser()
	}
	if recorder == nil {
		recorder = storage.NewNoopRecorder()
	}
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	s := &Server{rules: rules, parser: parser, recorder: recorder, logger: logger}
	s.srv = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "retraite",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       30 * time.Second,
		MaxRequestBodySize: maxBodySize,
	}
	return s
}

// ListenAndServe blocks until the server stops
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Infof("simulator API listening on %s", addr)
	return s.srv.ListenAndServe(addr)
}

// Serve accepts connections from ln until the server stops
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for open requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

// Handler routes requests to the API endpoints
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		path := string(ctx.Path())

		switch {
		case path == healthPath:
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		case path == rulesPath:
			if !ctx.IsGet() {
				writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
				break
			}
			writeJSON(ctx, fasthttp.StatusOK, s.rules.Rules())
		case path == simulationsPath:
			switch {
			case ctx.IsPost():
				s.handleCreate(ctx)
			case ctx.IsGet():
				s.handleList(ctx)
			default:
				writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			}
		case strings.HasPrefix(path, simulationsPath+"/"):
			if !ctx.IsGet() {
				writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
				break
			}
			s.handleGet(ctx, strings.TrimPrefix(path, simulationsPath+"/"))
		default:
			writeError(ctx, fasthttp.StatusNotFound, "Not found")
		}

		s.logger.Debugf("%s %s %d (%s)", ctx.Method(), path, ctx.Response.StatusCode(), time.Since(start))
	}
}

func (s *Server) handleCreate(ctx *fasthttp.RequestCtx) {
	var req SimulationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Client != (domain.Client{}) {
		if err := s.parser.ValidateClient(&req.Client); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
	}
	if err := s.parser.ValidateProfile(&req.Profile); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	rules := s.rules.Rules()
	engine := calculation.NewCalculationEngineWithRules(rules)
	engine.SetLogger(s.logger)

	result, err := engine.Calculate(ctx, req.Profile)
	if err != nil {
		s.logger.Errorf("calculate: %v", err)
		writeError(ctx, fasthttp.StatusServiceUnavailable, "Calculation interrupted")
		return
	}

	rec, err := s.recorder.Save(ctx, domain.Simulation{Client: req.Client, Result: *result}, rules.Year)
	if err != nil {
		s.logger.Errorf("save simulation: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to store simulation")
		return
	}

	s.logger.Infof("simulation %s stored for %q", rec.ID, rec.Client.DisplayName())
	writeJSON(ctx, fasthttp.StatusCreated, SimulationResponse{
		Simulation:   rec,
		Notification: output.BuildNotification(rec.Simulation()),
	})
}

func (s *Server) handleList(ctx *fasthttp.RequestCtx) {
	limit := defaultListLimit
	if ctx.QueryArgs().Has("limit") {
		n, err := ctx.QueryArgs().GetUint("limit")
		if err != nil || n == 0 {
			writeError(ctx, fasthttp.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	records, err := s.recorder.List(ctx, limit)
	if err != nil {
		s.logger.Errorf("list simulations: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to list simulations")
		return
	}
	if records == nil {
		records = []storage.Record{}
	}
	writeJSON(ctx, fasthttp.StatusOK, records)
}

func (s *Server) handleGet(ctx *fasthttp.RequestCtx, id string) {
	if id == "" || strings.Contains(id, "/") {
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
		return
	}

	rec, err := s.recorder.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("Simulation %s not found", id))
		return
	}
	if err != nil {
		s.logger.Errorf("get simulation %s: %v", id, err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to load simulation")
		return
	}

	format := string(ctx.QueryArgs().Peek("format"))
	if format == "" {
		writeJSON(ctx, fasthttp.StatusOK, rec)
		return
	}

	report := &domain.SimulationReport{
		RulesYear:   rec.RulesYear,
		GeneratedAt: rec.CreatedAt,
		Simulations: []domain.Simulation{rec.Simulation()},
	}
	if rules := s.rules.Rules(); rules.Year == rec.RulesYear {
		report.Assumptions = output.GenerateAssumptions(rules)
	}

	body, f, err := output.RenderReport(report, format)
	if errors.Is(err, output.ErrUnsupportedFormat) {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Errorf("render simulation %s: %v", id, err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to render report")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(output.ContentType(f))
	ctx.SetBody(body)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}
