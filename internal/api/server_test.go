package api

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/maretraitesuisse/simulator/internal/config"
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/maretraitesuisse/simulator/internal/storage"
)

const annaRequest = `{
  "client": {"first_name": "Anna", "last_name": "Meier", "email": "anna@example.ch"},
  "profile": {
    "current_age": 45,
    "retirement_age": 65,
    "current_salary": 95000,
    "average_income": 82000,
    "years_contributed": 22,
    "marital_status": "Single",
    "occupational_capital": "185000"
  }
}`

func newTestServer(t *testing.T) (*Server, storage.Recorder) {
	t.Helper()
	rules, err := config.NewRulesWatcher("", nil, nil)
	require.NoError(t, err)

	rec, err := storage.NewSQLiteRecorder(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	return NewServer(rules, nil, rec, nil), rec
}

func serve(h fasthttp.RequestHandler, method, uri, body string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	h(ctx)
	return ctx
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &e))
	return e
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := serve(s.Handler(), fasthttp.MethodGet, "/healthz", "")

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
}

func TestRulesEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := serve(s.Handler(), fasthttp.MethodGet, "/api/v1/rules", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var rules domain.LegalRules
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &rules))
	assert.Equal(t, 2025, rules.Year)
	assert.True(t, rules.StatePension.CoupleCeiling.Equal(domain.DefaultLegalRules().StatePension.CoupleCeiling))

	ctx = serve(s.Handler(), fasthttp.MethodPost, "/api/v1/rules", "{}")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestCreateSimulation(t *testing.T) {
	s, rec := newTestServer(t)
	ctx := serve(s.Handler(), fasthttp.MethodPost, "/api/v1/simulations", annaRequest)
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var resp SimulationResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))

	assert.NotEmpty(t, resp.Simulation.ID)
	assert.Equal(t, 2025, resp.Simulation.RulesYear)
	assert.Equal(t, domain.Single, resp.Simulation.Profile.MaritalStatus, "enum spelling is normalized")
	assert.Equal(t, domain.Employed, resp.Simulation.Profile.EmploymentStatus, "employment defaults to employed")
	assert.Equal(t, domain.CapitalDeclared, resp.Simulation.Result.CapitalSource)
	assert.True(t, resp.Simulation.Result.TotalMonthly.IsPositive())

	assert.Equal(t, "Anna MEIER", resp.Notification.Recipient)
	assert.Contains(t, resp.Notification.Body, resp.Simulation.ID)

	stored, err := rec.Get(context.Background(), resp.Simulation.ID)
	require.NoError(t, err)
	assert.True(t, stored.Result.TotalMonthly.Equal(resp.Simulation.Result.TotalMonthly))
}

func TestCreateSimulation_Anonymous(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"profile": {"current_age": 40, "retirement_age": 65, "current_salary": 70000,
		"average_income": 70000, "years_contributed": 18, "marital_status": "married"}}`

	ctx := serve(s.Handler(), fasthttp.MethodPost, "/api/v1/simulations", body)
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var resp SimulationResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.NotNil(t, resp.Simulation.Result.Spouse)
	assert.Equal(t, domain.SpouseUnknown, resp.Simulation.Profile.SpouseAwareness)
	assert.Equal(t, domain.CapitalReconstructed, resp.Simulation.Result.CapitalSource)
}

func TestCreateSimulation_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed JSON", `{"profile":`, "Invalid request body"},
		{"retirement before current age", `{"profile": {"current_age": 60, "retirement_age": 55, "marital_status": "single"}}`,
			"must be greater than current age"},
		{"bad marital status", `{"profile": {"current_age": 40, "retirement_age": 65, "marital_status": "widowed"}}`,
			"invalid marital status"},
		{"bad email", `{"client": {"first_name": "Anna", "email": "not-an-email"},
			"profile": {"current_age": 40, "retirement_age": 65, "marital_status": "single"}}`, "invalid email"},
	}

	s, _ := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := serve(s.Handler(), fasthttp.MethodPost, "/api/v1/simulations", tt.body)
			assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

			e := decodeError(t, ctx)
			assert.Equal(t, fasthttp.StatusBadRequest, e.Status)
			assert.Contains(t, e.Message, tt.message)
		})
	}
}

func TestListSimulations(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	for i := 0; i < 3; i++ {
		ctx := serve(h, fasthttp.MethodPost, "/api/v1/simulations", annaRequest)
		require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())
	}

	ctx := serve(h, fasthttp.MethodGet, "/api/v1/simulations?limit=2", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var records []storage.Record
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &records))
	assert.Len(t, records, 2)

	ctx = serve(h, fasthttp.MethodGet, "/api/v1/simulations", "")
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &records))
	assert.Len(t, records, 3)

	ctx = serve(h, fasthttp.MethodGet, "/api/v1/simulations?limit=abc", "")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestListSimulations_EmptyIsArray(t *testing.T) {
	s := NewServer(domainRules{}, nil, nil, nil)
	ctx := serve(s.Handler(), fasthttp.MethodGet, "/api/v1/simulations", "")

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "[]", string(ctx.Response.Body()))
}

func TestGetSimulation(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	ctx := serve(h, fasthttp.MethodPost, "/api/v1/simulations", annaRequest)
	var created SimulationResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &created))
	id := created.Simulation.ID

	ctx = serve(h, fasthttp.MethodGet, "/api/v1/simulations/"+id, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var rec storage.Record
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &rec))
	assert.Equal(t, id, rec.ID)

	ctx = serve(h, fasthttp.MethodGet, "/api/v1/simulations/"+id+"?format=html", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "text/html; charset=utf-8", string(ctx.Response.Header.ContentType()))
	assert.True(t, strings.HasPrefix(string(ctx.Response.Body()), "<!DOCTYPE html>"))
	assert.Contains(t, string(ctx.Response.Body()), "Legal figures: 2025")

	ctx = serve(h, fasthttp.MethodGet, "/api/v1/simulations/"+id+"?format=csv", "")
	assert.Equal(t, "text/csv; charset=utf-8", string(ctx.Response.Header.ContentType()))
	assert.Contains(t, string(ctx.Response.Body()), "Anna MEIER,anna@example.ch,45,65")

	ctx = serve(h, fasthttp.MethodGet, "/api/v1/simulations/"+id+"?format=pdf", "")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, decodeError(t, ctx).Message, "Try one of:")
}

func TestGetSimulation_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := serve(s.Handler(), fasthttp.MethodGet, "/api/v1/simulations/missing", "")

	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, "Simulation missing not found", decodeError(t, ctx).Message)
}

func TestRouting(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	assert.Equal(t, fasthttp.StatusNotFound, serve(h, fasthttp.MethodGet, "/unknown", "").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, serve(h, fasthttp.MethodDelete, "/api/v1/simulations", "").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, serve(h, fasthttp.MethodPut, "/api/v1/simulations/abc", "").Response.StatusCode())
}

func TestServeAndShutdown(t *testing.T) {
	s, _ := newTestServer(t)
	ln := fasthttputil.NewInmemoryListener()

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
	status, body, err := client.Get(nil, "http://retraite/healthz")
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), "ok")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

// domainRules serves the built-in defaults without a watcher
type domainRules struct{}

func (domainRules) Rules() domain.LegalRules { return domain.DefaultLegalRules() }
