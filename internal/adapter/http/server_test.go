package httpadapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/launch-feasibility-service/internal/adapter/http"
	"github.com/couchcryptid/launch-feasibility-service/internal/adapter/llm"
	"github.com/couchcryptid/launch-feasibility-service/internal/advisor"
	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAnalyzer struct {
	report domain.AnalysisReport
	err    error
	last   domain.AnalysisRequest
}

func (m *mockAnalyzer) Analyze(_ context.Context, req domain.AnalysisRequest) (domain.AnalysisReport, error) {
	m.last = req
	if err := req.Validate(); err != nil {
		return domain.AnalysisReport{}, err
	}
	return m.report, m.err
}

type mockAdvisor struct {
	weather    advisor.WeatherReport
	weatherErr error
	stream     string
	chatErr    error
	lastChat   domain.ChatRequest
}

func (m *mockAdvisor) Weather(_ context.Context, req domain.WeatherRequest) (advisor.WeatherReport, error) {
	if err := req.Validate(); err != nil {
		return advisor.WeatherReport{}, err
	}
	return m.weather, m.weatherErr
}

func (m *mockAdvisor) Chat(_ context.Context, req domain.ChatRequest) (io.ReadCloser, error) {
	m.lastChat = req
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	return io.NopCloser(strings.NewReader(m.stream)), nil
}

type mockGeocoder struct {
	result domain.GeocodingResult
	err    error
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	return m.result, m.err
}

type fixture struct {
	srv      *httpadapter.Server
	analyzer *mockAnalyzer
	advisor  *mockAdvisor
	metrics  *observability.Metrics
}

func newFixture(geocoder domain.ReverseGeocoder) *fixture {
	f := &fixture{
		analyzer: &mockAnalyzer{report: domain.BuildReport(domain.Coordinates{Lat: 28.4, Lng: -80.6}, nil, domain.RocketModel, "")},
		advisor:  &mockAdvisor{weather: advisor.WeatherReport{Analysis: "## Climate Overview"}},
		metrics:  observability.NewMetricsForTesting(),
	}
	f.srv = httpadapter.NewServer(":0", httpadapter.Deps{
		Analyzer: f.analyzer,
		Advisor:  f.advisor,
		Geocoder: geocoder,
		Metrics:  f.metrics,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, r)
	f.srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	rec := newFixture(nil).do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	f := newFixture(nil)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/readyz", "").Code)

	f.srv.MarkDraining()
	require.ErrorIs(t, f.srv.CheckReadiness(context.Background()), httpadapter.ErrDraining)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/readyz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := newFixture(nil).do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- CORS ---

func TestOptionsAnyPathReturns204(t *testing.T) {
	for _, path := range []string{"/analyze-location", "/chat-support", "/does-not-exist"} {
		rec := newFixture(nil).do(http.MethodOptions, path, "")
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	f := newFixture(nil)
	for _, rec := range []*httptest.ResponseRecorder{
		f.do(http.MethodPost, "/analyze-location", `{"coordinates":{"lat":28.4,"lng":-80.6},"rocketType":"model"}`),
		f.do(http.MethodPost, "/analyze-location", `{`),
		f.do(http.MethodGet, "/healthz", ""),
	} {
		h := rec.Header()
		assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "authorization, x-client-info, apikey, content-type", h.Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "GET, POST, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	}
}

// --- analyze-location ---

func TestAnalyzeLocation_OK(t *testing.T) {
	f := newFixture(nil)
	rec := f.do(http.MethodPost, "/analyze-location",
		`{"location":"Cape Canaveral","coordinates":{"lat":28.4,"lng":-80.6},"rocketType":"model","modelSubType":"hobby"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]domain.CategoryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 6)
	for _, c := range domain.Categories {
		assert.Contains(t, body, string(c))
	}

	assert.Equal(t, "Cape Canaveral", f.analyzer.last.Location)
	assert.Equal(t, domain.ModelHobby, f.analyzer.last.ModelSubType)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.HTTPRequests.WithLabelValues("analyze_location", "200")), 0)
}

func TestAnalyzeLocation_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"coordinates":`},
		{name: "missing coordinates", body: `{"rocketType":"model"}`},
		{name: "unknown rocket type", body: `{"coordinates":{"lat":1,"lng":2},"rocketType":"orbital"}`},
		{name: "latitude out of range", body: `{"coordinates":{"lat":120,"lng":2},"rocketType":"model"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newFixture(nil).do(http.MethodPost, "/analyze-location", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec))
		})
	}
}

func TestAnalyzeLocation_BodyTooLarge(t *testing.T) {
	body := `{"location":"` + strings.Repeat("a", 2<<20) + `"}`
	rec := newFixture(nil).do(http.MethodPost, "/analyze-location", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAnalyzeLocation_InternalError(t *testing.T) {
	f := newFixture(nil)
	f.analyzer.err = errors.New("scoring exploded")

	rec := f.do(http.MethodPost, "/analyze-location", `{"coordinates":{"lat":1,"lng":2},"rocketType":"model"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "scoring exploded", decodeError(t, rec))
}

func TestAnalyzeLocation_WrongMethod(t *testing.T) {
	rec := newFixture(nil).do(http.MethodGet, "/analyze-location", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// --- analyze-weather ---

func TestAnalyzeWeather_OK(t *testing.T) {
	rec := newFixture(nil).do(http.MethodPost, "/analyze-weather",
		`{"latitude":28.4,"longitude":-80.6,"locationName":"Cape Canaveral"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"analysis":"## Climate Overview"}`, rec.Body.String())
}

func TestAnalyzeWeather_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "rate limited", err: llm.ErrRateLimited, status: http.StatusTooManyRequests,
			message: "Rate limits exceeded, please try again later."},
		{name: "payment required", err: llm.ErrPaymentRequired, status: http.StatusPaymentRequired,
			message: "Payment required, please add funds to your workspace."},
		{name: "upstream", err: &llm.UpstreamError{StatusCode: 503, Body: "overloaded"},
			status: http.StatusInternalServerError, message: "AI gateway error"},
		{name: "not configured", err: llm.ErrNotConfigured, status: http.StatusInternalServerError,
			message: "LLM_API_KEY is not configured"},
		{name: "empty analysis", err: advisor.ErrNoAnalysis, status: http.StatusInternalServerError,
			message: "no analysis received from AI"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			f.advisor.weatherErr = tt.err

			rec := f.do(http.MethodPost, "/analyze-weather", `{"latitude":1,"longitude":2}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec))
		})
	}
}

func TestAnalyzeWeather_MissingCoordinates(t *testing.T) {
	rec := newFixture(nil).do(http.MethodPost, "/analyze-weather", `{"locationName":"Nowhere"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- chat-support ---

func TestChatSupport_StreamsVerbatim(t *testing.T) {
	f := newFixture(nil)
	f.advisor.stream = "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n"

	rec := f.do(http.MethodPost, "/chat-support", `{"messages":[{"role":"user","content":"hello"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, f.advisor.stream, rec.Body.String())
	assert.True(t, rec.Flushed)
	require.Len(t, f.advisor.lastChat.Messages, 1)
	assert.Equal(t, "hello", f.advisor.lastChat.Messages[0].Content)
}

func TestChatSupport_Errors(t *testing.T) {
	f := newFixture(nil)
	f.advisor.chatErr = llm.ErrRateLimited

	rec := f.do(http.MethodPost, "/chat-support", `{"messages":[{"role":"user","content":"hello"}]}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	f.advisor.chatErr = domain.ErrInvalidRequest
	rec = f.do(http.MethodPost, "/chat-support", `{"messages":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- reverse-geocode ---

func TestReverseGeocode(t *testing.T) {
	tests := []struct {
		name       string
		geocoder   domain.ReverseGeocoder
		wantName   string
		wantSource string
	}{
		{
			name:       "provider success",
			geocoder:   &mockGeocoder{result: domain.GeocodingResult{DisplayName: "Cape Canaveral, Brevard County, Florida", PlaceName: "Cape Canaveral"}},
			wantName:   "Cape Canaveral, Brevard County, Florida",
			wantSource: domain.GeoSourceReverse,
		},
		{
			name:       "provider error",
			geocoder:   &mockGeocoder{err: errors.New("timeout")},
			wantName:   "28.3968, -80.6057",
			wantSource: domain.GeoSourceFailed,
		},
		{
			name:       "provider disabled",
			geocoder:   nil,
			wantName:   "28.3968, -80.6057",
			wantSource: domain.GeoSourceFallback,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newFixture(tt.geocoder).do(http.MethodGet, "/reverse-geocode?lat=28.3968&lng=-80.6057", "")
			require.Equal(t, http.StatusOK, rec.Code)

			var got domain.GeocodingResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantName, got.DisplayName)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.InDelta(t, 28.3968, got.Lat, 1e-9)
			assert.InDelta(t, -80.6057, got.Lng, 1e-9)
		})
	}
}

func TestReverseGeocode_BadCoordinates(t *testing.T) {
	for _, q := range []string{"", "?lat=abc&lng=1", "?lat=1", "?lat=1&lng=200"} {
		rec := newFixture(nil).do(http.MethodGet, "/reverse-geocode"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
