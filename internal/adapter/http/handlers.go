package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/launch-feasibility-service/internal/adapter/llm"
	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// Client-facing messages for AI backend failures.
const (
	msgRateLimited     = "Rate limits exceeded, please try again later."
	msgPaymentRequired = "Payment required, please add funds to your workspace."
	msgGatewayError    = "AI gateway error"
)

func (s *Server) handleAnalyzeLocation(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.deps.Analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAnalyzeWeather(w http.ResponseWriter, r *http.Request) {
	var req domain.WeatherRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.deps.Advisor.Weather(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleChatSupport(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	stream, err := s.deps.Advisor.Chat(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer stream.Close()

	rc := http.NewResponseController(w)
	// The stream outlives the server write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.logger.DebugContext(r.Context(), "clear write deadline", "error", err)
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	buf := make([]byte, 4096)
	for {
		n, readErr := stream.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				s.logger.InfoContext(r.Context(), "chat client disconnected", "error", err)
				return
			}
			_ = rc.Flush()
		}
		if errors.Is(readErr, io.EOF) {
			return
		}
		if readErr != nil {
			if r.Context().Err() == nil {
				s.logger.WarnContext(r.Context(), "chat stream interrupted", "error", readErr)
			}
			return
		}
	}
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	coords, err := parseCoordinates(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result := domain.ResolveLocationName(r.Context(), coords, s.deps.Geocoder, s.logger)
	writeJSON(w, http.StatusOK, result)
}

func parseCoordinates(r *http.Request) (domain.Coordinates, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: lat must be a number", domain.ErrInvalidRequest)
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: lng must be a number", domain.ErrInvalidRequest)
	}
	coords := domain.Coordinates{Lat: lat, Lng: lng}
	if err := coords.Validate(); err != nil {
		return domain.Coordinates{}, err
	}
	return coords, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

// writeError maps err to a status code and an {"error": ...} body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		upstream *llm.UpstreamError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
	case errors.Is(err, llm.ErrRateLimited):
		s.logger.WarnContext(r.Context(), "llm rate limited", "path", r.URL.Path)
		writeJSON(w, http.StatusTooManyRequests, errorBody(msgRateLimited))
	case errors.Is(err, llm.ErrPaymentRequired):
		s.logger.WarnContext(r.Context(), "llm payment required", "path", r.URL.Path)
		writeJSON(w, http.StatusPaymentRequired, errorBody(msgPaymentRequired))
	case errors.As(err, &upstream):
		s.logger.ErrorContext(r.Context(), "llm gateway error",
			"path", r.URL.Path,
			"status", upstream.StatusCode,
			"body", upstream.Body,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody(msgGatewayError))
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // headers already sent
}
