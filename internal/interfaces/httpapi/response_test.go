package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"mismatch", fmt.Errorf("lookup: %w", usecase.ErrServerDataMismatch), http.StatusBadGateway, "serverDataMismatch"},
		{"invalid", fmt.Errorf("%w: id", usecase.ErrInvalidInput), http.StatusBadRequest, "invalidInput"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "notFound"},
		{"upstream 4xx", fmt.Errorf("lookup: %w", &usecase.ServerError{StatusCode: http.StatusTooManyRequests}), http.StatusBadGateway, "upstreamRejected"},
		{"upstream 5xx", &usecase.ServerError{StatusCode: http.StatusBadGateway}, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{"network", &usecase.NetworkError{Op: "GET", Err: errors.New("connection reset")}, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "deadlineExceeded"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := mapError(context.Background(), tc.err)
			if got.HTTPStatus != tc.wantStatus || got.Reason != tc.wantReason {
				t.Fatalf("mapError(%v) = %d/%s, want %d/%s", tc.err, got.HTTPStatus, got.Reason, tc.wantStatus, tc.wantReason)
			}
		})
	}
}

func TestWriteError_UnavailableSetsRetryAfter(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, &usecase.NetworkError{Op: "GET", Err: errors.New("connection refused")})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "20" {
		t.Fatalf("expected Retry-After=20, got %q", got)
	}
}

func TestWriteError_HidesUnclassifiedMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("decode cache entry: unexpected end of input"))

	var body googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error == nil || body.Error.Message != internalErrorMessage {
		t.Fatalf("expected generic internal message, got %+v", body.Error)
	}
	if rec.Header().Get("Retry-After") != "" {
		t.Fatalf("did not expect Retry-After on 500")
	}
}
