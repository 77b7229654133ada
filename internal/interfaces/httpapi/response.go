package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "matchday"

	// upstreamRetryAfterSeconds is advertised on 503 responses.
	upstreamRetryAfterSeconds = 20
	internalErrorMessage      = "internal server error"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorRule maps one class of failures to its HTTP rendering. Rules are
// evaluated in order and the first match wins.
type errorRule struct {
	match  func(error) bool
	mapped mappedError
}

var internalMapped = mappedError{
	HTTPStatus: http.StatusInternalServerError,
	Reason:     "internalError",
	Status:     "INTERNAL",
}

var errorRules = []errorRule{
	{
		match:  isErr(usecase.ErrServerDataMismatch),
		mapped: mappedError{http.StatusBadGateway, "serverDataMismatch", "INTERNAL"},
	},
	{
		match:  isErr(usecase.ErrInvalidInput),
		mapped: mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
	},
	{
		match:  isErr(usecase.ErrNotFound),
		mapped: mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"},
	},
	{
		match: func(err error) bool {
			var serverErr *usecase.ServerError
			return errors.As(err, &serverErr) && !serverErr.Retryable()
		},
		mapped: mappedError{http.StatusBadGateway, "upstreamRejected", "FAILED_PRECONDITION"},
	},
	{
		match:  isErr(usecase.ErrNetwork, usecase.ErrServer, usecase.ErrDependencyUnavailable),
		mapped: mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
	},
	{
		match:  isErr(context.DeadlineExceeded),
		mapped: mappedError{http.StatusGatewayTimeout, "deadlineExceeded", "DEADLINE_EXCEEDED"},
	},
}

func isErr(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError renders err through mapError. Unclassified errors keep their text
// out of the response body.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	message := err.Error()
	if mapped.HTTPStatus == http.StatusInternalServerError {
		message = internalErrorMessage
	}
	if mapped.HTTPStatus == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(upstreamRetryAfterSeconds))
	}
	writeErrorEnvelope(ctx, w, mapped, message)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeErrorEnvelope(ctx, w, internalMapped, internalErrorMessage)
}

func writeErrorEnvelope(ctx context.Context, w http.ResponseWriter, mapped mappedError, message string) {
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	})
}

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	for _, rule := range errorRules {
		if rule.match(err) {
			return rule.mapped
		}
	}
	return internalMapped
}
