package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/receipt"
	"github.com/vestahome/designer-hub/internal/session"
	"github.com/vestahome/designer-hub/internal/store"
	"github.com/vestahome/designer-hub/internal/wizard"
)

var (
	errBadRequest   = eris.New("server: invalid request body")
	errUnauthorized = eris.New("server: sign in required")
	errNotCaller    = eris.New("server: receipts are only sent to the signed-in user")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("write response failed", zap.Error(err))
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, wizard.ErrStepOutOfRange),
		errors.Is(err, form.ErrInvalidValue),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, receipt.ErrMissingFields):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrForbidden),
		errors.Is(err, errNotCaller):
		return http.StatusForbidden
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrGateIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wizard.ErrSubmitInFlight),
		errors.Is(err, wizard.ErrLocked),
		errors.Is(err, wizard.ErrContextLocked),
		errors.Is(err, wizard.ErrWrongPhase),
		errors.Is(err, wizard.ErrNotLastStep):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError reports err with its mapped status. Internal errors are logged
// and replaced with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return eris.Wrap(errBadRequest, err.Error())
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
