package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/ringplace/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeStatus(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

// writeError maps err to a status code. Uncoded errors are reported as
// INTERNAL_ERROR without their message.
func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		writeStatus(w, http.StatusInternalServerError, string(errs.ErrCodeInternal), "internal error")
		return
	}
	writeStatus(w, statusFor(code), string(code), errs.UserMessage(err))
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidArgument, errs.ErrCodeInvalidFormat,
		errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidName:
		return http.StatusBadRequest
	case errs.ErrCodeUnsatisfiable:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound, errs.ErrCodePlanNotFound, errs.ErrCodePresetNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func errNoRoute(r *http.Request) error {
	return errs.New(errs.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
