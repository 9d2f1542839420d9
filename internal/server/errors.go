package server

import (
	"errors"
	"net/http"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// writeRecorderError maps a recorder error to an HTTP response. op names the
// failed operation in the log line and the fallback message.
func (s *Server) writeRecorderError(w http.ResponseWriter, op string, err error) {
	status, msg := httpStatus(err)
	switch {
	case errors.Is(err, model.ErrUnrecognisedType):
		s.logger.Error("unrecognised event type", "op", op, "err", err)
	case status >= http.StatusInternalServerError:
		s.logger.Error("request failed", "op", op, "err", err)
	}
	if msg == "" {
		msg = "failed to " + op
	}
	writeError(w, status, msg)
}

// httpStatus returns the status for err and, for client errors, the message
// safe to show the caller.
func httpStatus(err error) (int, string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, model.ErrNotFound.Error()
	case errors.Is(err, model.ErrNotDeleted):
		return http.StatusNotFound, model.ErrNotDeleted.Error()
	case errors.Is(err, model.ErrNotCreated):
		return http.StatusInternalServerError, model.ErrNotCreated.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}
