/* helpers.go
 * Contains the JSON helpers shared by the handlers and the mapping from API errors to HTTP statuses
 * Authors: Zachary Bower
 */

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"tennis-league/api/api"
)

const maxBodyBytes = 1 << 20

type envelope map[string]any

// readJSON decodes a single JSON object from the request body into dst, rejecting unknown fields
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &typeError):
			if typeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", typeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", typeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return fmt.Errorf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	js, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(js, '\n')); err != nil {
		s.logger.Warn("failed to write response", slog.Any("error", err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, envelope{"error": message})
}

func (s *Server) badRequestResponse(w http.ResponseWriter, err error) {
	s.errorResponse(w, http.StatusBadRequest, err.Error())
}

// apiErrorResponse answers with the status matching an error returned by the api package. Unknown errors are
// logged and hidden behind a generic 500
func (s *Server) apiErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		s.errorResponse(w, status, "the server encountered a problem and could not process your request")
		return
	}
	s.errorResponse(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, api.ErrInvalidScore), errors.Is(err, api.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, api.ErrMatchNotFound), errors.Is(err, api.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrWalkoverEdit), errors.Is(err, api.ErrLeagueBlocked):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
