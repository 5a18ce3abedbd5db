package errs

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// ErrResponse is the JSON body rendered for any failed request.
type ErrResponse struct {
	Error ServiceError `json:"error"`
}

type ServiceError struct {
	Kind    string `json:"kind,omitempty"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// HTTPErrorResponse logs the full error with its op stack and writes a JSON
// error response. The status code is derived from the outermost error kind;
// internal details beyond the message are not exposed to the caller.
func HTTPErrorResponse(w http.ResponseWriter, log zerolog.Logger, err error) {
	if err == nil {
		unknownErrorResponse(w, log, Str("nil error passed to error response"))
		return
	}

	var e *Error
	if errors.As(err, &e) {
		typicalErrorResponse(w, log, e)
		return
	}

	unknownErrorResponse(w, log, err)
}

func typicalErrorResponse(w http.ResponseWriter, log zerolog.Logger, e *Error) {
	httpStatusCode := httpStatusCode(TopKind(e))

	// A zero Error value carries nothing worth rendering; treat it the
	// same as an unclassified error.
	if e.isZero() {
		unknownErrorResponse(w, log, e)
		return
	}

	log.Error().
		Stack().
		Err(e.Err).
		Int("http_status_code", httpStatusCode).
		Str("kind", TopKind(e).String()).
		Str("parameter", string(e.Param)).
		Strs("ops", OpStack(e)).
		Msg("error response sent to client")

	message := ""
	if e.Err != nil {
		message = e.Err.Error()
	}

	errResponse := ErrResponse{
		Error: ServiceError{
			Kind:    TopKind(e).String(),
			Param:   string(e.Param),
			Message: message,
		},
	}

	writeResponse(w, log, httpStatusCode, errResponse)
}

func unknownErrorResponse(w http.ResponseWriter, log zerolog.Logger, err error) {
	log.Error().Err(err).Msg("unknown error response sent to client")

	errResponse := ErrResponse{
		Error: ServiceError{
			Kind:    Other.String(),
			Message: "unexpected error, please contact support",
		},
	}

	writeResponse(w, log, http.StatusInternalServerError, errResponse)
}

func writeResponse(w http.ResponseWriter, log zerolog.Logger, statusCode int, body ErrResponse) {
	errJSON, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Msg("marshaling error response")
		http.Error(w, "encoding error response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(errJSON)
}

func httpStatusCode(k Kind) int {
	switch k {
	case InvalidRequest, Validation:
		return http.StatusUnprocessableEntity
	case NotExist:
		return http.StatusNotFound
	case Unauthenticated:
		return http.StatusUnauthorized
	case Unauthorized:
		return http.StatusForbidden
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
