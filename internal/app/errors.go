package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
	appvalidator "github.com/angelchiav/cinema-booking-system/internal/validator"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	ErrInternalServer = "The server encountered a problem and could not process your request"
	ErrNotFound       = "The requested resource not found"
	ErrUnauthorized   = "You must be authenticated to access this resource"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string, seats []string) {
	resp := ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
		Seats:     seats,
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer, nil)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound, nil)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthorized, nil)
}

func (app *Application) forbiddenResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusForbidden, err.Error(), nil)
}

func (app *Application) conflictResponse(w http.ResponseWriter, r *http.Request, message string, seats []string) {
	app.errorResponse(w, r, http.StatusConflict, message, seats)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.serverErrorResponse(w, r, err)
		return
	}

	issues := make([]ValidationError, len(validationErrors))
	for i, fieldError := range validationErrors {
		issues[i] = ValidationError{
			Field: fieldError.Field(),
			Issue: appvalidator.ValidationMessage(fieldError),
		}
	}

	resp := ValidationErrorResponse{
		Message:          "The request contains invalid fields",
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: issues,
	}

	writeErr := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if writeErr != nil {
		app.logError(r, writeErr)
		w.WriteHeader(500)
	}
}

// bookingErrorResponse maps the lifecycle error taxonomy onto HTTP statuses.
// Every conflict names the seats it concerns so callers can retry precisely.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidSeat     *domain.InvalidSeatError
		seatUnavailable *domain.SeatUnavailableError
		holdNotOwned    *domain.HoldNotOwnedError
		holdExpired     *domain.HoldExpiredError
	)

	switch {
	case errors.As(err, &invalidSeat):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error(), invalidSeat.SeatIDs)
	case errors.As(err, &seatUnavailable):
		app.conflictResponse(w, r, err.Error(), seatUnavailable.SeatIDs)
	case errors.As(err, &holdNotOwned):
		app.conflictResponse(w, r, err.Error(), holdNotOwned.SeatIDs)
	case errors.As(err, &holdExpired):
		app.conflictResponse(w, r, err.Error(), holdExpired.SeatIDs)
	case errors.Is(err, domain.ErrNotHolder):
		app.conflictResponse(w, r, err.Error(), nil)
	case errors.Is(err, domain.ErrAlreadyFinalized):
		app.conflictResponse(w, r, err.Error(), nil)
	case errors.Is(err, domain.ErrNotOwner):
		app.forbiddenResponse(w, r, err)
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
