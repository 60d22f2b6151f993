package app

import (
	"net/http"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var input CreateBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	booking, err := app.manager.Promote(r.Context(), input.ScheduleId, input.SeatIds, userId, input.TotalAmount)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := BookingResponse{
		Booking: toApiBooking(booking),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)
	pagination := app.readPagination(r)

	bookings, metadata, err := app.bookingRepo.GetPageByUser(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiBookings := make([]Booking, len(bookings))
	for i := range bookings {
		apiBookings[i] = toApiBooking(&bookings[i])
	}

	resp := BookingsResponse{
		Bookings: apiBookings,
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	userId := app.contextGetUserId(r)

	booking, err := app.bookingRepo.GetByReference(r.Context(), reference)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	// Bookings are only visible to their owner.
	if booking.UserID != userId {
		app.notFoundResponse(w, r)
		return
	}

	resp := BookingResponse{
		Booking: toApiBooking(booking),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ConfirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	reference := chi.URLParam(r, "reference")

	booking, err := app.manager.Confirm(r.Context(), reference)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	logger.Info("booking confirmed", "reference", booking.Reference, "schedule_id", booking.ScheduleID)

	resp := BookingResponse{
		Booking: toApiBooking(booking),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	reference := chi.URLParam(r, "reference")
	userId := app.contextGetUserId(r)

	booking, err := app.manager.Cancel(r.Context(), reference, userId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	logger.Info("booking cancelled", "reference", booking.Reference, "schedule_id", booking.ScheduleID)

	resp := BookingResponse{
		Booking: toApiBooking(booking),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiBooking(booking *domain.Booking) Booking {
	return Booking{
		Reference:   booking.Reference,
		ScheduleId:  booking.ScheduleID,
		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
		SeatIds:     booking.SeatIDs,
		CreatedAt:   booking.CreatedAt,
		ExpiresAt:   booking.ExpiresAt,
		ConfirmedAt: booking.ConfirmedAt,
	}
}
