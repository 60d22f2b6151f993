package app

import (
	"errors"
	"net/http"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
)

func (app *Application) CreateHoldsHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	scheduleID, err := app.readIDParam(r, "scheduleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input CreateHoldsRequest

	err = app.readJSON(w, r, &input)
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

	holds, err := app.manager.Reserve(r.Context(), scheduleID, input.SeatIds, userId)
	if err != nil {
		var seatUnavailable *domain.SeatUnavailableError
		if errors.As(err, &seatUnavailable) {
			logger.Warn("reservation conflict", "schedule_id", scheduleID, "seats", seatUnavailable.SeatIDs)
		}
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := HoldsResponse{
		Holds: toApiHolds(holds),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseHoldHandler(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := app.readIDParam(r, "scheduleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatID := app.readSeatParam(r)
	if seatID == "" {
		app.badRequestResponse(w, r, errors.New("invalid seatID parameter"))
		return
	}

	userId := app.contextGetUserId(r)

	err = app.manager.Release(r.Context(), scheduleID, seatID, userId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toApiHolds(holds []domain.SeatHold) []SeatHold {
	apiHolds := make([]SeatHold, len(holds))

	for i, v := range holds {
		apiHolds[i] = SeatHold{
			Id:         v.ID,
			ScheduleId: v.ScheduleID,
			SeatId:     v.SeatID,
			CreatedAt:  v.CreatedAt,
			ExpiresAt:  v.ExpiresAt,
		}
	}

	return apiHolds
}
