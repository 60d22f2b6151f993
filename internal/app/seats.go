package app

import (
	"net/http"

	"github.com/angelchiav/cinema-booking-system/internal/booking"
)

func (app *Application) GetSeatMapHandler(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := app.readIDParam(r, "scheduleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatMap, err := app.manager.SeatMap(r.Context(), scheduleID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatMapResponse(seatMap *booking.SeatMap) SeatMapResponse {
	seats := make([]Seat, len(seatMap.Seats))
	for i, v := range seatMap.Seats {
		seats[i] = Seat{
			SeatId:    v.SeatID,
			Available: v.Available,
		}
	}

	return SeatMapResponse{
		ScheduleId: seatMap.ScheduleID,
		MovieTitle: seatMap.MovieTitle,
		Screen:     seatMap.Screen,
		StartTime:  seatMap.StartTime,
		Capacity:   seatMap.Capacity,
		Seats:      seats,
	}
}
