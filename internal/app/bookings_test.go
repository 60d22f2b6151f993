package app

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BookingsTestSuite struct {
	suite.Suite
	app *Application
}

func (s *BookingsTestSuite) SetupTest() {
	s.app = newTestApplication()
}

func TestBookingsSuite(t *testing.T) {
	suite.Run(t, new(BookingsTestSuite))
}

func (s *BookingsTestSuite) holdSeats(userId int64, seatIds ...string) {
	w := executeRequest(s.T(), s.app, http.MethodPost, "/schedules/1/holds",
		CreateHoldsRequest{SeatIds: seatIds}, bearerToken(s.T(), userId))
	s.Require().Equal(http.StatusCreated, w.Code)
}

func (s *BookingsTestSuite) createBooking(userId int64, seatIds ...string) Booking {
	s.T().Helper()

	w := executeRequest(s.T(), s.app, http.MethodPost, "/bookings", CreateBookingRequest{
		ScheduleId:  1,
		SeatIds:     seatIds,
		TotalAmount: decimal.NewFromFloat(25.00),
	}, bearerToken(s.T(), userId))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	return decodeResponse[BookingResponse](s.T(), w).Booking
}

func (s *BookingsTestSuite) TestCreateBookingHandler() {
	s.holdSeats(1, "A1", "A2")

	tests := []struct {
		name       string
		body       any
		authHeader string
		wantStatus int
	}{
		{
			name:       "no token",
			body:       CreateBookingRequest{ScheduleId: 1, SeatIds: []string{"A1"}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing schedule id",
			body:       map[string]any{"seat_ids": []string{"A1"}, "total_amount": 25},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing seats",
			body:       map[string]any{"schedule_id": 1, "total_amount": 25},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown field",
			body:       map[string]any{"schedule_id": 1, "seat_ids": []string{"A1"}, "total_amount": 25, "bogus": true},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "seats held by someone else",
			body:       CreateBookingRequest{ScheduleId: 1, SeatIds: []string{"A1"}, TotalAmount: decimal.NewFromInt(12)},
			authHeader: bearerToken(s.T(), 2),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "seats never held",
			body:       CreateBookingRequest{ScheduleId: 1, SeatIds: []string{"B3"}, TotalAmount: decimal.NewFromInt(12)},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "success",
			body:       CreateBookingRequest{ScheduleId: 1, SeatIds: []string{"A1", "A2"}, TotalAmount: decimal.NewFromInt(25)},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := executeRequest(s.T(), s.app, http.MethodPost, "/bookings", tt.body, tt.authHeader)
			s.Equal(tt.wantStatus, w.Code, fmt.Sprintf("body: %s", w.Body.String()))
		})
	}
}

func (s *BookingsTestSuite) TestCreateBookingResponseBody() {
	s.holdSeats(1, "A1", "A2")
	booking := s.createBooking(1, "A1", "A2")

	s.Len(booking.Reference, 32)
	s.Equal("PENDING", booking.Status)
	s.Equal([]string{"A1", "A2"}, booking.SeatIds)
	s.True(booking.TotalAmount.Equal(decimal.NewFromFloat(25.00)))
	s.Nil(booking.ConfirmedAt)
	s.True(booking.ExpiresAt.After(booking.CreatedAt))
}

func (s *BookingsTestSuite) TestGetBookingHandler() {
	s.holdSeats(1, "A1")
	booking := s.createBooking(1, "A1")

	// The owner sees the booking.
	w := executeRequest(s.T(), s.app, http.MethodGet, "/bookings/"+booking.Reference, nil, bearerToken(s.T(), 1))
	s.Require().Equal(http.StatusOK, w.Code)

	got := decodeResponse[BookingResponse](s.T(), w).Booking
	s.Equal(booking.Reference, got.Reference)

	// Everyone else gets a 404, not a 403, to avoid leaking references.
	w = executeRequest(s.T(), s.app, http.MethodGet, "/bookings/"+booking.Reference, nil, bearerToken(s.T(), 2))
	s.Equal(http.StatusNotFound, w.Code)

	w = executeRequest(s.T(), s.app, http.MethodGet, "/bookings/nope", nil, bearerToken(s.T(), 1))
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *BookingsTestSuite) TestGetBookingsHandler() {
	s.holdSeats(1, "A1")
	s.createBooking(1, "A1")
	s.holdSeats(1, "A2")
	s.createBooking(1, "A2")

	w := executeRequest(s.T(), s.app, http.MethodGet, "/bookings?page=1&page_size=1", nil, bearerToken(s.T(), 1))
	s.Require().Equal(http.StatusOK, w.Code)

	resp := decodeResponse[BookingsResponse](s.T(), w)
	s.Len(resp.Bookings, 1)
	s.Equal(2, resp.Metadata.TotalRecords)
	s.Equal(2, resp.Metadata.LastPage)

	// Another user sees an empty page.
	w = executeRequest(s.T(), s.app, http.MethodGet, "/bookings", nil, bearerToken(s.T(), 2))
	s.Require().Equal(http.StatusOK, w.Code)

	resp = decodeResponse[BookingsResponse](s.T(), w)
	s.Empty(resp.Bookings)
}

func (s *BookingsTestSuite) TestConfirmBookingHandler() {
	s.holdSeats(1, "A1")
	booking := s.createBooking(1, "A1")

	w := executeRequest(s.T(), s.app, http.MethodPost, "/bookings/"+booking.Reference+"/confirm", nil, bearerToken(s.T(), 1))
	s.Require().Equal(http.StatusOK, w.Code)

	confirmed := decodeResponse[BookingResponse](s.T(), w).Booking
	s.Equal("CONFIRMED", confirmed.Status)
	s.Require().NotNil(confirmed.ConfirmedAt)
	s.True(confirmed.ConfirmedAt.Equal(testNow))

	// Confirming a finalized booking conflicts.
	w = executeRequest(s.T(), s.app, http.MethodPost, "/bookings/"+booking.Reference+"/confirm", nil, bearerToken(s.T(), 1))
	s.Equal(http.StatusConflict, w.Code)

	w = executeRequest(s.T(), s.app, http.MethodPost, "/bookings/missing/confirm", nil, bearerToken(s.T(), 1))
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *BookingsTestSuite) TestCancelBookingHandler() {
	s.holdSeats(1, "A1")
	booking := s.createBooking(1, "A1")

	// Only the owner may cancel.
	w := executeRequest(s.T(), s.app, http.MethodPost, "/bookings/"+booking.Reference+"/cancel", nil, bearerToken(s.T(), 2))
	s.Equal(http.StatusForbidden, w.Code)

	w = executeRequest(s.T(), s.app, http.MethodPost, "/bookings/"+booking.Reference+"/cancel", nil, bearerToken(s.T(), 1))
	s.Require().Equal(http.StatusOK, w.Code)

	cancelled := decodeResponse[BookingResponse](s.T(), w).Booking
	s.Equal("CANCELLED", cancelled.Status)

	w = executeRequest(s.T(), s.app, http.MethodPost, "/bookings/"+booking.Reference+"/cancel", nil, bearerToken(s.T(), 1))
	s.Equal(http.StatusConflict, w.Code)

	// The seat is reservable again.
	s.holdSeats(2, "A1")
}

func (s *BookingsTestSuite) TestCancelConfirmedBooking() {
	s.holdSeats(1, "A1")
	booking := s.createBooking(1, "A1")

	w := executeRequest(s.T(), s.app, http.MethodPost, "/bookings/"+booking.Reference+"/confirm", nil, bearerToken(s.T(), 1))
	s.Require().Equal(http.StatusOK, w.Code)

	w = executeRequest(s.T(), s.app, http.MethodPost, "/bookings/"+booking.Reference+"/cancel", nil, bearerToken(s.T(), 1))
	s.Require().Equal(http.StatusOK, w.Code)

	cancelled := decodeResponse[BookingResponse](s.T(), w).Booking
	s.Equal("CANCELLED", cancelled.Status)
}
