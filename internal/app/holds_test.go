package app

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	appvalidator "github.com/angelchiav/cinema-booking-system/internal/validator"
	"github.com/stretchr/testify/suite"
)

type HoldsTestSuite struct {
	suite.Suite
	app *Application
}

func (s *HoldsTestSuite) SetupTest() {
	s.app = newTestApplication()
}

func TestHoldsSuite(t *testing.T) {
	suite.Run(t, new(HoldsTestSuite))
}

func (s *HoldsTestSuite) TestCreateHoldsHandler() {
	tests := []struct {
		name           string
		url            string
		body           any
		authHeader     string
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:           "no token",
			url:            "/schedules/1/holds",
			body:           CreateHoldsRequest{SeatIds: []string{"A1"}},
			wantStatus:     http.StatusUnauthorized,
			wantErrMessage: ErrUnauthorized,
		},
		{
			name:       "garbage token",
			url:        "/schedules/1/holds",
			body:       CreateHoldsRequest{SeatIds: []string{"A1"}},
			authHeader: "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid schedule id",
			url:        "/schedules/abc/holds",
			body:       CreateHoldsRequest{SeatIds: []string{"A1"}},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty seat list",
			url:        "/schedules/1/holds",
			body:       CreateHoldsRequest{SeatIds: []string{}},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed seat id",
			url:        "/schedules/1/holds",
			body:       CreateHoldsRequest{SeatIds: []string{"1A"}},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown schedule",
			url:        "/schedules/99/holds",
			body:       CreateHoldsRequest{SeatIds: []string{"A1"}},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "seat not in layout",
			url:        "/schedules/1/holds",
			body:       CreateHoldsRequest{SeatIds: []string{"Z9"}},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "success",
			url:        "/schedules/1/holds",
			body:       CreateHoldsRequest{SeatIds: []string{"A1", "A2"}},
			authHeader: bearerToken(s.T(), 1),
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := executeRequest(s.T(), s.app, http.MethodPost, tt.url, tt.body, tt.authHeader)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantErrMessage != "" {
				resp := decodeResponse[ErrorResponse](s.T(), w)
				s.Equal(tt.wantErrMessage, resp.Message)
			}
		})
	}
}

func (s *HoldsTestSuite) TestCreateHoldsResponseBody() {
	w := executeRequest(s.T(), s.app, http.MethodPost, "/schedules/1/holds",
		CreateHoldsRequest{SeatIds: []string{"B2", "B1"}}, bearerToken(s.T(), 1))

	s.Require().Equal(http.StatusCreated, w.Code)

	resp := decodeResponse[HoldsResponse](s.T(), w)
	s.Require().Len(resp.Holds, 2)

	// Seats come back normalized.
	s.Equal("B1", resp.Holds[0].SeatId)
	s.Equal("B2", resp.Holds[1].SeatId)

	for _, h := range resp.Holds {
		s.Equal(int64(1), h.ScheduleId)
		s.True(h.ExpiresAt.Equal(testNow.Add(15 * time.Minute)))
	}
}

func (s *HoldsTestSuite) TestCreateHoldsValidationMessages() {
	w := executeRequest(s.T(), s.app, http.MethodPost, "/schedules/1/holds",
		CreateHoldsRequest{SeatIds: []string{"bad seat"}}, bearerToken(s.T(), 1))

	s.Require().Equal(http.StatusUnprocessableEntity, w.Code)

	resp := decodeResponse[ValidationErrorResponse](s.T(), w)
	s.Require().NotEmpty(resp.ValidationErrors)
	s.Equal(appvalidator.ErrSeatIDFormat, resp.ValidationErrors[0].Issue)
}

func (s *HoldsTestSuite) TestCreateHoldsConflictNamesSeats() {
	w := executeRequest(s.T(), s.app, http.MethodPost, "/schedules/1/holds",
		CreateHoldsRequest{SeatIds: []string{"A1"}}, bearerToken(s.T(), 1))
	s.Require().Equal(http.StatusCreated, w.Code)

	w = executeRequest(s.T(), s.app, http.MethodPost, "/schedules/1/holds",
		CreateHoldsRequest{SeatIds: []string{"A1", "A2"}}, bearerToken(s.T(), 2))

	s.Require().Equal(http.StatusConflict, w.Code)

	resp := decodeResponse[ErrorResponse](s.T(), w)
	s.Equal([]string{"A1"}, resp.Seats)
}

func (s *HoldsTestSuite) TestReleaseHoldHandler() {
	w := executeRequest(s.T(), s.app, http.MethodPost, "/schedules/1/holds",
		CreateHoldsRequest{SeatIds: []string{"A1"}}, bearerToken(s.T(), 1))
	s.Require().Equal(http.StatusCreated, w.Code)

	tests := []struct {
		name       string
		url        string
		userId     int64
		wantStatus int
	}{
		{
			name:       "not the holder",
			url:        "/schedules/1/holds/A1",
			userId:     2,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "malformed seat id",
			url:        "/schedules/1/holds/x",
			userId:     1,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "success",
			url:        "/schedules/1/holds/A1",
			userId:     1,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "already released",
			url:        "/schedules/1/holds/A1",
			userId:     1,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := executeRequest(s.T(), s.app, http.MethodDelete, tt.url, nil, bearerToken(s.T(), tt.userId))
			s.Equal(tt.wantStatus, w.Code, fmt.Sprintf("body: %s", w.Body.String()))
		})
	}
}
