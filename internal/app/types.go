package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request and response shapes of the HTTP API.

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Seats     []string  `json:"seats,omitempty"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"request_id,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validation_errors"`
}

type Metadata struct {
	CurrentPage  int `json:"current_page"`
	FirstPage    int `json:"first_page"`
	LastPage     int `json:"last_page"`
	PageSize     int `json:"page_size"`
	TotalRecords int `json:"total_records"`
}

type HealthcheckResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type CreateHoldsRequest struct {
	SeatIds []string `json:"seat_ids" validate:"required,min=1,max=8,dive,seat_id"`
}

type SeatHold struct {
	Id         int64     `json:"id"`
	ScheduleId int64     `json:"schedule_id"`
	SeatId     string    `json:"seat_id"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type HoldsResponse struct {
	Holds []SeatHold `json:"holds"`
}

type CreateBookingRequest struct {
	ScheduleId  int64           `json:"schedule_id" validate:"required,gt=0"`
	SeatIds     []string        `json:"seat_ids" validate:"required,min=1,max=8,dive,seat_id"`
	TotalAmount decimal.Decimal `json:"total_amount" validate:"required"`
}

type Booking struct {
	Reference   string          `json:"reference"`
	ScheduleId  int64           `json:"schedule_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SeatIds     []string        `json:"seat_ids"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
}

type BookingResponse struct {
	Booking Booking `json:"booking"`
}

type BookingsResponse struct {
	Bookings []Booking `json:"bookings"`
	Metadata Metadata  `json:"metadata"`
}

type Seat struct {
	SeatId    string `json:"seat_id"`
	Available bool   `json:"available"`
}

type SeatMapResponse struct {
	ScheduleId int64     `json:"schedule_id"`
	MovieTitle string    `json:"movie_title"`
	Screen     int       `json:"screen"`
	StartTime  time.Time `json:"start_time"`
	Capacity   int       `json:"capacity"`
	Seats      []Seat    `json:"seats"`
}

type Genre struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type Movie struct {
	Id              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes"`
	ReleaseDate     time.Time       `json:"release_date"`
	Rating          decimal.Decimal `json:"rating"`
	PosterUrl       string          `json:"poster_url,omitempty"`
	Genres          []Genre         `json:"genres"`
}

type MoviesResponse struct {
	Movies   []Movie  `json:"movies"`
	Metadata Metadata `json:"metadata"`
}

type MovieResponse struct {
	Movie Movie `json:"movie"`
}

type GenresResponse struct {
	Genres []Genre `json:"genres"`
}

type Schedule struct {
	Id         int64           `json:"id"`
	MovieId    int64           `json:"movie_id"`
	MovieTitle string          `json:"movie_title"`
	Screen     int             `json:"screen"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    time.Time       `json:"end_time"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Capacity   int             `json:"capacity,omitempty"`
}

type SchedulesResponse struct {
	Schedules []Schedule `json:"schedules"`
	Metadata  Metadata   `json:"metadata"`
}

type ScheduleResponse struct {
	Schedule Schedule `json:"schedule"`
}
