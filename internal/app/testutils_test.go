package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelchiav/cinema-booking-system/internal/booking"
	"github.com/angelchiav/cinema-booking-system/internal/domain"
	"github.com/angelchiav/cinema-booking-system/internal/mocks"
	"github.com/angelchiav/cinema-booking-system/internal/repository"
	"github.com/angelchiav/cinema-booking-system/internal/seatlock"
	appvalidator "github.com/angelchiav/cinema-booking-system/internal/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

const testJWTSecret = "test-secret"

var testNow = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func testSchedule() *domain.Schedule {
	return &domain.Schedule{
		ID:         1,
		MovieID:    7,
		MovieTitle: "The Matrix",
		Screen:     3,
		StartTime:  testNow.Add(2 * time.Hour),
		EndTime:    testNow.Add(4 * time.Hour),
		BasePrice:  decimal.NewFromFloat(12.50),
		Seats:      []string{"A1", "A2", "A3", "B1", "B2", "B3"},
	}
}

func newTestApplication(opts ...func(*Application)) *Application {
	store := repository.NewMemoryStore()

	scheduleRepo := &mocks.MockScheduleRepo{
		GetByIdFunc: func(ctx context.Context, id int64) (*domain.Schedule, error) {
			if id != 1 {
				return nil, domain.ErrRecordNotFound
			}
			return testSchedule(), nil
		},
	}

	manager := booking.NewManager(booking.ManagerOpts{
		Schedules: scheduleRepo,
		Holds:     store,
		Bookings:  store,
		Locker:    seatlock.NewMemory(),
		Clock:     fixedClock{now: testNow},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	app := &Application{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator:    appvalidator.NewValidator(),
		manager:      manager,
		scheduleRepo: scheduleRepo,
		movieRepo:    &mocks.MockMovieRepo{},
		bookingRepo:  store,
	}
	app.config.jwt.secret = testJWTSecret

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func bearerToken(t *testing.T, userId int64) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userId,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatal(err)
	}

	return "Bearer " + signed
}

func executeRequest(t *testing.T, app *Application, method, url string, body any, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		r.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	app.routes().ServeHTTP(w, r)

	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return out
}

