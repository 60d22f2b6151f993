package app

import (
	"errors"
	"net/http"

	"github.com/angelchiav/cinema-booking-system/internal/domain"
)

func (app *Application) GetMoviesHandler(w http.ResponseWriter, r *http.Request) {
	pagination := app.readPagination(r)

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := MoviesResponse{
		Movies:   make([]Movie, len(movies)),
		Metadata: toApiMetadata(metadata),
	}
	for i, v := range movies {
		resp.Movies[i] = toApiMovie(&v)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieHandler(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, MovieResponse{Movie: toApiMovie(movie)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := app.movieRepo.GetGenres(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, GenresResponse{Genres: toApiGenres(genres)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSchedulesHandler(w http.ResponseWriter, r *http.Request) {
	pagination := app.readPagination(r)

	schedules, metadata, err := app.scheduleRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := SchedulesResponse{
		Schedules: make([]Schedule, len(schedules)),
		Metadata:  toApiMetadata(metadata),
	}
	for i, v := range schedules {
		resp.Schedules[i] = toApiSchedule(&v)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetScheduleHandler(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := app.readIDParam(r, "scheduleID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	schedule, err := app.scheduleRepo.GetById(r.Context(), scheduleID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, ScheduleResponse{Schedule: toApiSchedule(schedule)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiMovie(movie *domain.Movie) Movie {
	return Movie{
		Id:              movie.ID,
		Title:           movie.Title,
		Description:     movie.Description,
		DurationMinutes: movie.DurationMinutes,
		ReleaseDate:     movie.ReleaseDate,
		Rating:          movie.Rating,
		PosterUrl:       movie.PosterUrl,
		Genres:          toApiGenres(movie.Genres),
	}
}

func toApiGenres(genres []domain.Genre) []Genre {
	out := make([]Genre, len(genres))
	for i, v := range genres {
		out[i] = Genre{Id: v.ID, Name: v.Name}
	}
	return out
}

func toApiSchedule(schedule *domain.Schedule) Schedule {
	return Schedule{
		Id:         schedule.ID,
		MovieId:    schedule.MovieID,
		MovieTitle: schedule.MovieTitle,
		Screen:     schedule.Screen,
		StartTime:  schedule.StartTime,
		EndTime:    schedule.EndTime,
		BasePrice:  schedule.BasePrice,
		Capacity:   schedule.Capacity(),
	}
}
