package servertimetable

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Pjt727/cample/timetable"
)

func PopulateTimetableRoutes(
	r *chi.Router,
	service *timetable.Service,
	hub *Hub,
	limiter *StudentLimiter,
	logger *slog.Logger,
) {
	timetableHandler := timetableHandler{
		service: service,
		logger:  logger,
	}

	(*r).Use(requireStudent)
	(*r).Get("/", timetableHandler.getTimetable)
	(*r).Get("/credits", timetableHandler.getCredits)
	(*r).Get("/export.ics", timetableHandler.exportCalendar)
	(*r).Get("/watch", hub.watch)

	(*r).Route("/items", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.With(middleware.AllowContentType("application/json")).Post("/try-add", timetableHandler.tryAdd)
		r.With(middleware.AllowContentType("application/json")).Post("/resolve", timetableHandler.resolve)
		r.Delete("/{itemID}", timetableHandler.remove)
	})
}
