// Package router assembles the chi route tree for the booking service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oakpointclinic/booking-ai/internal/appointments"
	"github.com/oakpointclinic/booking-ai/internal/assistant"
	"github.com/oakpointclinic/booking-ai/internal/booking"
	"github.com/oakpointclinic/booking-ai/internal/calendar"
	"github.com/oakpointclinic/booking-ai/internal/doctors"
	"github.com/oakpointclinic/booking-ai/internal/http/handlers"
	httpmiddleware "github.com/oakpointclinic/booking-ai/internal/http/middleware"
	"github.com/oakpointclinic/booking-ai/internal/patients"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Assistant          *assistant.Handler
	Booking            *booking.Handler
	Calendar           *calendar.Handler
	Doctors            *doctors.Handler
	Patients           *patients.Handler
	Appointments       *appointments.Handler
	AdminStats         *handlers.AdminStatsHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public surface: landing page, health, metrics, the conversational
	// flow, and direct booking.
	r.Group(func(public chi.Router) {
		public.Get("/", handlers.Landing)
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/api", func(api chi.Router) {
			if cfg.Assistant != nil {
				api.Post("/chat", cfg.Assistant.Chat)
				api.Post("/select-doctor", cfg.Assistant.SelectDoctor)
				api.Post("/select-appointment", cfg.Assistant.SelectAppointment)
				api.Post("/complete-booking", cfg.Assistant.CompleteBooking)
			}
			if cfg.Booking != nil {
				api.Post("/book-appointment", cfg.Booking.Book)
			}
			if cfg.Calendar != nil {
				api.Get("/calendar/{appointmentID}", cfg.Calendar.Download)
			}
		})
	})

	// Admin surface behind JWT auth.
	r.Route("/api/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

		if cfg.Doctors != nil {
			admin.Route("/doctors", func(d chi.Router) {
				d.Get("/", cfg.Doctors.List)
				d.Post("/", cfg.Doctors.Create)
				d.Put("/{doctorID}", cfg.Doctors.Update)
				d.Delete("/{doctorID}", cfg.Doctors.Delete)
			})
		}
		if cfg.Patients != nil {
			admin.Route("/patients", func(p chi.Router) {
				p.Get("/", cfg.Patients.List)
				p.Post("/", cfg.Patients.Create)
				p.Put("/{patientID}", cfg.Patients.Update)
			})
		}
		if cfg.Appointments != nil {
			admin.Route("/appointments", func(a chi.Router) {
				a.Get("/", cfg.Appointments.List)
				a.Put("/{appointmentID}/status", cfg.Appointments.UpdateStatus)
			})
		}
		if cfg.AdminStats != nil {
			admin.Get("/stats", cfg.AdminStats.GetStats)
		}
	})

	return r
}
