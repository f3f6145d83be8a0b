package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careport/clinicgate/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Tenant resolution
		r.Get("/resolve", h.Resolve)

		// Appointments
		r.Get("/appointments", h.ListAppointments)
		r.Post("/appointments", h.CreateAppointment)
		r.Get("/appointments/{id}", h.GetAppointment)
		r.Put("/appointments/{id}", h.UpdateAppointment)
		r.Delete("/appointments/{id}", h.DeleteAppointment)

		// Clients
		r.Get("/clients", h.ListClients)
		r.Post("/clients", h.CreateClient)
		r.With(middleware.ClinicSlug).Get("/clients/clinic/{slug}", h.ClientsByClinic)
		r.Get("/clients/{id}", h.GetClient)
		r.Put("/clients/{id}", h.UpdateClient)
		r.Delete("/clients/{id}", h.DeleteClient)

		// Orders
		r.Get("/orders", h.ListOrders)
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/{id}", h.GetOrder)
		r.Put("/orders/{id}", h.UpdateOrder)
		r.Delete("/orders/{id}", h.DeleteOrder)

		// Clinics (read-only)
		r.Get("/clinics", h.ListClinics)
		r.Get("/clinics/{id}", h.GetClinic)
	})
}
