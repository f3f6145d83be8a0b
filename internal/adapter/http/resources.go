package http

import (
	"net/http"

	"github.com/careport/clinicgate/internal/cachepolicy"
)

// The resource handlers forward to the upstream API under the same path the
// gateway received, so upstream routing stays a mirror of the public surface.

// Appointments

func (h *Handlers) ListAppointments(w http.ResponseWriter, r *http.Request) {
	h.proxyGet(w, r, cachepolicy.Appointments, r.URL.Path)
}

func (h *Handlers) GetAppointment(w http.ResponseWriter, r *http.Request) {
	h.proxyGet(w, r, cachepolicy.Appointments, r.URL.Path)
}

func (h *Handlers) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	h.proxyMutation(w, r, cachepolicy.Appointments, r.URL.Path)
}

func (h *Handlers) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	h.proxyMutation(w, r, cachepolicy.Appointments, r.URL.Path)
}

func (h *Handlers) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.proxyMutation(w, r, cachepolicy.Appointments, r.URL.Path)
}

// Clients

func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	h.proxyGet(w, r, cachepolicy.Clients, r.URL.Path)
}

func (h *Handlers) GetClient(w http.ResponseWriter, r *http.Request) {
	h.proxyGet(w, r, cachepolicy.Clients, r.URL.Path)
}

// ClientsByClinic serves the clinic-scoped client listing. Upstream exposes
// the console-shaped payload under a /frontend-compatible suffix that the
// gateway hides from its own surface.
func (h *Handlers) ClientsByClinic(w http.ResponseWriter, r *http.Request) {
	h.proxyGet(w, r, cachepolicy.Clients, r.URL.Path+"/frontend-compatible")
}

func (h *Handlers) CreateClient(w http.ResponseWriter, r *http.Request) {
	h.proxyMutation(w, r, cachepolicy.Clients, r.URL.Path)
}

func (h *Handlers) UpdateClient(w http.ResponseWriter, r *http.Request) {
	h.proxyMutation(w, r, cachepolicy.Clients, r.URL.Path)
}

func (h *Handlers) DeleteClient(w http.ResponseWriter, r *http.Request) {
	h.proxyMutation(w, r, cachepolicy.Clients, r.URL.Path)
}

// Orders

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	h.proxyGet(w, r, cachepolicy.Orders, r.URL.Path)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	h.proxyGet(w, r, cachepolicy.Orders, r.URL.Path)
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	h.proxyMutation(w, r, cachepolicy.Orders, r.URL.Path)
}

func (h *Handlers) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	h.proxyMutation(w, r, cachepolicy.Orders, r.URL.Path)
}

func (h *Handlers) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	h.proxyMutation(w, r, cachepolicy.Orders, r.URL.Path)
}

// Clinics are read-only through the gateway.

func (h *Handlers) ListClinics(w http.ResponseWriter, r *http.Request) {
	h.proxyGet(w, r, cachepolicy.Clinics, r.URL.Path)
}

func (h *Handlers) GetClinic(w http.ResponseWriter, r *http.Request) {
	h.proxyGet(w, r, cachepolicy.Clinics, r.URL.Path)
}
