package upstream

import (
	"context"

	"github.com/careport/clinicgate/internal/domain/clinic"
)

// ClinicSource adapts the client to the directory's fetcher interface.
type ClinicSource struct {
	Client *Client
}

// FetchClinics retrieves the full clinic set from the backend.
func (s ClinicSource) FetchClinics(ctx context.Context) ([]clinic.Clinic, error) {
	clinics, _, err := Get[[]clinic.Clinic](ctx, s.Client, "/api/v1/clinics")
	return clinics, err
}
