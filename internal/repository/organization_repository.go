package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/scanova-console/internal/apiclient"
	"github.com/noah-isme/scanova-console/internal/models"
)

// OrganizationRepository wraps /organizations.
type OrganizationRepository struct {
	api API
}

// NewOrganizationRepository constructs an organization repository.
func NewOrganizationRepository(api API) *OrganizationRepository {
	return &OrganizationRepository{api: api}
}

// Mine returns the caller's organization.
func (r *OrganizationRepository) Mine(ctx context.Context) (*models.Organization, error) {
	var org models.Organization
	if err := r.api.Do(ctx, http.MethodGet, "/organizations/me", apiclient.RequestOptions{}, &org); err != nil {
		return nil, err
	}
	return &org, nil
}
