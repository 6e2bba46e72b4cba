package refdata

import (
	"time"

	refdataDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/refdata"
)

type Country struct {
	ID              int64     `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	DefaultCurrency string    `json:"default_currency,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *Country) IsActiveCountry() bool {
	return c.IsActive
}

func (c *Country) ToResponse() CountryResponse {
	return CountryResponse{
		Code:            c.Code,
		Name:            c.Name,
		DefaultCurrency: c.DefaultCurrency,
	}
}

type CountryResponse struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	DefaultCurrency string `json:"default_currency,omitempty"`
}

type CountriesResponse struct {
	Countries []CountryResponse `json:"countries"`
}

func FromDataModel(c *refdataDatamodel.Country) *Country {
	return &Country{
		ID:              c.ID,
		Code:            c.Code,
		Name:            c.Name,
		DefaultCurrency: c.DefaultCurrency,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
