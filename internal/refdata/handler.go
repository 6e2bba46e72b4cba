package refdata

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/customer-onboarding/internal/transport"
)

type ServiceAPI interface {
	GetAllCountries() ([]CountryResponse, error)
	GetCountryByCode(code string) (*CountryResponse, error)
	IsValidCountry(code string) bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetCountries handles GET /countries
func (h *Handler) GetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.Service.GetAllCountries()
	if err != nil {
		h.Logger.Error("GetCountries: failed to get countries", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get countries")
		return
	}

	h.WriteJSON(w, http.StatusOK, CountriesResponse{
		Countries: countries,
	})
}

// GetCountry handles GET /countries/{code}
func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	country, err := h.Service.GetCountryByCode(code)
	if err != nil {
		h.Logger.Error("GetCountry: failed to get country", "error", err, "code", code)
		h.WriteError(w, http.StatusInternalServerError, "failed to get country")
		return
	}
	if country == nil {
		h.WriteError(w, http.StatusNotFound, "country not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, country)
}
