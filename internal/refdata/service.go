package refdata

import (
	"log/slog"
	"strings"

	refdataDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/refdata"
)

type RepositoryAPI interface {
	GetAll() ([]*refdataDatamodel.Country, error)
	GetByCode(code string) (*refdataDatamodel.Country, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCountries() ([]CountryResponse, error) {
	dataCountries, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get countries from repository", "error", err)
		return nil, err
	}

	var responses []CountryResponse
	for _, dc := range dataCountries {
		country := FromDataModel(dc)
		if country.IsActiveCountry() {
			responses = append(responses, country.ToResponse())
		}
	}

	return responses, nil
}

func (s *Service) GetCountryByCode(code string) (*CountryResponse, error) {
	dc, err := s.repo.GetByCode(strings.ToUpper(code))
	if err != nil {
		s.logger.Error("failed to get country from repository", "error", err, "code", code)
		return nil, err
	}
	if dc == nil {
		return nil, nil
	}

	country := FromDataModel(dc)
	if !country.IsActiveCountry() {
		return nil, nil
	}
	response := country.ToResponse()
	return &response, nil
}

// IsValidCountry reports whether a code names an active country; used when
// validating submissions.
func (s *Service) IsValidCountry(code string) bool {
	country, err := s.GetCountryByCode(code)
	if err != nil {
		s.logger.Warn("error checking country validity", "code", code, "error", err)
		return false
	}
	return country != nil
}
