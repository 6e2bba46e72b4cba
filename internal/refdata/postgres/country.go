package postgres

import (
	"errors"

	"gorm.io/gorm"

	refdataDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/refdata"
	"github.com/frahmantamala/customer-onboarding/internal/refdata"
)

type CountryRepository struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) refdata.RepositoryAPI {
	return &CountryRepository{db: db}
}

func (r *CountryRepository) GetAll() ([]*refdataDatamodel.Country, error) {
	var countries []*refdataDatamodel.Country
	err := r.db.Order("name ASC").Find(&countries).Error
	return countries, err
}

func (r *CountryRepository) GetByCode(code string) (*refdataDatamodel.Country, error) {
	var c refdataDatamodel.Country
	err := r.db.Where("code = ?", code).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
