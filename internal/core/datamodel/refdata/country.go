package refdata

import "time"

// Country is reference data for onboarding forms and validation.
type Country struct {
	ID              int64     `gorm:"primaryKey"`
	Code            string    `gorm:"column:code;not null;uniqueIndex"`
	Name            string    `gorm:"column:name;not null"`
	DefaultCurrency string    `gorm:"column:default_currency"`
	IsActive        bool      `gorm:"column:is_active;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time `gorm:"column:updated_at;default:now()"`
}

func (Country) TableName() string {
	return "countries"
}
