package models

import (
	"time"
)

// IntegrationSettingModel is the key/value row backing the TokenStore: OAuth2
// credentials and the current token pair. ExpiresAt is consulted only for the
// access_token row.
type IntegrationSettingModel struct {
	Key       string     `gorm:"type:varchar(50);primary_key"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:""`
	UpdatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IntegrationSettingModel) TableName() string {
	return "integration_settings"
}
