package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tecbunny/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	Code       string     `gorm:"type:varchar(50);uniqueIndex"`
	Name       string     `gorm:"type:varchar(255);not null"`
	Email      string     `gorm:"type:varchar(255);index"`
	Phone      string     `gorm:"type:varchar(50)"`
	Company    string     `gorm:"type:varchar(255)"`
	ExternalID string     `gorm:"type:varchar(100);index:idx_customers_external_id"`
	SyncedAt   *time.Time `gorm:""`
	CreatedAt  time.Time  `gorm:"not null;index"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		ID:         m.ID,
		Code:       m.Code,
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Company:    m.Company,
		ExternalID: m.ExternalID,
		SyncedAt:   m.SyncedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.ID = c.ID
	m.Code = c.Code
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Company = c.Company
	m.ExternalID = c.ExternalID
	m.SyncedAt = c.SyncedAt
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}
