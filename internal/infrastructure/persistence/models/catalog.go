package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tecbunny/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SKU         string          `gorm:"type:varchar(100);uniqueIndex"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	Stock       decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
	ExternalID  string          `gorm:"type:varchar(100);index:idx_products_external_id"`
	SyncedAt    *time.Time      `gorm:""`
	CreatedAt   time.Time       `gorm:"not null;index"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:          m.ID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		IsActive:    m.IsActive,
		ExternalID:  m.ExternalID,
		SyncedAt:    m.SyncedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.SKU = p.SKU
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.Stock = p.Stock
	m.IsActive = p.IsActive
	m.ExternalID = p.ExternalID
	m.SyncedAt = p.SyncedAt
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
