package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product categories. Stored as plain strings so the admin console can add
// new ones without a migration.
const (
	CategoryMen     = "MEN"
	CategoryWomen   = "WOMEN"
	CategoryChild   = "CHILD"
	CategoryGrocery = "GROCERY"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Category    string    `gorm:"not null;index" json:"category"`
	ImageURL    string    `gorm:"not null" json:"image_url"`
	Available   bool      `gorm:"default:true" json:"available"`
	IsTrending  bool      `gorm:"default:false" json:"is_trending"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
