package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchlistItem marks a product a user wants to keep an eye on. Uniqueness
// per (user, product) is enforced both by the index and by an existence
// check in the handler, so a duplicate add is a no-op rather than an error.
type WatchlistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_product" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_product" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

func (w *WatchlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
