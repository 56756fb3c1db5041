package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCOD = "COD"
	PaymentMethodQR  = "QR"
)

// Order is one line item of a purchase: a cart checkout with N items
// produces N rows sharing the delivery details, each carrying its own line
// total. There is no order-header entity; rows from one checkout are
// correlated only by user and creation time.
type Order struct {
	ID                uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	User              User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID         uuid.UUID   `gorm:"type:uuid;not null" json:"product_id"`
	Product           Product     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
	Name              string      `gorm:"not null" json:"name"`
	Address           string      `gorm:"not null" json:"address"`
	Phone             string      `gorm:"not null" json:"phone"`
	Pin               string      `gorm:"not null" json:"pin"`
	TotalPrice        float64     `gorm:"not null" json:"total_price"`
	PaymentMethod     string      `gorm:"default:COD" json:"payment_method"`
	PaymentScreenshot string      `gorm:"type:text" json:"payment_screenshot,omitempty"`
	Status            OrderStatus `gorm:"default:PENDING;index" json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsValidStatus reports whether s is one of the three order states.
func IsValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further user transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanUserCancel reports whether the order's owner may still cancel it.
// Users may only move PENDING orders to CANCELLED; admins are the
// fulfillment authority and may set any status on any order.
func (o *Order) CanUserCancel() bool {
	return o.Status == OrderStatusPending
}
