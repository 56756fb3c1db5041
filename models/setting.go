package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettingPaymentQR holds the admin-uploaded payment QR image as an inline
// data URL. Other singleton config values share the same table.
const SettingPaymentQR = "qrCodeUrl"

type Setting struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Key       string    `gorm:"column:setting_key;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"column:setting_value;type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
