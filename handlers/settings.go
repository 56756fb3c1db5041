package handlers

import (
	"net/http"

	"trendora-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsHandler struct {
	DB *gorm.DB
}

// GetSetting returns the stored value for a key, or an empty string when the
// key has never been set. "Unset" and "empty" are deliberately
// indistinguishable so callers need no NotFound handling. Public: checkout
// reads the payment QR from here.
func (h *SettingsHandler) GetSetting(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key is required"})
		return
	}

	var setting models.Setting
	if err := h.DB.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"value": ""})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": setting.Value})
}

// SetSetting upserts a key-value pair. Last write wins; the values here are
// admin-controlled singletons (the payment QR image), so there is no
// versioning or concurrent-writer protection.
func (h *SettingsHandler) SetSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key is required"})
		return
	}

	setting := models.Setting{Key: req.Key, Value: req.Value}
	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Setting updated successfully"})
}
