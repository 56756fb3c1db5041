package handlers

import (
	"net/http"

	"trendora-backend/models"
	"trendora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB *gorm.DB
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var cartItems []models.CartItem
	if err := h.DB.Preload("Product").Where("user_id = ?", userID).Find(&cartItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, cartItems)
}

// AddToCart merges quantity onto an existing (user, product) row, or inserts
// a new one. Repeated adds accumulate instead of duplicating rows.
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		Quantity  int       `json:"quantity" binding:"omitempty,min=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var product models.Product
	if err := h.DB.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var cartItem models.CartItem
	err := h.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&cartItem).Error

	if err == nil {
		cartItem.Quantity += req.Quantity
		if err := h.DB.Model(&cartItem).Update("quantity", cartItem.Quantity).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
	} else {
		cartItem = models.CartItem{
			ID:        uuid.New(),
			UserID:    userID.(uuid.UUID),
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := h.DB.Create(&cartItem).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
			return
		}
	}

	h.DB.Preload("Product").First(&cartItem, "id = ?", cartItem.ID)
	c.JSON(http.StatusOK, cartItem)
}

// UpdateCartItem sets an exact quantity on a row owned by the caller.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ID       uuid.UUID `json:"id" binding:"required"`
		Quantity int       `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var cartItem models.CartItem
	if err := h.DB.Where("id = ? AND user_id = ?", req.ID, userID).First(&cartItem).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}

	if err := h.DB.Model(&cartItem).Update("quantity", req.Quantity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": cartItem.ID, "quantity": req.Quantity})
}

// RemoveFromCart deletes one row when ?id= is given, or clears the caller's
// whole cart when it is omitted (used after checkout).
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if id := c.Query("id"); id != "" {
		if err := h.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item from cart"})
			return
		}
	} else {
		if err := h.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}
