package handlers

import (
	"fmt"
	"net/http"

	"trendora-backend/events"
	"trendora-backend/models"
	"trendora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB        *gorm.DB
	Publisher *events.Publisher
	Feed      *OrderFeed
}

type orderItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type createOrderRequest struct {
	ProductID         *uuid.UUID       `json:"product_id"`
	Items             []orderItemInput `json:"items"`
	Name              string           `json:"name"`
	Address           string           `json:"address"`
	Phone             string           `json:"phone"`
	Pin               string           `json:"pin"`
	PaymentMethod     string           `json:"payment_method"`
	PaymentScreenshot string           `json:"payment_screenshot"`
}

// CreateOrder handles both checkout modes: a single product (quantity
// implicitly 1) or the full cart as a list of line items. Cart checkout
// inserts one Order row per line item, each carrying its own line total,
// then clears the caller's cart. The notification pair (admin + customer
// email), the queue event and the admin feed broadcast are all best-effort
// and never roll back the order rows.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userEmail, _ := c.Get("user_email")
	email, _ := userEmail.(string)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Name == "" || req.Address == "" || req.Phone == "" || req.Pin == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required delivery details"})
		return
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodCOD
	}

	var (
		lastOrderID uuid.UUID
		emailItems  []utils.OrderEmailItem
		totalPrice  float64
	)

	switch {
	case req.ProductID != nil:
		// Single-product checkout.
		// TODO: the read paths filter on `available` but this write path
		// does not re-check it, so a product flipped unavailable between
		// page load and order POST can still be ordered.
		var product models.Product
		if err := h.DB.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		order := models.Order{
			ID:                uuid.New(),
			UserID:            userID.(uuid.UUID),
			ProductID:         product.ID,
			Name:              req.Name,
			Address:           req.Address,
			Phone:             req.Phone,
			Pin:               req.Pin,
			TotalPrice:        product.Price,
			PaymentMethod:     req.PaymentMethod,
			PaymentScreenshot: req.PaymentScreenshot,
			Status:            models.OrderStatusPending,
		}
		if err := h.DB.Create(&order).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		lastOrderID = order.ID
		totalPrice = product.Price
		emailItems = append(emailItems, utils.OrderEmailItem{Name: product.Name, Price: product.Price, Quantity: 1})

	case len(req.Items) > 0:
		// Cart checkout: one row per line item, current price re-fetched
		// per product so a stale client-side price never reaches the order.
		// Unknown products are skipped. The inserts and the cart clear are
		// separate statements; a crash in between leaves stale cart rows,
		// which is recoverable, not data loss.
		for _, item := range req.Items {
			var product models.Product
			if err := h.DB.Where("id = ?", item.ProductID).First(&product).Error; err != nil {
				continue
			}

			lineTotal := product.Price * float64(item.Quantity)
			order := models.Order{
				ID:                uuid.New(),
				UserID:            userID.(uuid.UUID),
				ProductID:         product.ID,
				Name:              req.Name,
				Address:           req.Address,
				Phone:             req.Phone,
				Pin:               req.Pin,
				TotalPrice:        lineTotal,
				PaymentMethod:     req.PaymentMethod,
				PaymentScreenshot: req.PaymentScreenshot,
				Status:            models.OrderStatusPending,
			}
			if err := h.DB.Create(&order).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
				return
			}

			lastOrderID = order.ID
			totalPrice += lineTotal
			emailItems = append(emailItems, utils.OrderEmailItem{Name: product.Name, Price: product.Price, Quantity: item.Quantity})
		}

		if len(emailItems) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No products to checkout"})
			return
		}

		if err := h.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "No products to checkout"})
		return
	}

	// The batch notification is tagged with the last inserted row's id;
	// there is no order-header entity to carry a batch id.
	utils.SendOrderEmails(lastOrderID.String(), req.Name, email, req.Address, req.Phone, req.Pin, req.PaymentMethod, emailItems, totalPrice)
	h.Publisher.Publish(events.OrderCreated, map[string]interface{}{
		"order_id": lastOrderID.String(),
		"user_id":  userID.(uuid.UUID).String(),
		"total":    totalPrice,
		"items":    len(emailItems),
	})
	h.Feed.Broadcast(gin.H{
		"event":    events.OrderCreated,
		"order_id": lastOrderID,
		"customer": req.Name,
		"total":    totalPrice,
	})

	c.JSON(http.StatusCreated, gin.H{"message": "Order confirmed successfully!"})
}

// GetOrders lists the caller's own orders, newest first.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var orders []models.Order
	if err := h.DB.Preload("Product").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// CancelOrder is the only user-initiated transition: the owner may move a
// PENDING order to CANCELLED. Everything else is the admin's job.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id := c.Param("id")

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Status != models.OrderStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operation"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Product").Preload("User").Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !order.CanUserCancel() {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Cannot cancel order with status: %s", order.Status)})
		return
	}

	if err := h.DB.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	h.notifyStatusChange(&order, models.OrderStatusCancelled)

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully"})
}

// adminOrderView joins the display fields the admin console shows alongside
// each order row.
type adminOrderView struct {
	models.Order
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// GetAllOrders lists every order with user and product display fields,
// newest first. Admin only.
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := h.DB.Preload("Product").Preload("User").Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	views := make([]adminOrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, adminOrderView{
			Order:     o,
			UserName:  o.User.Name,
			UserEmail: o.User.Email,
		})
	}

	c.JSON(http.StatusOK, views)
}

// UpdateOrderStatus lets an admin set any order to any of the three states,
// without the ownership or prior-state restrictions that bind users.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Product").Preload("User").Where("id = ?", id).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	h.notifyStatusChange(&order, req.Status)

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Order status updated to %s", req.Status)})
}

// notifyStatusChange fans a committed transition out to email, the event
// queue and the admin feed. All three are best-effort; the status change is
// authoritative whether or not any of them succeed.
func (h *OrderHandler) notifyStatusChange(order *models.Order, status models.OrderStatus) {
	utils.SendOrderStatusUpdate(order.ID.String(), order.Name, order.User.Email, order.Product.Name, string(status))
	h.Publisher.Publish(events.OrderStatusChanged, map[string]interface{}{
		"order_id": order.ID.String(),
		"user_id":  order.UserID.String(),
		"status":   string(status),
	})
	h.Feed.Broadcast(gin.H{
		"event":    events.OrderStatusChanged,
		"order_id": order.ID,
		"status":   status,
	})
}
