package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"trendora-backend/middleware"
	"trendora-backend/models"
	"trendora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection so every goroutine shares the same in-memory
	// SQLite database and sees the same tables.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	// Create tables with raw SQLite-compatible SQL instead of AutoMigrate,
	// because the model tags carry PostgreSQL defaults like gen_random_uuid().
	if err := createSQLiteTables(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	// Delete in FK order
	testDB.Exec("DELETE FROM orders")
	testDB.Exec("DELETE FROM cart_items")
	testDB.Exec("DELETE FROM watchlist_items")
	testDB.Exec("DELETE FROM settings")
	testDB.Exec("DELETE FROM products")
	testDB.Exec("DELETE FROM users")
	return testDB
}

func createSQLiteTables(db *gorm.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"role" TEXT DEFAULT 'USER',
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "products" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"description" TEXT NOT NULL,
			"price" REAL NOT NULL,
			"category" TEXT NOT NULL,
			"image_url" TEXT NOT NULL,
			"available" INTEGER DEFAULT 1,
			"is_trending" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_name ON "products"("name")`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON "products"("category")`,

		`CREATE TABLE IF NOT EXISTS "cart_items" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"product_id" TEXT NOT NULL,
			"quantity" INTEGER DEFAULT 1,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_cart_items_user FOREIGN KEY ("user_id") REFERENCES "users"("id"),
			CONSTRAINT fk_cart_items_product FOREIGN KEY ("product_id") REFERENCES "products"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_user_id ON "cart_items"("user_id")`,

		`CREATE TABLE IF NOT EXISTS "watchlist_items" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"product_id" TEXT NOT NULL,
			"created_at" DATETIME,
			CONSTRAINT fk_watchlist_items_user FOREIGN KEY ("user_id") REFERENCES "users"("id"),
			CONSTRAINT fk_watchlist_items_product FOREIGN KEY ("product_id") REFERENCES "products"("id")
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_watchlist_user_product ON "watchlist_items"("user_id","product_id")`,

		`CREATE TABLE IF NOT EXISTS "orders" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"product_id" TEXT NOT NULL,
			"name" TEXT NOT NULL,
			"address" TEXT NOT NULL,
			"phone" TEXT NOT NULL,
			"pin" TEXT NOT NULL,
			"total_price" REAL NOT NULL,
			"payment_method" TEXT DEFAULT 'COD',
			"payment_screenshot" TEXT,
			"status" TEXT DEFAULT 'PENDING',
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_orders_user FOREIGN KEY ("user_id") REFERENCES "users"("id"),
			CONSTRAINT fk_orders_product FOREIGN KEY ("product_id") REFERENCES "products"("id")
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON "orders"("user_id")`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON "orders"("status")`,

		`CREATE TABLE IF NOT EXISTS "settings" (
			"id" TEXT PRIMARY KEY,
			"setting_key" TEXT NOT NULL UNIQUE,
			"setting_value" TEXT,
			"updated_at" DATETIME
		)`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedTestUser creates a user with the given role and returns it along with
// a valid session token.
func seedTestUser(db *gorm.DB, email, role string) (models.User, string) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	db.Create(&user)

	token, _ := utils.GenerateToken(user.ID, user.Email, user.Role)
	return user, token
}

// seedProduct creates a test product.
func seedProduct(db *gorm.DB, name string, price float64, category string) models.Product {
	prod := models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
		Price:       price,
		Category:    category,
		ImageURL:    "https://example.com/" + uuid.New().String()[:8] + ".jpg",
		Available:   true,
	}
	db.Create(&prod)
	return prod
}

// seedOrder creates one order row.
func seedOrder(db *gorm.DB, userID, productID uuid.UUID, status models.OrderStatus, total float64) models.Order {
	order := models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		ProductID:     productID,
		Name:          "Order Customer",
		Address:       "1 Test Street",
		Phone:         "9999999999",
		Pin:           "560001",
		TotalPrice:    total,
		PaymentMethod: models.PaymentMethodCOD,
		Status:        status,
	}
	db.Create(&order)
	// Explicitly update status so non-default values are persisted even if
	// GORM skips what it considers a zero value.
	db.Model(&order).Update("status", status)
	return order
}

// ==================== Router Setup Helpers ====================

func setupAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	authHandler := &AuthHandler{DB: db}

	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/auth/me", authHandler.Me)

	return r
}

func setupProductRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	productHandler := &ProductHandler{DB: db}

	api := r.Group("/api")
	api.GET("/products", productHandler.GetProducts)
	api.GET("/products/:id", productHandler.GetProduct)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)
	admin.GET("/products/export", productHandler.ExportProducts)

	return r
}

func setupCartRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	cartHandler := &CartHandler{DB: db}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/cart", cartHandler.GetCart)
	protected.POST("/cart", cartHandler.AddToCart)
	protected.PUT("/cart", cartHandler.UpdateCartItem)
	protected.DELETE("/cart", cartHandler.RemoveFromCart)

	return r
}

func setupWatchlistRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	watchlistHandler := &WatchlistHandler{DB: db}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/watchlist", watchlistHandler.GetWatchlist)
	protected.POST("/watchlist", watchlistHandler.AddToWatchlist)
	protected.DELETE("/watchlist", watchlistHandler.RemoveFromWatchlist)

	return r
}

// setupOrderRouter wires the order handler without a queue publisher or
// websocket feed; both are nil-safe.
func setupOrderRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	orderHandler := &OrderHandler{DB: db}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/orders", orderHandler.CreateOrder)
	protected.GET("/orders", orderHandler.GetOrders)
	protected.PATCH("/orders/:id", orderHandler.CancelOrder)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/orders", orderHandler.GetAllOrders)
	admin.PATCH("/orders/:id", orderHandler.UpdateOrderStatus)

	return r
}

func setupSettingsRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	settingsHandler := &SettingsHandler{DB: db}

	api := r.Group("/api")
	api.GET("/settings", settingsHandler.GetSetting)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/settings", settingsHandler.GetSetting)
	admin.POST("/settings", settingsHandler.SetSetting)

	return r
}

func setupAdminUserRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	adminUserHandler := &AdminUserHandler{DB: db}

	api := r.Group("/api")
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/users", adminUserHandler.ListAdmins)
	admin.POST("/users", adminUserHandler.CreateAdmin)
	admin.DELETE("/users/:id", adminUserHandler.DeleteAdmin)

	return r
}

// ==================== Request Helpers ====================

// jsonRequest creates an HTTP request with a JSON body.
func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authRequest creates an HTTP request with a JSON body and the session
// cookie the auth middleware reads.
func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.AddCookie(&http.Cookie{Name: utils.TokenCookieName, Value: token})
	return req
}

// ==================== Response Helpers ====================

func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

func parseResponseArray(w *httptest.ResponseRecorder) []interface{} {
	var result []interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
