package handlers

import (
	"net/http"

	"trendora-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// ExportProducts streams the full catalog as an xlsx workbook for the admin
// console.
func (h *ProductHandler) ExportProducts(c *gin.Context) {
	var products []models.Product
	if err := h.DB.Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}

	headers := []string{"ID", "Name", "Description", "Price", "Category", "ImageURL", "Available", "Trending", "CreatedAt"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID.String())
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetValue(p.Available)
		row.AddCell().SetValue(p.IsTrending)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		return
	}
}
