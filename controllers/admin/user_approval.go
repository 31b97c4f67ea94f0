package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/federeito/valentino-api/models"
)

// ListPendingUsers returns all users awaiting wholesale approval.
func ListPendingUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []models.User
		if err := db.Where("approved = ?", false).Find(&pending).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending users"})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

// ApproveUser unlocks a customer account. Price visibility still requires
// the can_view_prices flag on top of approval.
func ApproveUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if err := db.Model(&user).Update("approved", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User approved"})
	}
}

// SetPriceVisibility grants or revokes the price visibility flag.
func SetPriceVisibility(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email         string `json:"email"`
			CanViewPrices *bool  `json:"canViewPrices"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.CanViewPrices == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if err := db.Model(&user).Update("can_view_prices", *req.CanViewPrices).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Price visibility updated"})
	}
}
