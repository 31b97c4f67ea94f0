package cartControllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/federeito/valentino-api/cart"
)

type addEntryInput struct {
	ProductID uint        `json:"productId" binding:"required"`
	Color     *cart.Color `json:"color"`
}

func openSessionCart(c *gin.Context, storage cart.Storage) (*cart.Store, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	store, err := cart.Open(c.Request.Context(), storage, userIDVal.(string))
	if err != nil {
		log.Printf("❌ Failed to open cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return nil, false
	}
	return store, true
}

// GET /user/cart
func GetCart(storage cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := openSessionCart(c, storage)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"entries": store.Entries(),
			"items":   store.UniqueItems(),
			"count":   store.Len(),
		})
	}
}

// POST /user/cart
func AddCartEntry(storage cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := openSessionCart(c, storage)
		if !ok {
			return
		}

		var input addEntryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := store.Add(c.Request.Context(), input.ProductID, input.Color); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": store.Len()})
	}
}

// DELETE /user/cart/:product_id?color=<name>
func RemoveCartEntry(storage cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := openSessionCart(c, storage)
		if !ok {
			return
		}

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		var color *cart.Color
		if name := c.Query("color"); name != "" {
			color = &cart.Color{Name: name}
		}

		if err := store.Remove(c.Request.Context(), uint(productID), color); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": store.Len()})
	}
}

// DELETE /user/cart
func ClearCart(storage cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := openSessionCart(c, storage)
		if !ok {
			return
		}
		if err := store.Clear(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
