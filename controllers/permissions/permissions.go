package permissionControllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/federeito/valentino-api/models"
)

// UserLookup resolves the approval flags for an authenticated email.
type UserLookup interface {
	ByEmail(ctx context.Context, email string) (*models.User, error)
}

var ErrUserNotFound = errors.New("user not found")

type gormUserLookup struct {
	db *gorm.DB
}

func NewUserLookup(db *gorm.DB) UserLookup {
	return &gormUserLookup{db: db}
}

func (g *gormUserLookup) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AdminEmails reads the static admin allow-list from the environment.
func AdminEmails() map[string]bool {
	out := make(map[string]bool)
	for _, e := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		e = strings.TrimSpace(strings.ToLower(e))
		if e != "" {
			out[e] = true
		}
	}
	return out
}

// PermissionsHandler answers the price-visibility gate. It always responds
// 200 — anonymous sessions and lookup failures both degrade to "no price
// access" so the client gate never blocks on an error.
func PermissionsHandler(lookup UserLookup, admins map[string]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		denied := gin.H{"canViewPrices": false, "isApproved": false, "isAdmin": false}

		emailVal, exists := c.Get("email")
		if !exists {
			c.JSON(http.StatusOK, denied)
			return
		}
		email := strings.ToLower(emailVal.(string))

		user, err := lookup.ByEmail(c.Request.Context(), email)
		if err != nil {
			if !errors.Is(err, ErrUserNotFound) {
				log.Printf("⚠️ Permission lookup failed for %s: %v", email, err)
			}
			c.JSON(http.StatusOK, denied)
			return
		}

		isAdmin := admins[email]
		c.JSON(http.StatusOK, gin.H{
			"canViewPrices": isAdmin || (user.CanViewPrices && user.Approved),
			"isApproved":    user.Approved,
			"isAdmin":       isAdmin,
		})
	}
}
