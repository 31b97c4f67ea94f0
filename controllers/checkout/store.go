package checkoutControllers

import (
	"context"

	"github.com/federeito/valentino-api/models"
	"gorm.io/gorm"
)

type gormCatalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) Catalog {
	return &gormCatalog{db: db}
}

func (g *gormCatalog) ProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	if err := g.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

type gormOrders struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) OrderStore {
	return &gormOrders{db: db}
}

func (g *gormOrders) Create(ctx context.Context, order *models.Order) error {
	return g.db.WithContext(ctx).Create(order).Error
}
