package repository

import (
	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	GetOrCreate(userID uint) (*model.Cart, error)
	FindByUserID(userID uint) (*model.Cart, error)
	FindItem(cartID, productID uint) (*model.CartItem, error)
	CreateItem(item *model.CartItem) error
	IncrementItem(itemID uint, by int) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

// GetOrCreate returns the user's single cart, inserting it on first use.
// The unique user_id index turns a concurrent insert into a no-op.
func (r *cartRepository) GetOrCreate(userID uint) (*model.Cart, error) {
	logger.Debug("Getting or creating cart in database", map[string]interface{}{
		"user_id": userID,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.Cart{UserID: userID}).Error
	if err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	var cart model.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		logger.Error("Failed to load cart after upsert", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart ready", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})
	return &cart, nil
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id ASC")
	}).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

// IncrementItem adds to a line's quantity in SQL so concurrent increments
// are not lost.
func (r *cartRepository) IncrementItem(itemID uint, by int) error {
	logger.Debug("Incrementing cart item quantity in database", map[string]interface{}{
		"cart_item_id": itemID,
		"by":           by,
	})

	result := r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", by))
	if result.Error != nil {
		logger.Error("Failed to increment cart item quantity", result.Error, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
