package repository

import (
	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/pkg/logger"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	WithTx(tx *gorm.DB) WishlistRepository
	Create(item *model.WishlistItem) error
	FindByUserID(userID uint) ([]model.WishlistItem, error)
	FindByIDForUser(id, userID uint) (*model.WishlistItem, error)
	FindByUserAndProduct(userID, productID uint) (*model.WishlistItem, error)
	DeleteByIDForUser(id, userID uint) (int64, error)
	DeleteByUserID(userID uint) (int64, error)
	DeleteOrphaned() (int64, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *wishlistRepository) WithTx(tx *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: tx}
}

func (r *wishlistRepository) Create(item *model.WishlistItem) error {
	logger.Debug("Creating wishlist item in database", map[string]interface{}{
		"user_id":    item.UserID,
		"product_id": item.ProductID,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create wishlist item in database", err, map[string]interface{}{
			"user_id":    item.UserID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

// FindByUserID joins each row with its live product, newest first. Rows
// whose product was removed from the catalogue are left out.
func (r *wishlistRepository) FindByUserID(userID uint) ([]model.WishlistItem, error) {
	logger.Debug("Finding wishlist items by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var items []model.WishlistItem
	err := r.db.InnerJoins("Product").
		Where("wishlist_items.user_id = ?", userID).
		Order("wishlist_items.created_at DESC, wishlist_items.id DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find wishlist items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Wishlist items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return items, nil
}

// FindByIDForUser returns the row with its live product, scoped to the owner.
func (r *wishlistRepository) FindByIDForUser(id, userID uint) (*model.WishlistItem, error) {
	var item model.WishlistItem
	err := r.db.InnerJoins("Product").
		Where("wishlist_items.id = ? AND wishlist_items.user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *wishlistRepository) FindByUserAndProduct(userID, productID uint) (*model.WishlistItem, error) {
	var item model.WishlistItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteByIDForUser removes one row only if userID owns it.
func (r *wishlistRepository) DeleteByIDForUser(id, userID uint) (int64, error) {
	logger.Debug("Deleting wishlist item from database", map[string]interface{}{
		"wishlist_item_id": id,
		"user_id":          userID,
	})

	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.WishlistItem{})
	if result.Error != nil {
		logger.Error("Failed to delete wishlist item from database", result.Error, map[string]interface{}{
			"wishlist_item_id": id,
			"user_id":          userID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *wishlistRepository) DeleteByUserID(userID uint) (int64, error) {
	logger.Debug("Deleting wishlist items by user ID from database", map[string]interface{}{
		"user_id": userID,
	})

	result := r.db.Where("user_id = ?", userID).Delete(&model.WishlistItem{})
	if result.Error != nil {
		logger.Error("Failed to delete wishlist items by user ID from database", result.Error, map[string]interface{}{
			"user_id": userID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteOrphaned removes rows whose product is gone or soft-deleted.
func (r *wishlistRepository) DeleteOrphaned() (int64, error) {
	live := r.db.Model(&model.Product{}).Select("id")
	result := r.db.Where("product_id NOT IN (?)", live).Delete(&model.WishlistItem{})
	if result.Error != nil {
		logger.Error("Failed to delete orphaned wishlist items", result.Error)
		return 0, result.Error
	}

	logger.Debug("Orphaned wishlist items deleted", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
