package service

import (
	"errors"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/internal/app/repository"
	"github.com/ikkim/storefront-account/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWishlistItemAlreadyExists = errors.New("product already in wishlist")
	ErrProductNotFound           = errors.New("product not found")
	ErrProductOutOfStock         = errors.New("product is out of stock")
)

// MoveResult reports what MoveToCart did.
type MoveResult int

const (
	// MoveSkipped means the wishlist row was already gone.
	MoveSkipped MoveResult = iota
	MoveCreatedLine
	MoveIncrementedLine
)

type WishlistService interface {
	GetUserWishlist(userID uint) ([]model.WishlistItem, error)
	AddToWishlist(userID, productID uint) error
	RemoveItem(userID, itemID uint) (bool, error)
	MoveToCart(userID, itemID uint) (MoveResult, error)
	ClearWishlist(userID uint) (int64, error)
	PruneOrphaned() (int64, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	db           *gorm.DB
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		db:           db,
	}
}

func (s *wishlistService) GetUserWishlist(userID uint) ([]model.WishlistItem, error) {
	logger.Debug("Fetching user wishlist", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User wishlist fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return items, nil
}

func (s *wishlistService) AddToWishlist(userID, productID uint) error {
	logger.Info("Adding item to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to wishlist: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		return err
	}

	existing, err := s.wishlistRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}
	if existing != nil {
		return ErrWishlistItemAlreadyExists
	}

	item := &model.WishlistItem{
		UserID:    userID,
		ProductID: product.ID,
	}
	if err := s.wishlistRepo.Create(item); err != nil {
		return err
	}

	logger.Info("Item added to wishlist successfully", map[string]interface{}{
		"wishlist_item_id": item.ID,
		"user_id":          userID,
		"product_id":       product.ID,
	})
	return nil
}

// RemoveItem deletes one of the user's rows. It reports false when the row
// does not exist or belongs to someone else.
func (s *wishlistService) RemoveItem(userID, itemID uint) (bool, error) {
	logger.Info("Removing item from wishlist", map[string]interface{}{
		"user_id":          userID,
		"wishlist_item_id": itemID,
	})

	affected, err := s.wishlistRepo.DeleteByIDForUser(itemID, userID)
	if err != nil {
		logger.Error("Failed to delete wishlist item", err, map[string]interface{}{
			"user_id":          userID,
			"wishlist_item_id": itemID,
		})
		return false, err
	}
	return affected > 0, nil
}

// MoveToCart moves one wishlist row into the user's cart atomically: the
// cart line is created at the product's current price or incremented by
// one, and the wishlist row is deleted. A row that is already gone is a
// silent no-op.
func (s *wishlistService) MoveToCart(userID, itemID uint) (MoveResult, error) {
	logger.Info("Moving wishlist item to cart", map[string]interface{}{
		"user_id":          userID,
		"wishlist_item_id": itemID,
	})

	result := MoveSkipped
	err := s.db.Transaction(func(tx *gorm.DB) error {
		wishlistRepo := s.wishlistRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		item, err := wishlistRepo.FindByIDForUser(itemID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if !item.InStock() {
			return ErrProductOutOfStock
		}

		cart, err := cartRepo.GetOrCreate(userID)
		if err != nil {
			return err
		}

		line, err := cartRepo.FindItem(cart.ID, item.ProductID)
		switch {
		case err == nil:
			if err := cartRepo.IncrementItem(line.ID, 1); err != nil {
				return err
			}
			result = MoveIncrementedLine
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := cartRepo.CreateItem(&model.CartItem{
				CartID:    cart.ID,
				ProductID: item.ProductID,
				Quantity:  1,
				Price:     item.Product.Price,
			}); err != nil {
				return err
			}
			result = MoveCreatedLine
		default:
			return err
		}

		affected, err := wishlistRepo.DeleteByIDForUser(item.ID, userID)
		if err != nil {
			return err
		}
		if affected == 0 {
			// Removed concurrently; undo the cart change too.
			result = MoveSkipped
			return gorm.ErrRecordNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MoveSkipped, nil
		}
		if errors.Is(err, ErrProductOutOfStock) {
			logger.Warn("Cannot move wishlist item: out of stock", map[string]interface{}{
				"user_id":          userID,
				"wishlist_item_id": itemID,
			})
			return MoveSkipped, err
		}
		logger.Error("Failed to move wishlist item to cart", err, map[string]interface{}{
			"user_id":          userID,
			"wishlist_item_id": itemID,
		})
		return MoveSkipped, err
	}

	if result != MoveSkipped {
		logger.Info("Wishlist item moved to cart", map[string]interface{}{
			"user_id":          userID,
			"wishlist_item_id": itemID,
			"incremented":      result == MoveIncrementedLine,
		})
	}
	return result, nil
}

func (s *wishlistService) ClearWishlist(userID uint) (int64, error) {
	logger.Info("Clearing wishlist", map[string]interface{}{
		"user_id": userID,
	})

	affected, err := s.wishlistRepo.DeleteByUserID(userID)
	if err != nil {
		logger.Error("Failed to clear wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}
	return affected, nil
}

// PruneOrphaned drops rows whose product has left the catalogue.
func (s *wishlistService) PruneOrphaned() (int64, error) {
	affected, err := s.wishlistRepo.DeleteOrphaned()
	if err != nil {
		return 0, err
	}
	logger.Info("Orphaned wishlist items pruned", map[string]interface{}{
		"count": affected,
	})
	return affected, nil
}
