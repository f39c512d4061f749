package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-account/internal/app/service"
	"github.com/ikkim/storefront-account/internal/app/view"
	apperrors "github.com/ikkim/storefront-account/internal/errors"
	"github.com/ikkim/storefront-account/internal/middleware"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

// Show renders the wishlist with live stock
// GET /account/wishlist
func (ctrl *WishlistController) Show(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	items, err := ctrl.wishlistService.GetUserWishlist(userID)
	if err != nil {
		apperrors.Respond(c, apperrors.Failed(err, "wishlist"), ProfilePath, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	log.Debug("Wishlist fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})

	view.OK(c, "wishlist.html", view.Page{
		Title:   "Wishlist",
		Nav:     "wishlist",
		Content: view.WishlistContent{Items: items},
	})
}

// Update dispatches wishlist form actions
// POST /account/wishlist
func (ctrl *WishlistController) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	action := formAction(c, "remove_item", "move_to_cart", "clear_wishlist")
	fields := map[string]interface{}{
		"user_id": userID,
		"action":  action,
		"item_id": c.PostForm("item_id"),
	}

	switch action {
	case "remove_item":
		ctrl.removeItem(c, userID, fields)
	case "move_to_cart":
		ctrl.moveToCart(c, userID, fields)
	case "clear_wishlist":
		ctrl.clear(c, userID, fields)
	default:
		apperrors.Respond(c, apperrors.OK(""), WishlistPath, fields)
	}
}

func (ctrl *WishlistController) removeItem(c *gin.Context, userID uint, fields map[string]interface{}) {
	itemID, ok := parseID(c.PostForm("item_id"))
	if !ok {
		fields["skipped"] = true
		apperrors.Respond(c, apperrors.OK(""), WishlistPath, fields)
		return
	}

	removed, err := ctrl.wishlistService.RemoveItem(userID, itemID)
	if err != nil {
		apperrors.Respond(c, apperrors.Failed(err, "remove wishlist item"), WishlistPath, fields)
		return
	}
	if !removed {
		fields["skipped"] = true
		apperrors.Respond(c, apperrors.OK(""), WishlistPath, fields)
		return
	}

	apperrors.Respond(c, apperrors.OK("Item removed from your wishlist."), WishlistPath, fields)
}

func (ctrl *WishlistController) moveToCart(c *gin.Context, userID uint, fields map[string]interface{}) {
	itemID, ok := parseID(c.PostForm("item_id"))
	if !ok {
		fields["skipped"] = true
		apperrors.Respond(c, apperrors.OK(""), WishlistPath, fields)
		return
	}

	result, err := ctrl.wishlistService.MoveToCart(userID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrProductOutOfStock) {
			apperrors.Respond(c, apperrors.Invalid(apperrors.WishlistOutOfStock, "This item is out of stock and can't be moved to your cart."), WishlistPath, fields)
			return
		}
		apperrors.Respond(c, apperrors.Failed(err, "cart"), WishlistPath, fields)
		return
	}

	fields["result"] = int(result)
	if result == service.MoveSkipped {
		apperrors.Respond(c, apperrors.OK(""), WishlistPath, fields)
		return
	}
	apperrors.Respond(c, apperrors.OK("Item moved to your cart."), WishlistPath, fields)
}

func (ctrl *WishlistController) clear(c *gin.Context, userID uint, fields map[string]interface{}) {
	removed, err := ctrl.wishlistService.ClearWishlist(userID)
	if err != nil {
		apperrors.Respond(c, apperrors.Failed(err, "clear wishlist"), WishlistPath, fields)
		return
	}

	fields["removed"] = removed
	apperrors.Respond(c, apperrors.OK("Your wishlist has been cleared."), WishlistPath, fields)
}
