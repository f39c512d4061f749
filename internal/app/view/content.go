package view

import (
	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/internal/app/service"
)

type OrderDetailContent struct {
	Detail       *service.OrderDetail
	Confirmation bool
}

type OrderHistoryContent struct {
	History *service.OrderHistory
}

type ProfileContent struct {
	Profile *service.ProfilePage
}

type WishlistContent struct {
	Items []model.WishlistItem
}

type RegisterContent struct {
	LoginPath         string
	MinPasswordLength int
}
