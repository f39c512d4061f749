package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func seedUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, testDB *gorm.DB, sku, price string, stock int) *model.Product {
	product := &model.Product{
		Name:          "Product " + sku,
		SKU:           sku,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func seedOrder(t *testing.T, testDB *gorm.DB, userID uint, status model.OrderStatus, createdAt time.Time) *model.Order {
	order := &model.Order{
		OrderNumber:   fmt.Sprintf("ORD-%d-%d", userID, createdAt.UnixNano()),
		UserID:        userID,
		Status:        status,
		PaymentMethod: "card",
		PaymentStatus: model.PaymentStatusPaid,
		TotalAmount:   decimal.RequireFromString("118.50"),
		ShippingCost:  decimal.RequireFromString("10.00"),
		TaxAmount:     decimal.RequireFromString("8.50"),
		ShippingAddress: model.EncodeAddressSnapshot(model.AddressSnapshot{
			Name:       "Jane Doe",
			Street:     "1 Main St",
			City:       "Toronto",
			Province:   "ON",
			PostalCode: "M5V 2T6",
			Country:    "Canada",
		}),
		CreatedAt: createdAt,
		Items: []model.OrderItem{
			{
				ProductName:  "Mug",
				ProductSKU:   "MUG-1",
				ProductPrice: decimal.RequireFromString("25.00"),
				Quantity:     2,
				Subtotal:     decimal.RequireFromString("50.00"),
			},
			{
				ProductName:  "Kettle",
				ProductSKU:   "KET-1",
				ProductPrice: decimal.RequireFromString("50.00"),
				Quantity:     1,
				Subtotal:     decimal.RequireFromString("50.00"),
			},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}
