package repository

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

func setupRepositoryTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, sku string, price string, stock int) *model.Product {
	product := &model.Product{
		Name:          "Product " + sku,
		SKU:           sku,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createTestOrder(t *testing.T, testDB *gorm.DB, userID uint, status model.OrderStatus, createdAt time.Time, quantities ...int) *model.Order {
	order := &model.Order{
		OrderNumber:   fmt.Sprintf("ORD-%d-%d", userID, createdAt.UnixNano()),
		UserID:        userID,
		Status:        status,
		PaymentMethod: "card",
		PaymentStatus: model.PaymentStatusPaid,
		TotalAmount:   decimal.RequireFromString("50.00"),
		ShippingCost:  decimal.RequireFromString("5.00"),
		TaxAmount:     decimal.RequireFromString("5.00"),
		CreatedAt:     createdAt,
	}
	for i, qty := range quantities {
		order.Items = append(order.Items, model.OrderItem{
			ProductName:  fmt.Sprintf("Line %d", i+1),
			ProductSKU:   fmt.Sprintf("SKU-%d", i+1),
			ProductPrice: decimal.RequireFromString("10.00"),
			Quantity:     qty,
			Subtotal:     decimal.RequireFromString("10.00").Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}
