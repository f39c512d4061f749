package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/storefront-account/config"
	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/internal/app/repository"
	"github.com/ikkim/storefront-account/internal/app/service"
	"github.com/ikkim/storefront-account/internal/db"
	"github.com/ikkim/storefront-account/internal/session"
	"github.com/ikkim/storefront-account/pkg/logger"
	"github.com/ikkim/storefront-account/pkg/redis"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "Demo!pass1"
	demoOrders   = 12
)

var (
	shippingFlat = decimal.RequireFromString("9.95")
	taxRate      = decimal.RequireFromString("0.13")
)

func main() {
	// Usage: go run ./cmd/seed [catalogue.xlsx]
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "warn", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate:", err)
	}

	if err := redis.Init(&cfg.Redis); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redis.Close()

	products := defaultProducts()
	if len(os.Args) > 1 {
		fmt.Printf("Reading XLSX file: %s\n", os.Args[1])
		if products, err = readProductsFromXLSX(os.Args[1]); err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}
	}

	gdb := db.GetDB()
	if err := upsertProducts(gdb, products); err != nil {
		log.Fatal("Failed to seed products:", err)
	}

	user, err := ensureDemoUser(repository.NewUserRepository(gdb))
	if err != nil {
		log.Fatal("Failed to create demo user:", err)
	}

	addresses, err := ensureAddresses(repository.NewAddressRepository(gdb), user)
	if err != nil {
		log.Fatal("Failed to create addresses:", err)
	}

	orders, err := createOrders(repository.NewOrderRepository(gdb), user, addresses, products)
	if err != nil {
		log.Fatal("Failed to create orders:", err)
	}

	wishlistService := service.NewWishlistService(
		repository.NewWishlistRepository(gdb),
		repository.NewCartRepository(gdb),
		repository.NewProductRepository(gdb),
		gdb,
	)
	wishlisted := 0
	for _, p := range products[:min(3, len(products))] {
		err := wishlistService.AddToWishlist(user.ID, p.ID)
		if err != nil && !errors.Is(err, service.ErrWishlistItemAlreadyExists) {
			log.Fatal("Failed to add wishlist item:", err)
		}
		wishlisted++
	}

	sessions := session.NewManager(session.NewStore(redis.GetClient(), cfg.Session.TTL), session.Options{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
	})
	cookie, err := sessions.Open(context.Background(), session.Identity{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	})
	if err != nil {
		log.Fatal("Failed to open session:", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")
	rows := [][]string{
		{"User", fmt.Sprintf("%s (#%d)", user.FullName(), user.ID)},
		{"Email", user.Email},
		{"Password", demoPassword},
		{"Products", fmt.Sprint(len(products))},
		{"Addresses", fmt.Sprint(len(addresses))},
		{"Orders created", fmt.Sprint(orders)},
		{"Wishlist items", fmt.Sprint(wishlisted)},
		{"Session cookie", sessions.CookieName() + "=" + cookie},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			log.Fatal("Failed to build summary:", err)
		}
	}
	if err := table.Render(); err != nil {
		log.Fatal("Failed to print summary:", err)
	}
}

// upsertProducts inserts unknown SKUs and fills in the ids of known ones.
func upsertProducts(gdb *gorm.DB, products []model.Product) error {
	for i := range products {
		p := &products[i]
		if err := gdb.Where(model.Product{SKU: p.SKU}).Attrs(*p).FirstOrCreate(p).Error; err != nil {
			return fmt.Errorf("product %s: %w", p.SKU, err)
		}
	}
	return nil
}

func ensureDemoUser(userRepo repository.UserRepository) (*model.User, error) {
	registration := service.NewRegistrationService(userRepo)
	user, err := registration.Register(service.RegistrationInput{
		FirstName:       "Demo",
		LastName:        "Shopper",
		Email:           demoEmail,
		Password:        demoPassword,
		PasswordConfirm: demoPassword,
	})
	if errors.Is(err, service.ErrEmailAlreadyExists) {
		return userRepo.FindByEmail(demoEmail)
	}
	return user, err
}

func ensureAddresses(addressRepo repository.AddressRepository, user *model.User) ([]model.Address, error) {
	existing, err := addressRepo.FindByUserID(user.ID)
	if err != nil || len(existing) > 0 {
		return existing, err
	}

	addresses := []model.Address{
		{UserID: user.ID, Name: "Home", Street: "120 Queen St W", City: "Toronto", Province: "ON", PostalCode: "M5H 2N2", Country: "Canada", Phone: "+1 416 555 0100", IsDefault: true},
		{UserID: user.ID, Name: "Office", Street: "1 Yonge St", City: "Toronto", Province: "ON", PostalCode: "M5E 1E5", Country: "Canada"},
	}
	for i := range addresses {
		if err := addressRepo.Create(&addresses[i]); err != nil {
			return nil, err
		}
	}
	return addresses, nil
}

// createOrders spreads demoOrders orders over the past weeks, cycling
// through every status so the history filters all have rows.
func createOrders(orderRepo repository.OrderRepository, user *model.User, addresses []model.Address, products []model.Product) (int, error) {
	if len(products) == 0 || len(addresses) == 0 {
		return 0, nil
	}
	snapshot := model.EncodeAddressSnapshot(model.AddressSnapshot{
		Name:       user.FullName(),
		Street:     addresses[0].Street,
		City:       addresses[0].City,
		Province:   addresses[0].Province,
		PostalCode: addresses[0].PostalCode,
		Country:    addresses[0].Country,
		Phone:      addresses[0].Phone,
	})

	now := time.Now()
	for i := 0; i < demoOrders; i++ {
		status := model.OrderStatuses[i%len(model.OrderStatuses)]

		var items []model.OrderItem
		subtotal := decimal.Zero
		for j := 0; j <= i%3 && j < len(products); j++ {
			p := products[(i+j)%len(products)]
			qty := j + 1
			line := p.Price.Mul(decimal.NewFromInt(int64(qty)))
			subtotal = subtotal.Add(line)
			items = append(items, model.OrderItem{
				ProductName:  p.Name,
				ProductSKU:   p.SKU,
				ProductPrice: p.Price,
				Quantity:     qty,
				Subtotal:     line,
			})
		}

		tax := subtotal.Mul(taxRate).Round(2)
		paymentStatus := model.PaymentStatusPaid
		switch status {
		case model.OrderStatusPending:
			paymentStatus = model.PaymentStatusPending
		case model.OrderStatusRefunded:
			paymentStatus = model.PaymentStatusRefunded
		}

		order := &model.Order{
			OrderNumber:     "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
			UserID:          user.ID,
			Status:          status,
			PaymentMethod:   "card",
			PaymentStatus:   paymentStatus,
			TotalAmount:     subtotal.Add(shippingFlat).Add(tax),
			ShippingCost:    shippingFlat,
			TaxAmount:       tax,
			ShippingAddress: snapshot,
			BillingAddress:  snapshot,
			CreatedAt:       now.Add(-time.Duration(demoOrders-i) * 36 * time.Hour),
			Items:           items,
		}
		if err := orderRepo.Create(order); err != nil {
			return i, err
		}
	}
	return demoOrders, nil
}
