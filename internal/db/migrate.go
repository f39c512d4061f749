package db

import (
	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by this service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Address{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.WishlistItem{},
		&model.Cart{},
		&model.CartItem{},
	}
}

// Migrate runs database migrations against the global connection
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB applies the schema and the constraints AutoMigrate cannot express.
func MigrateDB(gdb *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := gdb.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := ensureSingleDefaultAddress(gdb); err != nil {
		logger.Error("Failed to create default address index", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// ensureSingleDefaultAddress adds a partial unique index so a user can hold
// at most one default address. MySQL has no partial indexes; there the
// transactional AddressRepository.SetDefault is the only guard.
func ensureSingleDefaultAddress(gdb *gorm.DB) error {
	switch gdb.Dialector.Name() {
	case "postgres":
		return gdb.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_one_default ON addresses (user_id) WHERE is_default").Error
	case "sqlite":
		return gdb.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_one_default ON addresses (user_id) WHERE is_default = 1").Error
	default:
		logger.Warn("Partial indexes unsupported, skipping default address index", map[string]interface{}{
			"dialect": gdb.Dialector.Name(),
		})
		return nil
	}
}
