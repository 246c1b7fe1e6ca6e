package db

import (
	"github.com/jattu8602/ek-sub000/config"
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"github.com/jattu8602/ek-sub000/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.PasswordReset{},
		&model.UserAddress{},
		&model.Product{},
		&model.ProductUnit{},
		&model.CartItem{},
		&model.Favorite{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentTransaction{},
		&model.Rating{},
		&model.Review{},
		&model.ContactSubmission{},
		&model.SellerApplication{},
		&model.NewsletterSubscriber{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedAdmin ensures the bootstrap admin account exists.
// Runs on every startup; skips silently when the account is already there
// or when the credentials are not configured.
func SeedAdmin(cfg *config.Config) error {
	email := cfg.Server.AdminEmail
	password := cfg.Server.AdminPassword
	if email == "" || password == "" {
		logger.Info("Admin credentials not configured, skipping admin seed")
		return nil
	}

	var count int64
	if err := DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Admin",
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}

	logger.Info("Seeded admin user", map[string]interface{}{
		"email": email,
	})
	return nil
}
