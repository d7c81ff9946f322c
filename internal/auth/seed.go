package auth

import (
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/travelora/crm-backend/internal/tenant"
)

// SeedDemoTenant creates a demo tenant and its ADMIN user on first boot
// so a fresh environment is immediately usable. No-op when the tenant
// already exists.
func SeedDemoTenant(db *gorm.DB) error {
	var count int64
	if err := db.Model(&tenant.Tenant{}).Where("domain = ?", "demo.localhost").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	t := &tenant.Tenant{
		ID:               uuid.NewString(),
		Name:             "Demo Travel Agency",
		Domain:           "demo.localhost",
		SubscriptionTier: "standard",
	}
	if err := db.Create(t).Error; err != nil {
		return err
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin1234"
		log.Println("SEED_ADMIN_PASSWORD not set, using default demo password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &User{
		ID:           uuid.NewString(),
		Email:        "admin@demo.localhost",
		PasswordHash: string(hash),
		FirstName:    "Demo",
		LastName:     "Admin",
		Role:         RoleAdmin,
		TenantID:     t.ID,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("seeded demo tenant %s with admin %s", t.Domain, admin.Email)
	return nil
}
