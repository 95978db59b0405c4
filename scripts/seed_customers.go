//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/johnquangdev/voice-receptionist/internal/adapter/repository"
	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/database"
	"github.com/johnquangdev/voice-receptionist/pkg/config"
	pkgjwt "github.com/johnquangdev/voice-receptionist/pkg/jwt"
)

// Usage: go run scripts/seed_customers.go
func main() {
	log.Println("🚀 Starting demo customer creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	jwtManager := pkgjwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
	customers := repository.NewCustomerRepository(db)

	demo := []struct {
		Email    string
		Phone    string
		Name     string
		Language string
	}{
		{Email: "alice@test.local", Phone: "+1 (555) 010-0001", Name: "Alice", Language: "en"},
		{Email: "bruno@test.local", Phone: "+34 600 000 002", Name: "Bruno", Language: "es"},
		{Email: "chloe@test.local", Phone: "+33 6 00 00 00 03", Name: "Chloé", Language: "fr"},
		{Email: "dieter@test.local", Phone: "+49 151 0000004", Name: "Dieter", Language: "de"},
	}

	log.Println("🗑️  Cleaning up existing demo customers...")
	db.WithContext(ctx).Where("subscriber_email LIKE ?", "%@test.local").Delete(&entities.AnalyticsRecord{})
	db.WithContext(ctx).Where("email LIKE ?", "%@test.local").Delete(&entities.Customer{})

	log.Println("🔑 Creating demo customers and tokens...")

	for i, d := range demo {
		customer := entities.NewCustomer(d.Email, d.Phone, d.Name)
		customer.PreferredLanguage = d.Language

		if err := customers.Create(ctx, customer); err != nil {
			log.Printf("❌ Failed to create customer %s: %v", d.Email, err)
			continue
		}

		token, err := jwtManager.GenerateAccessToken(customer.ID, customer.Email)
		if err != nil {
			log.Printf("❌ Failed to generate access token for %s: %v", d.Email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 Customer %d: %s\n", i+1, customer.Name)
		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("Email:        %s\n", customer.Email)
		fmt.Printf("Phone:        %s\n", customer.PhoneNumber)
		fmt.Printf("Customer ID:  %s\n", customer.ID)
		fmt.Printf("Language:     %s\n", customer.PreferredLanguage)
		fmt.Printf("\n📋 Analytics Token (GET /v1/analytics, valid %s):\n", jwtManager.GetAccessExpiry())
		fmt.Printf("%s\n", token)
		fmt.Printf("───────────────────────────────────────────────────────────────\n\n")
	}

	log.Println("✅ All demo customers created successfully!")
	log.Println("💡 Usage:")
	log.Println("   1. POST /v1/voice/turn with one of the phone numbers above")
	log.Println("   2. Read the results with header: Authorization: Bearer <token>")
	log.Println("   3. Token expiry:", cfg.JWT.AccessExpiry)
	log.Println("🧹 To clean up, run: DELETE FROM customers WHERE email LIKE '%@test.local'")
}
