package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/summario-team/summario-api/internal/domain/entities"
	"github.com/summario-team/summario-api/internal/infrastructure/database"
	"github.com/summario-team/summario-api/pkg/config"
	pkgjwt "github.com/summario-team/summario-api/pkg/jwt"
)

func main() {
	log.Println("🚀 Starting test users creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Initialize JWT manager
	jwtManager := pkgjwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	// Define test users; the first one carries a ready-made AI
	// configuration so summary generation works out of the box.
	testUsers := []struct {
		Email      string
		Name       string
		Configured bool
	}{
		{Email: "alice@test.local", Name: "Alice", Configured: true},
		{Email: "bob@test.local", Name: "Bob"},
		{Email: "charlie@test.local", Name: "Charlie"},
	}

	log.Println("🗑️  Cleaning up existing test users...")
	db.Where("user_id IN (SELECT id FROM users WHERE email LIKE ?)", "%@test.local").Delete(&entities.Meeting{})
	db.Where("email LIKE ?", "%@test.local").Delete(&entities.User{})

	log.Println("🔑 Creating test users and tokens...")

	prompt := "You are an executive assistant. Write concise meeting minutes in the language of the transcript."
	template := "# Minutes of {{MEETING_TITLE}}\n\n## {{AGENDA_TOPIC}}\n{{SUMMARY}}\n"
	example := "# Minutes of Weekly Sync\n\n## Status round\nEveryone reported on track.\n"

	for i, testUser := range testUsers {
		user := &entities.User{
			ID:       uuid.New(),
			Email:    testUser.Email,
			Name:     testUser.Name,
			IsActive: true,
			Timezone: "UTC",
			Language: "en",
		}
		if testUser.Configured {
			user.AIGeneratedPrompt = &prompt
			user.AIGeneratedTemplate = &template
			user.ExampleProtocol = &example
		}

		if err := db.Create(user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", testUser.Email, err)
			continue
		}

		accessToken, err := jwtManager.GenerateAccessToken(user.ID, user.Email, "user")
		if err != nil {
			log.Printf("❌ Failed to generate access token for %s: %v", testUser.Email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d: %s\n", i+1, testUser.Name)
		fmt.Printf("Email:        %s\n", user.Email)
		fmt.Printf("User ID:      %s\n", user.ID)
		fmt.Printf("AI config:    %v\n", testUser.Configured)
		fmt.Printf("\n📋 Access Token (Copy to Postman):\n%s\n\n", accessToken)
	}

	log.Println("✅ All test users created successfully!")
	log.Println("💡 Set header: Authorization: Bearer <access_token>; expiry:", cfg.JWT.AccessExpiry)
	log.Println("🧹 To clean up, run: DELETE FROM users WHERE email LIKE '%@test.local'")
}
