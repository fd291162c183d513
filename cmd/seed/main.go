package main

import (
	"log"
	"os"
	"time"

	"symptom-checker-be/internal/model"
	"symptom-checker-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo account for local development.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	email := os.Getenv("SEED_USER_EMAIL")
	if email == "" {
		email = "demo@symptom-checker.local"
	}
	password := os.Getenv("SEED_USER_PASSWORD")
	if password == "" {
		password = "demo12345"
	}

	var existing model.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		color.Yellow("Seed user %s already exists, skipping.", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error: Failed to hash password:", err)
	}

	hashStr := string(hash)
	user := model.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     "Demo User",
		Status:       "active",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		color.Red("Error: Failed to create seed user: %v", err)
		os.Exit(1)
	}

	color.Green("Success: Seeded user %s (password: %s)", email, password)
}
