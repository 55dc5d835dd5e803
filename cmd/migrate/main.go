package main

import (
	"context"
	"log"
	"os"

	"grid-portal-be/internal/model"
	"grid-portal-be/internal/repository/implementation"
	"grid-portal-be/pkg/database"
	"grid-portal-be/pkg/events"

	"github.com/joho/godotenv"
)

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

	log.Println("Starting GORM migration...")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create extension: %v. Continuing...", err)
	}

	models := []interface{}{
		&model.Client{},
		&model.ClientUser{},
		&model.Position{},
		&model.CandidateFile{},
		&model.FeedbackNote{},
		&model.NotificationType{},
		&model.Notification{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	log.Println("Seeding notification types...")

	types := []model.NotificationType{
		{Code: events.KindStatus, SubjectTemplate: "Status update – {file}", IsActive: true},
		{Code: events.KindNote, SubjectTemplate: "New note – {file}", IsActive: true},
		{Code: events.KindNewPosition, SubjectTemplate: "New Position Added – {client}", IsActive: true},
		{Code: events.KindNewClient, SubjectTemplate: "New Client Added – {client}", IsActive: true},
		{Code: events.KindNewUser, SubjectTemplate: "New Client User – {client}", IsActive: true},
	}

	ctx := context.Background()
	typeRepo := implementation.NewNotificationTypeRepository(db)
	for _, t := range types {
		seed := t
		if err := typeRepo.Upsert(ctx, &seed); err != nil {
			log.Printf("Warn: Failed to seed notification type %s: %v", t.Code, err)
		}
	}

	log.Println("Migration complete.")
}
