// Bootstrap tool: creates the schema and the baseline rows a fresh
// install needs (roles, an admin account).
// cmd/seed/main.go
package main

import (
	"log"
	"os"

	"faculty-portal-api/config"
	"faculty-portal-api/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	err := config.DB.AutoMigrate(
		&models.Role{},
		&models.Department{},
		&models.User{},
		&models.ResearchSubmission{},
		&models.ResearchReview{},
		&models.Notification{},
		&models.Course{},
		&models.Event{},
		&models.UserToken{},
		&models.FileUpload{},
	)
	if err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	roles := []models.Role{
		{RoleID: models.RoleStudent, Role: "student"},
		{RoleID: models.RoleTeacher, Role: "teacher"},
		{RoleID: models.RoleAdmin, Role: "admin"},
		{RoleID: models.RoleCommitteeMember, Role: "committee_member"},
	}
	for _, role := range roles {
		if err := config.DB.Where("role_id = ?", role.RoleID).FirstOrCreate(&role).Error; err != nil {
			log.Fatalf("Failed to seed role %s: %v", role.Role, err)
		}
	}

	seedAdmin()

	log.Println("Seeding completed")
}

func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	var count int64
	config.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Printf("Admin %s already exists, skipping", email)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	admin := models.User{
		UserFname: "Portal",
		UserLname: "Admin",
		Email:     email,
		Password:  string(hashed),
		RoleID:    models.RoleAdmin,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin account:", err)
	}
	log.Printf("Created admin account %s", email)
}
