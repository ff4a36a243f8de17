package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"velopark/internal/config"
	"velopark/internal/database"
	"velopark/internal/domain"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM occupancy_log_entries")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM guard_assignments")
	db.Exec("DELETE FROM spaces")
	db.Exec("DELETE FROM racks")
	db.Exec("DELETE FROM bicycles")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@velopark.kz",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Administrator",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@velopark.kz / admin123")

	clients := []domain.User{}
	clientEmails := []string{"asel@mail.kz", "bekzat@gmail.com", "dina@yandex.kz"}
	for i, email := range clientEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
		client := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleClient,
			Name:         fmt.Sprintf("Client %d", i+1),
			Phone:        fmt.Sprintf("+7 777 123 45%02d", i+67),
		}
		db.Create(&client)
		clients = append(clients, client)
	}

	guards := []domain.User{}
	guardEmails := []string{"aidos@velopark.kz", "marat@velopark.kz"}
	for i, email := range guardEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("guard123"), bcrypt.DefaultCost)
		guard := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleGuard,
			Name:         fmt.Sprintf("Guard %d", i+1),
		}
		db.Create(&guard)
		guards = append(guards, guard)
	}

	// ================== BICYCLES ==================
	log.Println("Creating bicycles...")
	for i, client := range clients {
		db.Create(&domain.Bicycle{
			OwnerID:      client.ID,
			Label:        fmt.Sprintf("City bike %d", i+1),
			SerialNumber: fmt.Sprintf("SN-2026-%04d", i+1),
			Color:        []string{"black", "red", "blue"}[i%3],
		})
	}

	// ================== RACKS & SPACES ==================
	log.Println("Creating racks and spaces...")
	rackNames := []string{"Central Station", "University Campus"}
	for r, name := range rackNames {
		rack := domain.Rack{
			Name:     name,
			Location: fmt.Sprintf("Almaty, point %d", r+1),
		}
		db.Create(&rack)

		for p := 1; p <= 10; p++ {
			db.Create(&domain.Space{
				RackID:   rack.ID,
				Code:     fmt.Sprintf("%s-%02d", string(rune('A'+r)), p),
				Position: p,
				Status:   domain.SpaceFree,
			})
		}

		// ================== GUARD SHIFTS ==================
		for day := 1; day <= 5; day++ {
			db.Create(&domain.GuardAssignment{
				GuardID:       guards[r%len(guards)].ID,
				RackID:        rack.ID,
				DayOfWeek:     day,
				StartTime:     "08:00",
				EndTime:       "20:00",
				EffectiveFrom: time.Now().UTC().Truncate(24 * time.Hour),
				Status:        domain.AssignmentActive,
			})
		}
	}

	log.Println("Seed completed.")
}
