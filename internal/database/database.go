package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"

	"velopark/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// Migrate creates the schema plus the partial unique index that backstops the
// one-live-reservation-per-user invariant against racing inserts.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Bicycle{},
		&domain.Rack{},
		&domain.Space{},
		&domain.Reservation{},
		&domain.OccupancyLogEntry{},
		&domain.GuardAssignment{},
		&domain.Notification{},
	); err != nil {
		return err
	}

	// Partial indexes are supported by both postgres and sqlite.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_live_reservation_per_user
		 ON reservations(user_id) WHERE status IN ('pending', 'active')`,
	).Error
}
