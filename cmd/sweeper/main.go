package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"velopark/internal/config"
	"velopark/internal/database"
	"velopark/internal/modules/monitor"
	"velopark/internal/modules/notification"
	"velopark/internal/repository"
)

// One-shot runner for both sweeps, for cron or manual operation alongside the
// in-process scheduler of cmd/api.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	occupancyRepo := repository.NewOccupancyRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	txManager := repository.NewTxManager(db)

	svc := monitor.NewService(
		occupancyRepo,
		reservationRepo,
		spaceRepo,
		txManager,
		notification.NewService(notificationRepo),
		nil,
		cfg.SweepInterval,
	)

	ctx := context.Background()

	flagged, err := svc.RunInfractionSweep(ctx)
	if err != nil {
		log.Fatalf("infraction sweep failed: %v", err)
	}
	expired, err := svc.RunExpirySweep(ctx)
	if err != nil {
		log.Fatalf("expiry sweep failed: %v", err)
	}

	log.Printf("sweep completed: infractions=%d expired_reservations=%d", flagged, expired)
}
