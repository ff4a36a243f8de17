package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"velopark/internal/config"
	"velopark/internal/database"
	"velopark/internal/middleware"
	"velopark/internal/modules/auth"
	"velopark/internal/modules/live"
	"velopark/internal/modules/monitor"
	"velopark/internal/modules/notification"
	"velopark/internal/modules/parking"
	"velopark/internal/modules/schedule"
	jwtsvc "velopark/internal/pkg/jwt"
	"velopark/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	rackRepo := repository.NewRackRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	occupancyRepo := repository.NewOccupancyRepository(db)
	assignmentRepo := repository.NewGuardAssignmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	txManager := repository.NewTxManager(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := live.NewHub()
	defer hub.Close()

	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	parkingService := parking.NewService(
		spaceRepo,
		reservationRepo,
		occupancyRepo,
		rackRepo,
		userRepo,
		txManager,
		hub,
		notificationService,
		parking.Config{
			GracePeriod:      cfg.GracePeriod,
			PendingWindow:    cfg.PendingWindow,
			RetrievalCodeTTL: cfg.RetrievalCodeTTL,
		},
	)
	parkingHandler := parking.NewHandler(parkingService)

	monitorService := monitor.NewService(
		occupancyRepo,
		reservationRepo,
		spaceRepo,
		txManager,
		notificationService,
		hub,
		cfg.SweepInterval,
	)
	monitorHandler := monitor.NewHandler(monitorService)

	scheduleService := schedule.NewService(assignmentRepo, userRepo, rackRepo)
	scheduleHandler := schedule.NewHandler(scheduleService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	liveHandler := live.NewHandler(hub, j)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	liveHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			parkingHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				scheduleHandler.RegisterRoutes(admin)
				monitorHandler.RegisterRoutes(admin)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitorService.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
