package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"sahatak/config"
	"sahatak/database"
	appointmentRepo "sahatak/database/repository/appointment"
	doctorRepo "sahatak/database/repository/doctor"
	userRepoPkg "sahatak/database/repository/user"
	"sahatak/handlers"
	"sahatak/middleware"
	"sahatak/routes"
	"sahatak/services/notification"
	"sahatak/services/scheduling"
	"sahatak/services/user"
	"sahatak/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	if err := doctorRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure doctor indexes: %v", err)
	}
	if err := appointmentRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	doctors := doctorRepo.NewMongoDoctorRepo()
	appointments := appointmentRepo.NewMongoAppointmentRepo()
	users := userRepoPkg.NewMongoUserRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo: users,
	}

	notificationService := &notification.DefaultNotificationService{
		Users: users,
	}

	engine := &scheduling.DefaultEngine{
		Appointments: appointments,
		Cache:        utils.GetCacheClient(),
		CacheTTL:     time.Duration(config.AppConfig.AvailabilityCacheTTL) * time.Second,
	}

	// handlers.
	handlerBundle := &routes.HandlerBundle{
		Auth:         handlers.NewAuthHandler(userService),
		Users:        handlers.NewUserHandler(userService),
		Doctors:      handlers.NewDoctorHandler(doctors),
		Availability: handlers.NewAvailabilityHandler(doctors, engine),
		Appointments: handlers.NewAppointmentHandler(appointments, doctors, engine, notificationService),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
