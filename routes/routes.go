package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sahatak/handlers"
	"sahatak/middleware"
)

// HandlerBundle groups the handlers the router wires up.
type HandlerBundle struct {
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	Doctors      *handlers.DoctorHandler
	Availability *handlers.AvailabilityHandler
	Appointments *handlers.AppointmentHandler
}

// RegisterAuthRoutes registers the public registration and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)
	}
}

// RegisterUserRoutes registers authenticated account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.PUT("/fcm-token", hb.Users.UpdateFCMToken)
	}
}

// RegisterDoctorRoutes registers the doctor directory endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/doctors")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.Doctors.ListDoctors)
		api.GET("/specialties", hb.Doctors.ListSpecialties)
		api.GET("/:id", hb.Doctors.GetDoctor)
		api.GET("/:id/availability", hb.Availability.GetDoctorAvailability)
	}
}

// RegisterAppointmentRoutes registers the booking endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Appointments.Create)
		api.GET("", hb.Appointments.List)
		api.GET("/:id", hb.Appointments.Get)
		api.PUT("/:id/reschedule", hb.Appointments.Reschedule)
		api.PUT("/:id/cancel", hb.Appointments.Cancel)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
}
