package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AleGonz2812/eventos-api/config"
	"github.com/AleGonz2812/eventos-api/internal/handlers"
	"github.com/AleGonz2812/eventos-api/internal/middleware"
	"github.com/AleGonz2812/eventos-api/internal/payments"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	gateway := payments.NewSimulatedGateway()

	r := gin.Default()

	setupRoutes(r, db, gateway)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, gateway payments.Gateway) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.PaymentGatewayMiddleware(gateway))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		venuePublic := public.Group("/venues")
		{
			venuePublic.GET("", handlers.ListVenues)
			venuePublic.GET("/:id", handlers.GetVenue)
		}

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
			eventPublic.GET("/:id/ticket-types", handlers.ListTicketTypes)
		}

		public.GET("/event-types", handlers.ListEventTypes)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		purchases := protected.Group("/purchases")
		{
			purchases.POST("", handlers.CreatePurchase)
			purchases.GET("", handlers.ListPurchases)
			purchases.GET("/:id", handlers.GetPurchase)
		}

		protected.GET("/tickets/:id/qr", handlers.GetTicketQR)
	}

	admin := r.Group("/v1")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("admin"))
	{
		venueAdmin := admin.Group("/venues")
		{
			venueAdmin.POST("", handlers.CreateVenue)
			venueAdmin.PUT("/:id", handlers.UpdateVenue)
			venueAdmin.DELETE("/:id", handlers.DeleteVenue)
		}

		eventAdmin := admin.Group("/events")
		{
			eventAdmin.POST("", handlers.CreateEvent)
			eventAdmin.PUT("/:id", handlers.UpdateEvent)
			eventAdmin.DELETE("/:id", handlers.DeleteEvent)
			eventAdmin.POST("/:id/ticket-types", handlers.CreateTicketType)
		}

		ticketTypeAdmin := admin.Group("/ticket-types")
		{
			ticketTypeAdmin.PUT("/:id", handlers.UpdateTicketType)
			ticketTypeAdmin.DELETE("/:id", handlers.DeleteTicketType)
		}

		eventTypeAdmin := admin.Group("/event-types")
		{
			eventTypeAdmin.POST("", handlers.CreateEventType)
			eventTypeAdmin.PUT("/:id", handlers.UpdateEventType)
			eventTypeAdmin.DELETE("/:id", handlers.DeleteEventType)
		}

		admin.POST("/tickets/validate", handlers.ValidateTicket)
	}
}
