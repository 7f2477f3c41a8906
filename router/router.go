package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	productCtrl := controllers.NewProductController(db)
	reservationCtrl := controllers.NewReservationController(db)
	ticketCtrl := controllers.NewTicketController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)

	// TABLES (semua role boleh lihat)
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/by-capacity", tableCtrl.FindTablesByCapacity)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)

	// RESERVATIONS (semua role)
	auth.GET("/reservations/availability", reservationCtrl.GetAvailability)
	auth.GET("/reservations", reservationCtrl.GetAllReservations)
	auth.GET("/reservations/mine", reservationCtrl.GetMyReservations)
	auth.POST("/reservations", reservationCtrl.CreateReservation)
	auth.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	auth.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	auth.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)

	// PRODUCTS (lihat untuk semua role, mutasi khusus admin di bawah)
	auth.GET("/products", productCtrl.GetAllProducts)
	auth.GET("/products/low-stock", productCtrl.GetLowStock)
	auth.GET("/products/:product_id", productCtrl.GetProductByID)

	// TICKETS (semua role)
	auth.GET("/tickets", ticketCtrl.GetAllTickets)
	auth.POST("/tickets", ticketCtrl.CreateTicket)
	auth.GET("/tickets/:ticket_id", ticketCtrl.GetTicketByID)
	auth.GET("/tickets/:ticket_id/receipt", ticketCtrl.GetReceipt)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := auth.Group("/admin")
	admin.Use(middlewares.AdminOnly())

	// USER MANAGEMENT
	admin.GET("/users", userCtrl.GetAllUsers)
	admin.POST("/users", userCtrl.Register)
	admin.PATCH("/users/:user_id", userCtrl.UpdateUser)
	admin.DELETE("/users/:user_id", userCtrl.DeleteUser)

	// TABLE MANAGEMENT
	admin.POST("/tables", tableCtrl.CreateTable)
	admin.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// STOCK MANAGEMENT
	admin.POST("/products", productCtrl.CreateProduct)
	admin.PATCH("/products/:product_id", productCtrl.UpdateProduct)
	admin.DELETE("/products/:product_id", productCtrl.DeleteProduct)

	// TICKET MANAGEMENT
	admin.DELETE("/tickets/:ticket_id", ticketCtrl.DeleteTicket)

	// DASHBOARD
	admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", controllers.EventsHandler)
	}

	return r
}
