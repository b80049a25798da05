package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/board"
	"github.com/yeremiapane/hostel-app/config"
	"github.com/yeremiapane/hostel-app/controllers"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"gorm.io/gorm"
)

func SetupRouter(cfg *config.Config, db *gorm.DB, hub *board.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.NewRateLimiter(cfg.RatePerSecond, 1).RateLimit())

	laundrySvc := services.NewLaundryService(db)

	userCtrl := controllers.NewUserController(db)
	hostelCtrl := controllers.NewHostelController(db)
	laundryCtrl := controllers.NewLaundryController(laundrySvc, hub)
	boardCtrl := controllers.NewBoardController(laundrySvc, hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/hostels", hostelCtrl.GetAllHostels)

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", userCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)

		auth.GET("/laundry", laundryCtrl.GetSlots)
		auth.GET("/laundry/board", laundryCtrl.GetBoard)
		auth.GET("/laundry/summary", laundryCtrl.GetSummary)
		auth.GET("/laundry/:id", laundryCtrl.GetSlotByID)
		auth.POST("/laundry", laundryCtrl.BookSlot)
		auth.PATCH("/laundry/:id", laundryCtrl.CancelBooking)
	}

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin))
	{
		admin.POST("/hostels", hostelCtrl.CreateHostel)
		admin.POST("/laundry/slots", laundryCtrl.ProvisionSlots)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/laundry", boardCtrl.LaundryBoard)
	}

	return r
}
