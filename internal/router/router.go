package router

import (
	"goals-service/internal/handler"
	"goals-service/internal/middleware"
	"goals-service/internal/realtime"
	"goals-service/internal/repository"
	"goals-service/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Router struct {
	engine          *gin.Engine
	authHandler     *handler.AuthHandler
	friendHandler   *handler.FriendHandler
	goalHandler     *handler.GoalHandler
	activityHandler *handler.ActivityHandler
	wsHandler       *handler.WSHandler
	authService     *service.AuthService
	hub             *realtime.Hub
}

func New(
	hub *realtime.Hub,
	authService *service.AuthService,
	friendService *service.FriendService,
	presence repository.PresenceRepository,
	db *gorm.DB,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogAPI())

	goalRepo := repository.NewGoalRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &Router{
		engine:          engine,
		authHandler:     handler.NewAuthHandler(authService),
		friendHandler:   handler.NewFriendHandler(friendService, presence),
		goalHandler:     handler.NewGoalHandler(goalRepo),
		activityHandler: handler.NewActivityHandler(friendService, goalRepo, taskRepo, userRepo),
		wsHandler:       handler.NewWSHandler(hub),
		authService:     authService,
		hub:             hub,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "connections": r.hub.Registry().Count()})
	})

	api := r.engine.Group("/api/v1")

	// The websocket endpoint does not require the HTTP auth middleware;
	// authentication happens in-band as the first frame.
	api.GET("/ws", r.wsHandler.HandleWebSocket)

	auth := api.Group("/auth")
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
	}

	authenticated := api.Group("/")
	authenticated.Use(middleware.JWTAuth(r.authService))
	{
		friends := authenticated.Group("/friends")
		{
			friends.POST("", r.friendHandler.SendRequest)
			friends.GET("", r.friendHandler.List)
			friends.GET("/online", r.friendHandler.Online)
			friends.PUT("/:id/accept", r.friendHandler.Accept)
			friends.PUT("/:id/reject", r.friendHandler.Reject)
		}

		authenticated.GET("/goals", r.goalHandler.List)
		authenticated.GET("/activity", r.activityHandler.Feed)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
