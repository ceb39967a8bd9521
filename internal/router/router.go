package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/config"
	"github.com/goaltracker/internal/handler"
	"github.com/goaltracker/internal/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const sessionName = "goaltracker_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig, log *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		gin.Recovery(),
		otelgin.Middleware(cfg.ServiceName),
		middleware.CORS(cfg.CORSOrigins),
	)

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/", api.Welcome)
	r.GET("/health", api.Health)

	apiGroup := r.Group("/api")
	{
		users := apiGroup.Group("/users")
		users.POST("/signup", api.Signup)
		users.POST("/login", api.Login)
		users.POST("/logout", api.Logout)
		users.GET("/me", api.CurrentUser)
		users.GET("/:id", api.GetUser)
		users.PUT("/:id", api.UpdateUser)
		users.PUT("/:id/change-password", api.ChangePassword)
		users.DELETE("/:id", api.DeleteUser)

		goals := apiGroup.Group("/goals")
		goals.POST("", api.CreateGoal)
		goals.GET("/user/:user_id", api.ListGoalsByUser)
		goals.GET("/user/:user_id/details", api.ListGoalDetails)
		goals.GET("/:id", api.GetGoal)
		goals.PUT("/:id", api.UpdateGoal)
		goals.DELETE("/:id", api.DeleteGoal)

		resources := apiGroup.Group("/resources")
		resources.POST("", api.CreateResource)
		resources.GET("/goal/:goal_id", api.ListResourcesByGoal)
		resources.GET("/:id", api.GetResource)
		resources.PUT("/:id", api.UpdateResource)
		resources.DELETE("/:id", api.DeleteResource)

		topics := apiGroup.Group("/topics")
		topics.POST("", api.CreateTopic)
		topics.POST("/bulk", api.BulkCreateTopics)
		topics.GET("/resource/:resource_id", api.ListTopicsByResource)
		topics.GET("/:id", api.GetTopic)
		topics.PUT("/:id", api.UpdateTopic)
		topics.PATCH("/:id/status", api.UpdateTopicStatus)
		topics.DELETE("/:id", api.DeleteTopic)
	}

	return r
}
