package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	log       *zap.Logger
	users     *service.UserService
	goals     *service.GoalService
	resources *service.ResourceService
	topics    *service.TopicService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, log *zap.Logger) *API {
	return &API{
		db:        gdb,
		log:       log.Named("api"),
		users:     service.NewUserService(gdb, log),
		goals:     service.NewGoalService(gdb, log),
		resources: service.NewResourceService(gdb, log),
		topics:    service.NewTopicService(gdb, log),
	}
}

// Welcome 根路径欢迎信息
func (a *API) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Goal Tracker API"})
}

// Health 健康检查，数据库不可达时返回 503
func (a *API) Health(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		a.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
