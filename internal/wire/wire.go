package wire

import (
	"IQNet/internal/api"
	"IQNet/internal/api/config"
	"IQNet/internal/api/handler"
	"IQNet/internal/api/middleware"
	"IQNet/internal/job"
	"IQNet/internal/pkg/cron"
	"IQNet/internal/pkg/lock"
	"IQNet/internal/pkg/mongo"
	"IQNet/internal/pkg/push"
	"IQNet/internal/pkg/redis"
	"IQNet/internal/repository"
	"IQNet/internal/service"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoConn *mongoDB.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepository(db)
	connectionRepo := repository.NewConnectionRepo(db)
	pointRepo := repository.NewPointRepo(db)
	savedPostRepo := repository.NewSavedPostRepo(db)
	reportRepo := repository.NewReportRepo(db)
	notificationRepo := mongo.NewNotificationRepo(mongoConn)

	// 进程内互斥表，所有服务共享
	locks := lock.NewManager()
	gateway := push.NewRedisGateway()

	pointService := service.NewPointService(pointRepo, locks)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, gateway, &cfg.Notification)
	postActionService := service.NewPostActionService(postRepo, userRepo, pointService, notificationService, locks)
	postService := service.NewPostService(
		postRepo,
		userRepo,
		connectionRepo,
		savedPostRepo,
		reportRepo,
		notificationService,
		redis.Locker{},
		cfg.Feed.PageSize,
	)
	connectionService := service.NewConnectionService(connectionRepo, userRepo, notificationService)

	handlers := &api.HandlersGroup{
		PostHandler:         handler.NewPostHandler(postService),
		PostActionHandler:   handler.NewPostActionHandler(postActionService),
		ConnectionHandler:   handler.NewConnectionHandler(connectionService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		PointHandler:        handler.NewPointHandler(pointService),
		WSHandler:           handler.NewWsHandler(gateway),
		RateLimiter:         middleware.NewRateLimiter(&cfg.RateLimit),
		AllowOrigins:        cfg.Server.AllowOrigins,
	}

	router := api.SetupRouter(handlers)

	cleanupJob := job.NewNotificationCleanupJob(notificationService, cfg.Notification.RetentionDays)
	cronMgr := cron.NewCronManager(cleanupJob, cfg.Notification.CleanupCron)

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
