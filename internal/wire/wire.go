package wire

import (
	"Folio/internal/api"
	"Folio/internal/api/config"
	"Folio/internal/api/handler"
	"Folio/internal/job"
	"Folio/internal/pkg/cron"
	"Folio/internal/pkg/es"
	"Folio/internal/pkg/kafka"
	"Folio/internal/pkg/mongo"
	"Folio/internal/pkg/redis"
	"Folio/internal/pkg/security"
	"Folio/internal/repository"
	"Folio/internal/service"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Infra 可选的外部依赖，未启用时为 nil
type Infra struct {
	Redis   *goredis.Client
	Mongo   *mongodriver.Database
	Elastic *elasticsearch.TypedClient
	// Publisher 为 nil 时不发送交互事件
	Publisher kafka.Publisher
}

// Services 业务服务集合，CLI 子命令也复用
type Services struct {
	User         service.UserService
	Post         service.PostService
	Interaction  service.InteractionService
	Comment      service.CommentService
	Analytics    service.AnalyticsService
	Reconcile    service.ReconcileService
	Notification service.NotificationService
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	Services     *Services
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildServices(db *gorm.DB, cfg *config.Config, infra Infra) *Services {
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepo(db)
	interactionRepo := repository.NewInteractionRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)

	var tokenStore redis.TokenStore = redis.NewMemoryTokenStore()
	if infra.Redis != nil {
		tokenStore = redis.NewRedisTokenStore(infra.Redis)
	}

	var notificationRepo mongo.NotificationRepo = mongo.NoopNotificationRepo{}
	if infra.Mongo != nil {
		notificationRepo = mongo.NewNotificationRepo(infra.Mongo)
	}

	var postIndex es.PostIndex
	if infra.Elastic != nil {
		postIndex = es.NewPostIndex(infra.Elastic, cfg.Elastic.Index)
	}

	publisher := infra.Publisher
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}

	return &Services{
		User:         service.NewUserService(userRepo, security.NewTokenIssuer(cfg.JWT), tokenStore),
		Post:         service.NewPostService(postRepo, interactionRepo, postIndex),
		Interaction:  service.NewInteractionService(postRepo, interactionRepo, publisher),
		Comment:      service.NewCommentService(postRepo, commentRepo, publisher),
		Analytics:    service.NewAnalyticsService(analyticsRepo),
		Reconcile:    service.NewReconcileService(postRepo, interactionRepo, commentRepo),
		Notification: service.NewNotificationService(notificationRepo),
	}
}

func BuildApplication(db *gorm.DB, cfg *config.Config, infra Infra) (*ApplicationContainer, error) {
	services := BuildServices(db, cfg, infra)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(services.User),
		PostHandler:         handler.NewPostHandler(services.Post),
		PostActionHandler:   handler.NewPostActionHandler(services.Interaction, services.Comment),
		AnalyticsHandler:    handler.NewAnalyticsHandler(services.Analytics, services.Reconcile),
		NotificationHandler: handler.NewNotificationHandler(services.Notification),
		UserService:         services.User,
	}

	router := api.SetupRouter(handlers, cfg.Server)

	app := &ApplicationContainer{
		Router:   router,
		DB:       db,
		Services: services,
		CronMgr:  cron.NewCronManager(cfg.Reconcile.Cron, job.NewReconcileJob(services.Reconcile)),
	}

	// 通知落库依赖 MongoDB，未启用时无需消费
	if cfg.Kafka.Enable && infra.Mongo != nil {
		kafkaMgr, err := kafka.NewConsumerManager(cfg, services.Notification)
		if err != nil {
			return nil, err
		}
		app.KafkaManager = kafkaMgr
	}

	return app, nil
}
