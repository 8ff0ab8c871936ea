package provider

import (
	"github.com/Igor-creato/kash-back/internal/cache"
	"github.com/Igor-creato/kash-back/internal/config"
	"github.com/Igor-creato/kash-back/internal/logger"
	"github.com/Igor-creato/kash-back/internal/models"
	"github.com/Igor-creato/kash-back/internal/queue"
	"github.com/Igor-creato/kash-back/internal/repository"
	"github.com/Igor-creato/kash-back/internal/service"
	"github.com/Igor-creato/kash-back/internal/view"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	ClickRepo   repository.ClickRecordRepository

	// Services
	UserAuthService *service.UserAuthService
	CaptchaService  *service.CaptchaService
	TrackerService  *service.TrackerService
	ClickService    *service.ClickService
	ProductService  *service.ProductService

	// Views
	ViewRenderer *view.Renderer
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ClickRepo = repository.NewClickRecordRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.TrackerService = service.NewTrackerService(c.Config, c.ClickRepo, c.QueueClient)
	c.ClickService = service.NewClickService(c.ClickRepo, c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.TrackerService)

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Errorw("provider_init_view_renderer_failed", "error", err)
		panic(err)
	}
	c.ViewRenderer = renderer
}
