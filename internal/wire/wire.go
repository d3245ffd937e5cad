package wire

import (
	"Pulseboard/internal/api"
	"Pulseboard/internal/api/config"
	"Pulseboard/internal/api/handler"
	"Pulseboard/internal/job"
	"Pulseboard/internal/pkg/cron"
	"Pulseboard/internal/provider"
	"Pulseboard/internal/repository"
	"Pulseboard/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router        *gin.Engine
	DB            *gorm.DB
	CronMgr       *cron.Manager
	CollectionSvc service.CollectionService
}

// BuildApplication 显式构造依赖图，不做运行时扫描
func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	linkRepo := repository.NewAccountLinkRepo(db)
	statRepo := repository.NewDailyStatRepo(db)
	metricRepo := repository.NewDailyStatMetricRepo(db)

	registry := buildProviderRegistry(cfg, linkRepo)

	collectionSvc := service.NewCollectionService(
		userRepo,
		statRepo,
		metricRepo,
		registry,
		cfg.Collector.Workers,
		time.Duration(cfg.Collector.TimeoutSeconds)*time.Second,
	)
	dailyStatSvc := service.NewDailyStatService(statRepo)
	metricSvc := service.NewDailyStatMetricService(metricRepo)
	accountLinkSvc := service.NewAccountLinkService(linkRepo)

	handlers := &api.HandlersGroup{
		DailyStatHandler:   handler.NewDailyStatHandler(dailyStatSvc),
		MetricHandler:      handler.NewMetricHandler(metricSvc),
		AccountLinkHandler: handler.NewAccountLinkHandler(accountLinkSvc),
	}

	router := api.SetupRouter(handlers)

	collectJob := job.NewCollectJob(collectionSvc)
	cronMgr := cron.NewCronManager(collectJob)

	return &ApplicationContainer{
		Router:        router,
		DB:            db,
		CronMgr:       cronMgr,
		CollectionSvc: collectionSvc,
	}, nil
}

// buildProviderRegistry 按配置装配四个服务商适配器
func buildProviderRegistry(cfg *config.Config, linkRepo repository.AccountLinkRepo) *provider.Registry {
	timeout := time.Duration(cfg.Collector.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := cfg.Providers

	return provider.NewRegistry(
		provider.NewGitHubFetcher(p.GitHub.BaseURL, timeout),
		provider.NewLeetCodeFetcher(p.LeetCode.BaseURL, timeout),
		provider.NewWakaTimeFetcher(p.WakaTime.BaseURL, timeout),
		provider.NewFitbitFetcher(
			p.Fitbit.BaseURL,
			p.Fitbit.TokenURL,
			p.Fitbit.ClientID,
			p.Fitbit.ClientSecret,
			timeout,
			linkRepo.StoreOrUpdate,
		),
	)
}
