package services

import (
	"fmt"

	"github.com/easayliu/emby-tv-organizer/internal/application/services/jobs"
	"github.com/easayliu/emby-tv-organizer/internal/application/services/organizer"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/category"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/extractor"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/resolver"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/scanner"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/config"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/llm"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/repository"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/telegram"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/tmdb"
)

// ServiceContainer 服务装配容器
// 按配置把基础设施客户端和领域服务组装成可用的任务服务
type ServiceContainer struct {
	Config     *config.Config
	Organizer  *organizer.Organizer
	JobService *jobs.Service
	Scheduler  *jobs.Scheduler
}

// NewServiceContainer 装配全部服务
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	tmdbClient, err := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.RateLimit, cfg.Proxy.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to create tmdb client: %w", err)
	}

	provider, err := llm.NewOpenAIProvider(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm provider: %w", err)
	}

	sc := scanner.New()
	ex := extractor.New(provider, cfg.LLM.BatchSize, cfg.LLM.RateLimit)
	rs := resolver.New(tmdbClient, cfg.TMDB.Languages, cfg.TMDB.MaxSearchPages)
	cl := category.New(cfg.Category)
	org := organizer.New(sc, ex, rs, cl)

	repo := repository.NewJobRepository(cfg.Job.TTLHours)

	var notifier jobs.Notifier
	tg, err := telegram.NewNotifier(cfg.Telegram)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram notifier: %w", err)
	}
	if tg != nil {
		notifier = tg
	}

	jobService := jobs.NewService(org, repo, notifier)
	scheduler := jobs.NewScheduler(cfg.Scheduler, jobService)

	return &ServiceContainer{
		Config:     cfg,
		Organizer:  org,
		JobService: jobService,
		Scheduler:  scheduler,
	}, nil
}
