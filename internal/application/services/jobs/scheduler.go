package jobs

import (
	"time"

	"github.com/robfig/cron/v3"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/config"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

// Scheduler 定时整理调度器
// 按cron表达式触发预览任务，配置了auto_execute的任务在预览
// 完成后自动全量执行
type Scheduler struct {
	cfg     config.SchedulerConfig
	service *Service
	cron    *cron.Cron
}

// NewScheduler 创建调度器
func NewScheduler(cfg config.SchedulerConfig, service *Service) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		service: service,
		cron:    cron.New(),
	}
}

// Start 注册所有启用的定时任务并启动调度
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		logger.Info("Scheduler disabled")
		return nil
	}

	registered := 0
	for _, task := range s.cfg.Tasks {
		if !task.Enabled {
			continue
		}
		if _, err := s.cron.AddFunc(task.Cron, func() { s.runTask(task) }); err != nil {
			logger.Error("Failed to register scheduled task",
				"task", task.Name, "cron", task.Cron, "error", err)
			return err
		}
		registered++
		logger.Info("Scheduled task registered",
			"task", task.Name, "cron", task.Cron, "autoExecute", task.AutoExecute)
	}

	if registered > 0 {
		s.cron.Start()
	}
	logger.Info("Scheduler started", "tasks", registered)
	return nil
}

// Stop 停止调度，已在运行的任务体不受影响
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runTask(task config.ScheduledTask) {
	logger.Info("Scheduled task triggered", "task", task.Name)

	preview, err := s.service.CreatePreview(task.InputDir, task.OutputDir)
	if err != nil {
		logger.Error("Scheduled preview failed to start", "task", task.Name, "error", err)
		return
	}

	if !task.AutoExecute {
		return
	}

	finished, err := s.waitForJob(preview.ID, 30*time.Minute)
	if err != nil {
		logger.Error("Scheduled preview did not finish", "task", task.Name, "jobID", preview.ID, "error", err)
		return
	}
	if finished.Status != jobmodel.StatusCompleted {
		logger.Warn("Scheduled preview ended without completion",
			"task", task.Name, "jobID", preview.ID, "status", finished.Status)
		return
	}
	if len(finished.ProcessedShows) == 0 {
		logger.Info("Scheduled preview found nothing to organize", "task", task.Name, "jobID", preview.ID)
		return
	}

	if _, err := s.service.ExecuteJob(preview.ID, nil); err != nil {
		logger.Error("Scheduled execution failed to start", "task", task.Name, "jobID", preview.ID, "error", err)
	}
}

// waitForJob 轮询等待任务进入终态
func (s *Scheduler) waitForJob(id string, timeout time.Duration) (*jobmodel.Job, error) {
	deadline := time.Now().Add(timeout)
	for {
		j, err := s.service.Get(id)
		if err != nil {
			return nil, err
		}
		if j.Status.Terminal() {
			return j, nil
		}
		if time.Now().After(deadline) {
			return j, nil
		}
		time.Sleep(2 * time.Second)
	}
}
