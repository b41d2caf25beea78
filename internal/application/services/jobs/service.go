package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/easayliu/emby-tv-organizer/internal/application/services/organizer"
	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/repository"
	"github.com/easayliu/emby-tv-organizer/internal/shared/errors"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

// Notifier 任务终态通知，生产实现为Telegram推送
type Notifier interface {
	NotifyJobCompleted(j *jobmodel.Job)
	NotifyJobFailed(j *jobmodel.Job, reason string)
}

// Service 整理任务生命周期管理
// 预览任务与执行任务分别是独立的Job记录: 预览产出迁移树后进入终态，
// 执行任务复制预览树、套用勾选结果后落地迁移。取消是建议性的，
// 在节目边界生效
type Service struct {
	org      *organizer.Organizer
	repo     *repository.JobRepository
	notifier Notifier

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewService 创建任务服务，notifier可为nil
func NewService(org *organizer.Organizer, repo *repository.JobRepository, notifier Notifier) *Service {
	return &Service{
		org:      org,
		repo:     repo,
		notifier: notifier,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// CreatePreview 创建预览任务并异步运行整理流水线
// 返回的任务处于pending状态，完成后可通过Get轮询到预览树
func (s *Service) CreatePreview(inputDir, outputDir string) (*jobmodel.Job, error) {
	if inputDir == "" || outputDir == "" {
		return nil, errors.NewServiceError(errors.ErrorCodeInputMissing, "input_dir and output_dir are required")
	}

	j := newJob(inputDir, outputDir)
	if err := s.repo.Save(j); err != nil {
		return nil, err
	}

	s.launch(j, func(ctx context.Context, live *jobmodel.Job) error {
		plan, err := s.org.BuildPlan(ctx, live.InputDir, live.OutputDir)
		if err != nil {
			return err
		}
		live.ProcessedShows = plan.Shows
		live.UnprocessedShows = plan.Unprocessed
		live.Stats = plan.Stats
		return nil
	})

	return j, nil
}

// ExecuteJob 基于已完成的预览任务创建执行任务
// selection可为nil，表示执行预览树里的全部节点
func (s *Service) ExecuteJob(previewID string, selection *Selection) (*jobmodel.Job, error) {
	preview, err := s.repo.Get(previewID)
	if err != nil {
		return nil, err
	}
	if preview == nil {
		return nil, errors.NewServiceError(errors.ErrorCodeNotFound, fmt.Sprintf("job %s not found", previewID))
	}
	if preview.Status != jobmodel.StatusCompleted {
		return nil, errors.NewServiceError(errors.ErrorCodeJobState,
			fmt.Sprintf("job %s is %s, only completed previews can be executed", previewID, preview.Status))
	}
	if len(preview.ProcessedShows) == 0 {
		return nil, errors.NewServiceError(errors.ErrorCodeJobState, "preview has no shows to execute")
	}

	j := newJob(preview.InputDir, preview.OutputDir)
	j.ProcessedShows = cloneShows(preview.ProcessedShows)
	j.UnprocessedShows = preview.UnprocessedShows
	j.Stats = preview.Stats
	if selection != nil {
		selection.Apply(j)
	}
	if err := s.repo.Save(j); err != nil {
		return nil, err
	}

	s.launch(j, func(ctx context.Context, live *jobmodel.Job) error {
		stats := organizer.NewStatsCollector()
		stats.Merge(live.Stats)

		for _, show := range live.ProcessedShows {
			if ctx.Err() != nil {
				break
			}
			if !show.Selected {
				continue
			}
			s.org.ExecuteShow(ctx, show, stats)

			// 节目边界保存一次进度，供前端轮询和WS推送
			live.Stats = stats.Snapshot()
			live.UpdatedAt = time.Now()
			if err := s.repo.Save(live); err != nil {
				logger.Warn("Failed to save job progress", "jobID", live.ID, "error", err)
			}
		}

		live.Stats = stats.Snapshot()
		return ctx.Err()
	})

	return j, nil
}

// SetShowSelection 修改预览任务里节目级的勾选标记
func (s *Service) SetShowSelection(jobID, showID string, selected bool) (*jobmodel.Job, error) {
	return s.updatePreview(jobID, func(show *jobmodel.ProcessedShow) error {
		show.Selected = selected
		return nil
	}, showID)
}

// SetSeasonSelection 修改预览任务里季级的勾选标记
// 季级取消优先于集级勾选
func (s *Service) SetSeasonSelection(jobID, showID string, seasonNumber int, selected bool) (*jobmodel.Job, error) {
	return s.updatePreview(jobID, func(show *jobmodel.ProcessedShow) error {
		for _, season := range show.Seasons {
			if season.Number == seasonNumber {
				season.Selected = selected
				return nil
			}
		}
		return errors.NewServiceError(errors.ErrorCodeNotFound,
			fmt.Sprintf("season %d not found in show %s", seasonNumber, showID))
	}, showID)
}

// SetCategory 覆盖预览任务里某节目的分类并重算全部目标路径
func (s *Service) SetCategory(jobID, showID, categoryName string) (*jobmodel.Job, error) {
	return s.updatePreview(jobID, func(show *jobmodel.ProcessedShow) error {
		show.Category = categoryName
		return nil
	}, showID)
}

// updatePreview 在已完成的预览任务上套用节目级变更并落库
// 变更后统一重算目标路径，保证分类覆盖立即反映在预览树里
func (s *Service) updatePreview(jobID string, mutate func(*jobmodel.ProcessedShow) error, showID string) (*jobmodel.Job, error) {
	j, err := s.Get(jobID)
	if err != nil {
		return nil, err
	}
	if j.Status != jobmodel.StatusCompleted {
		return nil, errors.NewServiceError(errors.ErrorCodeJobState,
			fmt.Sprintf("job %s is %s, only completed previews can be edited", jobID, j.Status))
	}

	show := j.FindShow(showID)
	if show == nil {
		return nil, errors.NewServiceError(errors.ErrorCodeNotFound,
			fmt.Sprintf("show %s not found in job %s", showID, jobID))
	}
	if err := mutate(show); err != nil {
		return nil, err
	}

	organizer.RetargetShow(show, j.OutputDir)
	j.UpdatedAt = time.Now()
	if err := s.repo.Save(j); err != nil {
		return nil, err
	}
	return j, nil
}

// Get 按ID查询任务
func (s *Service) Get(id string) (*jobmodel.Job, error) {
	j, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, errors.NewServiceError(errors.ErrorCodeNotFound, fmt.Sprintf("job %s not found", id))
	}
	return j, nil
}

// List 列出所有未过期的任务
func (s *Service) List() ([]*jobmodel.Job, error) {
	return s.repo.List()
}

// Cancel 请求取消运行中的任务
// 取消在节目边界生效，进行中的文件迁移会完成后才停
func (s *Service) Cancel(id string) error {
	j, err := s.Get(id)
	if err != nil {
		return err
	}
	if j.Status.Terminal() {
		return errors.NewServiceError(errors.ErrorCodeJobState,
			fmt.Sprintf("job %s is already %s", id, j.Status))
	}

	s.mu.Lock()
	cancel, running := s.cancels[id]
	s.mu.Unlock()

	if running {
		cancel()
		logger.Info("Job cancellation requested", "jobID", id)
		return nil
	}

	// pending但尚未启动的任务直接落终态
	if err := j.Transition(jobmodel.StatusCancelled); err != nil {
		return err
	}
	return s.repo.Save(j)
}

// launch 异步运行任务体并维护状态机
func (s *Service) launch(j *jobmodel.Job, run func(context.Context, *jobmodel.Job) error) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[j.ID] = cancel
	s.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			s.mu.Lock()
			delete(s.cancels, j.ID)
			s.mu.Unlock()
		}()

		if err := j.Transition(jobmodel.StatusRunning); err != nil {
			logger.Warn("Job not runnable", "jobID", j.ID, "error", err)
			return
		}
		if err := s.repo.Save(j); err != nil {
			logger.Warn("Failed to save job", "jobID", j.ID, "error", err)
		}

		err := run(ctx, j)

		switch {
		case ctx.Err() != nil:
			j.Status = jobmodel.StatusCancelled
			logger.Info("Job cancelled", "jobID", j.ID)
		case err != nil:
			j.Status = jobmodel.StatusFailed
			j.Error = err.Error()
			logger.Error("Job failed", "jobID", j.ID, "error", err)
			if s.notifier != nil {
				s.notifier.NotifyJobFailed(j, err.Error())
			}
		default:
			j.Status = jobmodel.StatusCompleted
			logger.Info("Job completed", "jobID", j.ID, "stats", j.Stats)
			if s.notifier != nil {
				s.notifier.NotifyJobCompleted(j)
			}
		}
		j.UpdatedAt = time.Now()

		if err := s.repo.Save(j); err != nil {
			logger.Error("Failed to save finished job", "jobID", j.ID, "error", err)
		}
	}()
}

func newJob(inputDir, outputDir string) *jobmodel.Job {
	now := time.Now()
	return &jobmodel.Job{
		ID:        uuid.NewString(),
		Status:    jobmodel.StatusPending,
		InputDir:  inputDir,
		OutputDir: outputDir,
		Stats:     map[string]int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// cloneShows 深拷贝预览树，执行任务的状态变更不回写预览任务
func cloneShows(shows []*jobmodel.ProcessedShow) []*jobmodel.ProcessedShow {
	data, err := json.Marshal(shows)
	if err != nil {
		return nil
	}
	var out []*jobmodel.ProcessedShow
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
