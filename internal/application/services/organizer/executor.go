package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/scanner"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

const (
	// 同一节目内并行迁移的工作协程数
	moveConcurrency = 2
	// 单个文件迁移的看门狗时限，超时标记timeout但不中断其余迁移
	moveTimeout = 60 * time.Second
)

// Executor 迁移执行器
// 按预览树落地文件迁移: 节目间串行，节目内分季推进，
// 季内由固定大小的工作池并行搬移。取消请求在节目和季的边界生效，
// 进行中的单个文件迁移不会被打断
type Executor struct{}

// NewExecutor 创建执行器
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute 执行任务预览树中所有勾选的迁移
// 统计累加进j.Stats；单集失败不终止任务
func (e *Executor) Execute(ctx context.Context, j *jobmodel.Job, sc *scanner.Scanner) error {
	stats := NewStatsCollector()
	stats.Merge(j.Stats)

	for _, show := range j.ProcessedShows {
		if err := ctx.Err(); err != nil {
			j.Stats = stats.Snapshot()
			return err
		}
		if !show.Selected {
			continue
		}

		e.ExecuteShow(ctx, show, sc, stats)
	}

	j.Stats = stats.Snapshot()
	return ctx.Err()
}

// ExecuteShow 执行单个节目的迁移并清理源目录
// 供按节目粒度保存进度的调用方使用
func (e *Executor) ExecuteShow(ctx context.Context, show *jobmodel.ProcessedShow, sc *scanner.Scanner, stats *StatsCollector) {
	e.executeShow(ctx, show, stats)
	e.cleanupSource(show, sc, stats)
}

func (e *Executor) executeShow(ctx context.Context, show *jobmodel.ProcessedShow, stats *StatsCollector) {
	logger.Info("Executing show", "name", show.Name, "target", show.TargetDir)

	for _, season := range show.Seasons {
		if ctx.Err() != nil {
			return
		}
		// 季被取消勾选时整季不动，集级别的勾选不再考虑
		if !season.Selected {
			continue
		}

		// 目标季目录先于本季任何迁移创建完毕
		dirErr := make(map[string]error)
		for _, ep := range season.Episodes {
			if !ep.Selected {
				continue
			}
			dir := filepath.Dir(ep.Destination)
			if _, seen := dirErr[dir]; seen {
				continue
			}
			dirErr[dir] = os.MkdirAll(dir, 0o755)
			if dirErr[dir] != nil {
				logger.Error("Failed to create destination directory",
					"directory", dir, "error", dirErr[dir])
			}
		}

		g := new(errgroup.Group)
		g.SetLimit(moveConcurrency)
		for _, ep := range season.Episodes {
			if !ep.Selected {
				continue
			}
			if err := dirErr[filepath.Dir(ep.Destination)]; err != nil {
				ep.Status = jobmodel.EpisodeStatusError
				ep.Reason = err.Error()
				stats.Add(StatEpisodesErrored, 1)
				continue
			}
			ep := ep
			g.Go(func() error {
				e.moveEpisode(ep, stats)
				return nil
			})
		}
		g.Wait()
	}
}

// moveEpisode 搬移单个文件并落终态
// 目标已存在视为跳过而非失败，方便重复执行同一任务
func (e *Executor) moveEpisode(ep *jobmodel.ProcessedEpisode, stats *StatsCollector) {
	if _, err := os.Stat(ep.Destination); err == nil {
		ep.Status = jobmodel.EpisodeStatusSkipped
		ep.Reason = "destination already exists"
		stats.Add(StatEpisodesSkipped, 1)
		logger.Info("Episode skipped, destination exists", "destination", ep.Destination)
		return
	}

	done := make(chan error, 1)
	go func() {
		done <- moveFile(ep.Source, ep.Destination)
	}()

	select {
	case err := <-done:
		if err != nil {
			ep.Status = jobmodel.EpisodeStatusError
			ep.Reason = err.Error()
			stats.Add(StatEpisodesErrored, 1)
			logger.Error("Episode move failed",
				"source", ep.Source, "destination", ep.Destination, "error", err)
			return
		}
		ep.Status = jobmodel.EpisodeStatusMoved
		stats.Add(StatEpisodesMoved, 1)
		logger.Info("Episode moved", "source", ep.Source, "destination", ep.Destination)
	case <-time.After(moveTimeout):
		ep.Status = jobmodel.EpisodeStatusTimeout
		ep.Reason = fmt.Sprintf("move did not finish within %s", moveTimeout)
		stats.Add(StatEpisodesErrored, 1)
		logger.Error("Episode move timed out",
			"source", ep.Source, "destination", ep.Destination, "timeout", moveTimeout)
	}
}

// moveFile 重命名优先，跨文件系统时退化为复制加删除
func moveFile(source, destination string) error {
	err := os.Rename(source, destination)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(destination)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(destination)
		return err
	}
	return os.Remove(source)
}

// cleanupSource 清理搬空的源目录
// 仅当目录的实际迁出数等于扫描时记录的媒体文件数才尝试删除，
// 有跳过或失败的目录原样保留。SEASON_SUBFOLDERS结构在所有季目录
// 删除后再尝试删除节目目录本身
func (e *Executor) cleanupSource(show *jobmodel.ProcessedShow, sc *scanner.Scanner, stats *StatsCollector) {
	folderMoved := make(map[string]int)
	for _, season := range show.Seasons {
		for _, ep := range season.Episodes {
			if ep.Status == jobmodel.EpisodeStatusMoved {
				folderMoved[filepath.Dir(ep.Source)]++
			}
		}
	}

	allSeasonsRemoved := len(folderMoved) > 0
	for folder, moved := range folderMoved {
		fs, ok := sc.Cache().Get(folder)
		if !ok || moved != len(fs.MediaFiles) {
			allSeasonsRemoved = false
			continue
		}
		if err := os.Remove(folder); err != nil {
			logger.Debug("Source folder not removed", "folder", folder, "error", err)
			allSeasonsRemoved = false
			continue
		}
		stats.Add(StatFoldersRemoved, 1)
		logger.Info("Source folder removed", "folder", folder)
	}

	if show.FolderType == string(media.FolderTypeSeasonSubfolders) && allSeasonsRemoved {
		if err := os.Remove(show.SourceDir); err != nil {
			logger.Debug("Show folder not removed", "folder", show.SourceDir, "error", err)
			return
		}
		stats.Add(StatFoldersRemoved, 1)
		logger.Info("Show folder removed", "folder", show.SourceDir)
	}
}
