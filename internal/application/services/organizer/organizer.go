package organizer

import (
	"context"
	"path/filepath"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/category"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/extractor"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/pattern"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/resolver"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/scanner"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

// Plan 一次预览的完整产出
type Plan struct {
	Shows       []*jobmodel.ProcessedShow
	Unprocessed []jobmodel.UnprocessedShow
	Stats       map[string]int
}

// Organizer 整理流水线编排器
// 扫描 -> 批量提取剧名 -> 目录解析 -> 分类 -> 规划迁移
// 单个节目的失败只记入未整理清单，不中断整体流程
type Organizer struct {
	scanner    *scanner.Scanner
	extractor  *extractor.Extractor
	resolver   *resolver.Resolver
	classifier *category.Classifier
	planner    *Planner
	executor   *Executor
}

// New 创建整理编排器
func New(sc *scanner.Scanner, ex *extractor.Extractor, rs *resolver.Resolver, cl *category.Classifier) *Organizer {
	return &Organizer{
		scanner:    sc,
		extractor:  ex,
		resolver:   rs,
		classifier: cl,
		planner:    NewPlanner(sc),
		executor:   NewExecutor(),
	}
}

// BuildPlan 生成整理预览，不触碰任何文件
func (o *Organizer) BuildPlan(ctx context.Context, inputDir, outputDir string) (*Plan, error) {
	folders, err := o.scanner.Scan(inputDir)
	if err != nil {
		return nil, err
	}

	stats := NewStatsCollector()
	stats.Add(StatShowsTotal, len(folders))

	plan := &Plan{}
	if len(folders) == 0 {
		plan.Stats = stats.Snapshot()
		return plan, nil
	}

	inputs := make([]extractor.Input, 0, len(folders))
	for _, folder := range folders {
		fs := o.scanner.Inspect(folder)
		inputs = append(inputs, extractor.Input{
			FolderName: filepath.Base(folder),
			FirstFile:  fs.FirstFile,
		})
	}
	extracted := o.extractor.Extract(ctx, inputs)

	for i, folder := range folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		folderName := filepath.Base(folder)
		fs := o.scanner.Inspect(folder)

		if fs.FirstFile == "" {
			o.skip(plan, stats, folderName, "no media files")
			continue
		}

		detectedSeason := 1
		if fs.FolderType == media.FolderTypeDirectFiles {
			detectedSeason = pattern.ExtractSeason(folderName, 1, pattern.ModeFolder)
		}

		name := &extracted[i]
		req := &resolver.Request{
			FolderName:     folderName,
			CNName:         name.CNName,
			ENName:         name.ENName,
			Year:           name.Year,
			TMDBID:         name.TMDBID,
			FolderType:     fs.FolderType,
			DetectedSeason: detectedSeason,
		}

		meta, err := o.resolver.Resolve(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Catalog lookup failed", "folder", folderName, "error", err)
			o.skip(plan, stats, folderName, "catalog lookup failed")
			continue
		}
		if meta == nil {
			o.skip(plan, stats, folderName, "no catalog match")
			continue
		}
		if meta.Confidence != media.ConfidenceHigh {
			o.skip(plan, stats, folderName, "low confidence match")
			continue
		}

		cat := o.classifier.Classify(meta)
		show := o.planner.BuildShow(fs, meta, cat, detectedSeason)
		if len(show.Seasons) == 0 {
			o.skip(plan, stats, folderName, "no media files")
			continue
		}

		processed := o.planner.ToProcessed(show, outputDir)
		plan.Shows = append(plan.Shows, processed)
		stats.Add(StatShowsPlanned, 1)
		stats.Add(StatEpisodesPlanned, countEpisodes(processed))

		logger.Info("Show planned",
			"folder", folderName, "name", meta.Name, "tmdbID", meta.ID,
			"category", cat, "seasons", len(processed.Seasons))
	}

	plan.Stats = stats.Snapshot()
	return plan, nil
}

// Execute 按预览树执行迁移，跳过未勾选的节点
func (o *Organizer) Execute(ctx context.Context, j *jobmodel.Job) error {
	return o.executor.Execute(ctx, j, o.scanner)
}

// ExecuteShow 执行单个节目的迁移，进度按节目粒度对外可见
func (o *Organizer) ExecuteShow(ctx context.Context, show *jobmodel.ProcessedShow, stats *StatsCollector) {
	o.executor.ExecuteShow(ctx, show, o.scanner, stats)
}

func (o *Organizer) skip(plan *Plan, stats *StatsCollector, name, reason string) {
	logger.Info("Show skipped", "folder", name, "reason", reason)
	plan.Unprocessed = append(plan.Unprocessed, jobmodel.UnprocessedShow{Name: name, Reason: reason})
	stats.Add(StatShowsSkipped, 1)
}

func countEpisodes(show *jobmodel.ProcessedShow) int {
	total := 0
	for _, season := range show.Seasons {
		total += len(season.Episodes)
	}
	return total
}
