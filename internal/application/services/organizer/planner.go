package organizer

import (
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/pattern"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/scanner"
)

// Planner 迁移规划器
// 把目录结构快照和解析好的元数据组装成节目模型，再渲染成预览树
type Planner struct {
	scanner *scanner.Scanner
}

// NewPlanner 创建规划器
func NewPlanner(sc *scanner.Scanner) *Planner {
	return &Planner{scanner: sc}
}

// BuildShow 组装节目模型
// detectedSeason为文件夹名里提取到的季号，DIRECT_FILES结构下作为整个文件夹的季
func (p *Planner) BuildShow(fs *scanner.FolderStructure, meta *media.CatalogMetadata, category string, detectedSeason int) *media.TVShow {
	show := &media.TVShow{
		Name:           meta.Name,
		FolderType:     fs.FolderType,
		OriginalFolder: fs.Path,
		Metadata:       meta,
		Category:       category,
	}

	if fs.FolderType == media.FolderTypeDirectFiles {
		if season := p.buildSeason(fs.Path, fs.MediaFiles, detectedSeason, meta); season != nil {
			show.Seasons = append(show.Seasons, season)
		}
		return show
	}

	ordinal := 0
	for _, sub := range fs.SubDirs {
		subPath := filepath.Join(fs.Path, sub)
		subFS := p.scanner.Inspect(subPath)
		if len(subFS.MediaFiles) == 0 {
			continue
		}
		ordinal++

		seasonNum := pattern.ExtractSeason(sub, ordinal, pattern.ModeFolder)
		if season := p.buildSeason(subPath, subFS.MediaFiles, seasonNum, meta); season != nil {
			show.Seasons = append(show.Seasons, season)
		}
	}

	sort.Slice(show.Seasons, func(i, j int) bool {
		return show.Seasons[i].Number < show.Seasons[j].Number
	})
	return show
}

// buildSeason 把一个目录下的媒体文件解析成分集序列
func (p *Planner) buildSeason(folder string, files []string, folderSeason int, meta *media.CatalogMetadata) *media.Season {
	if len(files) == 0 {
		return nil
	}

	season := &media.Season{
		ShowName:       meta.Name,
		Number:         folderSeason,
		OriginalFolder: folder,
	}

	position := 0
	for _, file := range files {
		position++
		info := pattern.ExtractEpisode(file, position)

		// 文件名自带季标记时覆盖目录推断的季号
		epSeason := folderSeason
		if info.Season != 1 {
			epSeason = info.Season
		} else if s, ok := pattern.HasExplicitSeason(file); ok && s == 1 {
			epSeason = 1
		}

		ep := &media.Episode{
			SourcePath:   filepath.Join(folder, file),
			ShowName:     meta.Name,
			Season:       epSeason,
			Number:       info.Start,
			EndNumber:    info.End,
			Extension:    filepath.Ext(file),
			CatalogTitle: episodeTitle(meta, epSeason, info.Start, info.End),
		}
		season.Episodes = append(season.Episodes, ep)
	}

	return season
}

// episodeTitle 取分集标题；跨集文件拼接首末两集的标题
func episodeTitle(meta *media.CatalogMetadata, season, start int, end *int) string {
	first := meta.EpisodeTitle(season, start)
	if end == nil {
		return first
	}
	last := meta.EpisodeTitle(season, *end)
	if first == "" || last == "" {
		return first
	}
	return first + "-" + last
}

// RetargetShow 按当前分类重算预览树节点的目标路径
// 分类被覆盖后文件名不变，只有目录前缀变化
func RetargetShow(show *jobmodel.ProcessedShow, outputDir string) {
	targetBase := outputDir
	if show.Category != "" {
		targetBase = filepath.Join(targetBase, show.Category)
	}
	showDir := filepath.Join(targetBase, pattern.BuildShowDirName(show.Name, show.Year, show.TMDBID))

	show.TargetDir = showDir
	for _, season := range show.Seasons {
		for _, ep := range season.Episodes {
			seasonDir := filepath.Join(showDir, pattern.BuildSeasonDirName(ep.Season))
			ep.Destination = filepath.Join(seasonDir, filepath.Base(ep.Destination))
		}
	}
}

// ToProcessed 把节目模型渲染成带目标路径的预览树
// 目标布局: <输出根>/[<分类>/]<节目目录>/Season <N>/<文件名>
func (p *Planner) ToProcessed(show *media.TVShow, outputDir string) *jobmodel.ProcessedShow {
	meta := show.Metadata

	targetBase := outputDir
	if show.Category != "" {
		targetBase = filepath.Join(targetBase, show.Category)
	}
	showDir := filepath.Join(targetBase, pattern.BuildShowDirName(meta.Name, meta.Year, meta.ID))

	processed := &jobmodel.ProcessedShow{
		ID:         uuid.NewString(),
		Name:       meta.Name,
		TMDBID:     meta.ID,
		Year:       meta.Year,
		Category:   show.Category,
		FolderType: string(show.FolderType),
		SourceDir:  show.OriginalFolder,
		TargetDir:  showDir,
		Confidence: string(meta.Confidence),
		Selected:   true,
	}

	for _, season := range show.Seasons {
		ps := &jobmodel.ProcessedSeason{
			Number:       season.Number,
			SourceFolder: season.OriginalFolder,
			Selected:     true,
		}
		for _, ep := range season.Episodes {
			seasonDir := filepath.Join(showDir, pattern.BuildSeasonDirName(ep.Season))
			ps.Episodes = append(ps.Episodes, &jobmodel.ProcessedEpisode{
				Season:      ep.Season,
				Number:      ep.Number,
				EndNumber:   ep.EndNumber,
				Source:      ep.SourcePath,
				Destination: filepath.Join(seasonDir, pattern.BuildFileName(ep, meta.Name)),
				Title:       ep.CatalogTitle,
				Selected:    true,
				Status:      jobmodel.EpisodeStatusPlanned,
			})
		}
		processed.Seasons = append(processed.Seasons, ps)
	}

	return processed
}
