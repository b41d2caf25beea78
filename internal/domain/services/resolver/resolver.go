package resolver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/tmdb"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
	strutil "github.com/easayliu/emby-tv-organizer/pkg/utils/string"
	gocache "github.com/patrickmn/go-cache"
)

// CatalogClient 目录服务访问接口
// 生产实现为tmdb.Client，测试中注入假客户端
type CatalogClient interface {
	SearchTV(ctx context.Context, query string, year int, language string, page int) (*tmdb.SearchTVResponse, error)
	GetTVDetails(ctx context.Context, tvID int, language string) (*tmdb.TVDetails, error)
	GetAlternativeTitles(ctx context.Context, tvID int) (*tmdb.AlternativeTitlesResponse, error)
	GetTranslations(ctx context.Context, tvID int) (*tmdb.TranslationsResponse, error)
	GetSeasonDetails(ctx context.Context, tvID, seasonNumber int, language string) (*tmdb.Season, error)
}

// Request 一次解析请求
type Request struct {
	FolderName     string
	CNName         *string
	ENName         *string
	Year           *int
	TMDBID         *int
	FolderType     media.FolderType
	DetectedSeason int
}

// Resolver 多策略目录解析器
// 解析结果按tmdb id（优先）或文件夹名缓存，命中缓存跳过全部外部调用
type Resolver struct {
	client    CatalogClient
	languages []string // 有序，首个为默认语言
	maxPages  int
	cache     *gocache.Cache
}

const (
	cacheTTL     = time.Hour
	cacheCleanup = 10 * time.Minute
)

// New 创建解析器
func New(client CatalogClient, languages []string, maxPages int) *Resolver {
	if len(languages) == 0 {
		languages = []string{"zh-CN"}
	}
	if maxPages <= 0 {
		maxPages = 5
	}
	return &Resolver{
		client:    client,
		languages: languages,
		maxPages:  maxPages,
		cache:     gocache.New(cacheTTL, cacheCleanup),
	}
}

func (r *Resolver) defaultLanguage() string {
	return r.languages[0]
}

func cacheKey(req *Request) string {
	if req.TMDBID != nil {
		return "id:" + strconv.Itoa(*req.TMDBID)
	}
	return "folder:" + req.FolderName
}

// Resolve 解析一个节目
// 找不到任何候选时返回(nil, nil)；返回的元数据置信度可能为low，由调用方决定取舍
func (r *Resolver) Resolve(ctx context.Context, req *Request) (*media.CatalogMetadata, error) {
	key := cacheKey(req)
	if cached, found := r.cache.Get(key); found {
		logger.Debug("Resolver cache hit", "key", key)
		return cached.(*media.CatalogMetadata), nil
	}

	meta, err := r.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		r.cache.Set(key, meta, gocache.DefaultExpiration)
	}
	return meta, nil
}

func (r *Resolver) resolve(ctx context.Context, req *Request) (*media.CatalogMetadata, error) {
	// 策略1: 明确给出tmdb id时直接取详情，置信度恒为high
	if req.TMDBID != nil {
		return r.resolveByID(ctx, req)
	}

	query := queryOf(req)
	if query == "" {
		return nil, nil
	}

	// 季号即发行年特例: 直接文件结构且检测到的季号>1时，
	// 文件夹里的年份很可能是第N季的发行年而非首播年，初次搜索不带年份过滤
	skipYearFilter := req.FolderType == media.FolderTypeDirectFiles && req.DetectedSeason > 1

	searchYear := 0
	if req.Year != nil && !skipYearFilter {
		searchYear = *req.Year
	}

	results, language, err := r.searchWithLanguageSweep(ctx, query, searchYear, isCNQuery(req, query))
	if err != nil {
		return nil, err
	}

	// 年份过滤一无所获时去掉年份重试
	if len(results.Results) == 0 && searchYear > 0 {
		logger.Debug("Year-filtered search empty, retrying without year", "query", query, "year", searchYear)
		results, language, err = r.searchWithLanguageSweep(ctx, query, 0, isCNQuery(req, query))
		if err != nil {
			return nil, err
		}
	}

	if len(results.Results) == 0 {
		logger.Info("No catalog results", "folder", req.FolderName, "query", query)
		return nil, nil
	}

	best := r.evaluatePage(ctx, req, language, results.Results)

	// 第1页没有high且无年份过滤的第1页已满20条时，扩大到后续分页再评估
	if best == nil || best.Confidence != media.ConfidenceHigh {
		if more := r.fanOutPages(ctx, req, query, language, searchYear); more != nil {
			if best == nil || more.Confidence.Better(best.Confidence) {
				best = more
			}
		}
	}

	if best == nil {
		return nil, nil
	}

	r.preferChineseName(best)

	if best.Confidence == media.ConfidenceHigh {
		if err := r.populateSeasons(ctx, best, language); err != nil {
			logger.Warn("Failed to populate seasons", "tmdbID", best.ID, "error", err)
		}
		r.validateSeasonYear(ctx, req, best, language)
	}

	return best, nil
}

// resolveByID id直达路径，不触发搜索
func (r *Resolver) resolveByID(ctx context.Context, req *Request) (*media.CatalogMetadata, error) {
	lang := r.defaultLanguage()
	details, err := r.client.GetTVDetails(ctx, *req.TMDBID, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch TV %d: %w", *req.TMDBID, err)
	}

	meta := metadataFromDetails(details, lang)
	meta.Confidence = media.ConfidenceHigh

	if err := r.enrichTitles(ctx, meta); err != nil {
		logger.Warn("Failed to enrich titles", "tmdbID", meta.ID, "error", err)
	}
	r.preferChineseName(meta)

	if err := r.populateSeasons(ctx, meta, lang); err != nil {
		logger.Warn("Failed to populate seasons", "tmdbID", meta.ID, "error", err)
	}

	return meta, nil
}

// searchWithLanguageSweep 多语言轮询搜索
// 中文查询时按配置顺序尝试每种语言，保留第一个有结果的语言；
// 纯拉丁查询直接用默认语言
func (r *Resolver) searchWithLanguageSweep(ctx context.Context, query string, year int, cnQuery bool) (*tmdb.SearchTVResponse, string, error) {
	if !cnQuery {
		lang := r.defaultLanguage()
		resp, err := r.client.SearchTV(ctx, query, year, lang, 1)
		if err != nil {
			return nil, "", fmt.Errorf("catalog search failed: %w", err)
		}
		return resp, lang, nil
	}

	var lastResp *tmdb.SearchTVResponse
	var lastLang string
	for _, lang := range r.languages {
		resp, err := r.client.SearchTV(ctx, query, year, lang, 1)
		if err != nil {
			return nil, "", fmt.Errorf("catalog search failed: %w", err)
		}
		if len(resp.Results) > 0 {
			return resp, lang, nil
		}
		lastResp, lastLang = resp, lang
	}
	return lastResp, lastLang, nil
}

// fanOutPages 分页扩散
// 前置条件: 无年份过滤的第1页返回满页(≥20条)。从第2页起逐页评估，
// 遇到high立即返回
func (r *Resolver) fanOutPages(ctx context.Context, req *Request, query, language string, searchYear int) *media.CatalogMetadata {
	baseline, err := r.client.SearchTV(ctx, query, 0, language, 1)
	if err != nil {
		logger.Warn("Baseline search for pagination failed", "query", query, "error", err)
		return nil
	}
	if len(baseline.Results) < tmdb.SearchPageSize {
		return nil
	}

	var best *media.CatalogMetadata
	if searchYear == 0 {
		// 基线即原搜索，第1页已评估过，跳过
	} else {
		best = r.evaluatePage(ctx, req, language, baseline.Results)
		if best != nil && best.Confidence == media.ConfidenceHigh {
			return best
		}
	}

	totalPages := baseline.TotalPages
	if totalPages > r.maxPages {
		totalPages = r.maxPages
	}

	for page := 2; page <= totalPages; page++ {
		resp, err := r.client.SearchTV(ctx, query, 0, language, page)
		if err != nil {
			logger.Warn("Pagination search failed", "query", query, "page", page, "error", err)
			break
		}
		candidate := r.evaluatePage(ctx, req, language, resp.Results)
		if candidate == nil {
			continue
		}
		if candidate.Confidence == media.ConfidenceHigh {
			return candidate
		}
		if best == nil || candidate.Confidence.Better(best.Confidence) {
			best = candidate
		}
	}

	return best
}

// populateSeasons 拉取全部季的分集列表
// high置信度的元数据必须填充季与分集
func (r *Resolver) populateSeasons(ctx context.Context, meta *media.CatalogMetadata, language string) error {
	details, err := r.client.GetTVDetails(ctx, meta.ID, language)
	if err != nil {
		return err
	}

	meta.Seasons = meta.Seasons[:0]
	for _, s := range details.Seasons {
		season, err := r.client.GetSeasonDetails(ctx, meta.ID, s.SeasonNumber, language)
		if err != nil {
			logger.Warn("Failed to fetch season details",
				"tmdbID", meta.ID, "season", s.SeasonNumber, "error", err)
			continue
		}

		sm := media.SeasonMeta{
			Number:  season.SeasonNumber,
			AirYear: yearOf(season.AirDate),
		}
		for _, e := range season.Episodes {
			sm.Episodes = append(sm.Episodes, media.EpisodeMeta{
				Number: e.EpisodeNumber,
				Title:  e.Name,
			})
		}
		meta.Seasons = append(meta.Seasons, sm)
	}
	return nil
}

// validateSeasonYear 选定后校验: 直接文件结构、季号>1且LLM年份已知时，
// 文件夹年份应接近首播年或第N季播出年，两者都不满足则降级为low
// 防止提取器锁定到同名但不同年代的剧
func (r *Resolver) validateSeasonYear(ctx context.Context, req *Request, meta *media.CatalogMetadata, language string) {
	if req.FolderType != media.FolderTypeDirectFiles || req.DetectedSeason <= 1 || req.Year == nil {
		return
	}

	if meta.Year > 0 && absDiff(meta.Year, *req.Year) <= 1 {
		return
	}

	season, err := r.client.GetSeasonDetails(ctx, meta.ID, req.DetectedSeason, language)
	if err == nil {
		if airYear := yearOf(season.AirDate); airYear > 0 && absDiff(airYear, *req.Year) <= 1 {
			return
		}
	}

	logger.Info("Season-year validation failed, downgrading confidence",
		"tmdbID", meta.ID, "name", meta.Name,
		"folderYear", *req.Year, "showYear", meta.Year, "season", req.DetectedSeason)
	meta.Confidence = media.ConfidenceLow
}

func queryOf(req *Request) string {
	if req.CNName != nil && *req.CNName != "" {
		return *req.CNName
	}
	if req.ENName != nil && *req.ENName != "" {
		return *req.ENName
	}
	return ""
}

// isCNQuery 查询词含汉字或来源为cn_name时走多语言轮询
func isCNQuery(req *Request, query string) bool {
	if req.CNName != nil && *req.CNName == query {
		return true
	}
	return strutil.ContainsHan(query)
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
