package resolver

import (
	"context"
	"strings"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/tmdb"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
	strutil "github.com/easayliu/emby-tv-organizer/pkg/utils/string"
)

// evaluatePage 逐个评估一页候选，遇到high立即返回
// 没有high时返回本页评级最高的候选，空页返回nil
func (r *Resolver) evaluatePage(ctx context.Context, req *Request, language string, candidates []tmdb.TVResult) *media.CatalogMetadata {
	var best *media.CatalogMetadata

	for i := range candidates {
		meta := r.evaluateCandidate(ctx, req, language, &candidates[i], len(candidates) == 1)
		if meta == nil {
			continue
		}
		if meta.Confidence == media.ConfidenceHigh {
			return meta
		}
		if best == nil || meta.Confidence.Better(best.Confidence) {
			best = meta
		}
	}
	return best
}

// evaluateCandidate 评估单个候选并定级
// 先补齐别名和翻译名，再按命名与年份规则给出置信度
func (r *Resolver) evaluateCandidate(ctx context.Context, req *Request, language string, result *tmdb.TVResult, sole bool) *media.CatalogMetadata {
	meta := metadataFromResult(result, language)

	if err := r.enrichTitles(ctx, meta); err != nil {
		logger.Debug("Failed to enrich candidate titles", "tmdbID", meta.ID, "error", err)
	}

	meta.Confidence = grade(req, meta, sole)
	logger.Debug("Candidate evaluated",
		"tmdbID", meta.ID, "name", meta.Name, "year", meta.Year, "confidence", meta.Confidence)
	return meta
}

// yearCheck 年份三态校验结果
type yearCheck int

const (
	yearUnknown yearCheck = iota // 任一侧年份缺失
	yearPass                     // 两侧年份差值不超过1
	yearFail
)

func checkYear(req *Request, meta *media.CatalogMetadata) yearCheck {
	if req.Year == nil || meta.Year == 0 {
		return yearUnknown
	}
	// 季号即发行年特例: 文件夹年份可能是第N季的播出年，
	// 不在这里比对首播年，交给选定后的季年校验
	if req.FolderType == media.FolderTypeDirectFiles && req.DetectedSeason > 1 {
		return yearUnknown
	}
	if absDiff(*req.Year, meta.Year) <= 1 {
		return yearPass
	}
	return yearFail
}

// grade 置信度定级
//
// 规则:
//   - 年份明确冲突(差值>1)一律low
//   - 任一名称都不出现在文件夹名里一律low，唯一候选也不例外
//   - 唯一候选: 名称命中且年份未冲突 -> high
//   - 多候选: 名称命中 + 年份通过 -> high；名称命中但年份未知 -> medium
func grade(req *Request, meta *media.CatalogMetadata, sole bool) media.Confidence {
	yc := checkYear(req, meta)
	if yc == yearFail {
		return media.ConfidenceLow
	}

	if !nameMatches(req, meta) {
		return media.ConfidenceLow
	}

	if sole || yc == yearPass {
		return media.ConfidenceHigh
	}
	return media.ConfidenceMedium
}

// nameMatches 候选的任一名称（主名、原名、别名、翻译名）
// 是文件夹名的子串即视为命中，比较前双方都做分隔符归一化和小写折叠
func nameMatches(req *Request, meta *media.CatalogMetadata) bool {
	folder := strutil.FoldForMatch(req.FolderName)

	for _, name := range candidateNames(meta) {
		n := strutil.FoldForMatch(name)
		if n == "" {
			continue
		}
		if strings.Contains(folder, n) {
			return true
		}
	}
	return false
}

func candidateNames(meta *media.CatalogMetadata) []string {
	names := []string{meta.Name, meta.OriginalName}
	for _, alt := range meta.AlternativeTitles {
		names = append(names, alt.Title)
	}
	for _, tr := range meta.Translations {
		names = append(names, tr.Name)
	}
	return names
}

// enrichTitles 拉取别名与翻译名补进元数据
func (r *Resolver) enrichTitles(ctx context.Context, meta *media.CatalogMetadata) error {
	alts, err := r.client.GetAlternativeTitles(ctx, meta.ID)
	if err != nil {
		return err
	}
	for _, alt := range alts.Results {
		meta.AlternativeTitles = append(meta.AlternativeTitles, media.AltTitle{
			Title:   alt.Title,
			Country: alt.Country,
		})
	}

	trans, err := r.client.GetTranslations(ctx, meta.ID)
	if err != nil {
		return err
	}
	for _, tr := range trans.Translations {
		if tr.Data.Name == "" {
			continue
		}
		meta.Translations = append(meta.Translations, media.Translation{
			Name:    tr.Data.Name,
			Country: tr.Country,
		})
	}
	return nil
}

var chineseRegions = []string{"CN", "TW", "HK", "SG"}

// preferChineseName 主名不含汉字时，从中文区别名或翻译名里找含汉字的替换
// Emby展示名以中文优先
func (r *Resolver) preferChineseName(meta *media.CatalogMetadata) {
	if strutil.ContainsHan(meta.Name) {
		return
	}

	for _, region := range chineseRegions {
		for _, alt := range meta.AlternativeTitles {
			if alt.Country == region && strutil.ContainsHan(alt.Title) {
				logger.Debug("Preferring Chinese alternative title",
					"tmdbID", meta.ID, "from", meta.Name, "to", alt.Title)
				meta.Name = alt.Title
				return
			}
		}
		for _, tr := range meta.Translations {
			if tr.Country == region && strutil.ContainsHan(tr.Name) {
				logger.Debug("Preferring Chinese translation",
					"tmdbID", meta.ID, "from", meta.Name, "to", tr.Name)
				meta.Name = tr.Name
				return
			}
		}
	}

	if strutil.ContainsHan(meta.OriginalName) {
		meta.Name = meta.OriginalName
	}
}

func metadataFromResult(result *tmdb.TVResult, language string) *media.CatalogMetadata {
	return &media.CatalogMetadata{
		ID:               result.ID,
		Name:             result.Name,
		OriginalName:     result.OriginalName,
		Year:             yearOf(result.FirstAirDate),
		GenreIDs:         result.GenreIDs,
		OriginCountry:    result.OriginCountry,
		OriginalLanguage: result.OriginalLanguage,
		SearchLanguage:   language,
	}
}

func metadataFromDetails(details *tmdb.TVDetails, language string) *media.CatalogMetadata {
	genreIDs := make([]int, 0, len(details.Genres))
	for _, g := range details.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	return &media.CatalogMetadata{
		ID:               details.ID,
		Name:             details.Name,
		OriginalName:     details.OriginalName,
		Year:             yearOf(details.FirstAirDate),
		GenreIDs:         genreIDs,
		OriginCountry:    details.OriginCountry,
		OriginalLanguage: details.OriginalLanguage,
		SearchLanguage:   language,
	}
}
