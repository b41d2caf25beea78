package category

import (
	"strconv"
	"strings"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/config"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

// Classifier 媒体库二级分类器
// 带条件的规则按配置声明顺序求值，首个全部条件命中的规则生效；
// 无任何条件的规则是兜底分类，无论声明在哪个位置，都只在所有
// 带条件规则落空后启用，取声明最靠前的一条。没有兜底时返回空分类，
// 节目直接落在目标根目录下
type Classifier struct {
	rules    []config.CategoryRule
	fallback string
}

// New 创建分类器，条件规则与兜底规则在此分离
func New(rules []config.CategoryRule) *Classifier {
	c := &Classifier{}
	for _, rule := range rules {
		if rule.GenreIDs == "" && rule.OriginCountry == "" &&
			rule.OriginalLanguage == "" && rule.ReleaseYear == "" {
			if c.fallback == "" {
				c.fallback = rule.Name
			}
			continue
		}
		c.rules = append(c.rules, rule)
	}
	return c
}

// Classify 给节目元数据定分类
func (c *Classifier) Classify(meta *media.CatalogMetadata) string {
	for i := range c.rules {
		rule := &c.rules[i]
		if c.matches(rule, meta) {
			logger.Debug("Category matched", "name", meta.Name, "category", rule.Name)
			return rule.Name
		}
	}
	return c.fallback
}

// matches 规则内的条件之间是AND关系，条件内的逗号项之间是OR关系
func (c *Classifier) matches(rule *config.CategoryRule, meta *media.CatalogMetadata) bool {
	if rule.GenreIDs != "" && !matchTokens(rule.GenreIDs, genreValues(meta)) {
		return false
	}
	if rule.OriginCountry != "" && !matchTokens(rule.OriginCountry, countryValues(meta)) {
		return false
	}
	if rule.OriginalLanguage != "" && !matchTokens(rule.OriginalLanguage, []string{strings.ToLower(meta.OriginalLanguage)}) {
		return false
	}
	if rule.ReleaseYear != "" && !matchTokens(rule.ReleaseYear, yearValues(meta)) {
		return false
	}
	return true
}

// matchTokens 求值一个逗号分隔的条件表达式
// 语法: 裸值为包含匹配，X-Y为数值区间，!X为排除项
// 任一排除项命中立即失败；存在肯定项时须至少命中一个
func matchTokens(expr string, values []string) bool {
	tokens := strings.Split(expr, ",")
	hasPositive := false
	positiveHit := false

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if negated, ok := strings.CutPrefix(token, "!"); ok {
			if tokenHits(negated, values) {
				return false
			}
			continue
		}

		hasPositive = true
		if tokenHits(token, values) {
			positiveHit = true
		}
	}

	return !hasPositive || positiveHit
}

// tokenHits 单个token对值集合的命中判断
func tokenHits(token string, values []string) bool {
	if low, high, ok := parseRange(token); ok {
		for _, v := range values {
			if n, err := strconv.Atoi(v); err == nil && n >= low && n <= high {
				return true
			}
		}
		return false
	}

	folded := strings.ToLower(token)
	for _, v := range values {
		if strings.ToLower(v) == folded {
			return true
		}
	}
	return false
}

// parseRange 解析 X-Y 数值区间
func parseRange(token string) (int, int, bool) {
	low, high, found := strings.Cut(token, "-")
	if !found {
		return 0, 0, false
	}
	l, err1 := strconv.Atoi(strings.TrimSpace(low))
	h, err2 := strconv.Atoi(strings.TrimSpace(high))
	if err1 != nil || err2 != nil || l > h {
		return 0, 0, false
	}
	return l, h, true
}

func genreValues(meta *media.CatalogMetadata) []string {
	values := make([]string, 0, len(meta.GenreIDs))
	for _, id := range meta.GenreIDs {
		values = append(values, strconv.Itoa(id))
	}
	return values
}

func countryValues(meta *media.CatalogMetadata) []string {
	values := make([]string, 0, len(meta.OriginCountry))
	for _, country := range meta.OriginCountry {
		values = append(values, strings.ToUpper(country))
	}
	return values
}

func yearValues(meta *media.CatalogMetadata) []string {
	if meta.Year == 0 {
		return nil
	}
	return []string{strconv.Itoa(meta.Year)}
}
