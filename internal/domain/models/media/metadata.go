package media

// Confidence 匹配置信度，只有High的节目才会被整理
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// rank 置信度排序值，high > medium > low
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// Better 判断c是否严格优于other
func (c Confidence) Better(other Confidence) bool {
	return c.rank() > other.rank()
}

// AltTitle 别名及其国家码
type AltTitle struct {
	Title   string `json:"title"`
	Country string `json:"country"`
}

// Translation 翻译名及其国家码
type Translation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// EpisodeMeta 目录服务返回的分集条目
type EpisodeMeta struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// SeasonMeta 目录服务返回的季条目
type SeasonMeta struct {
	Number   int           `json:"number"`
	AirYear  int           `json:"air_year,omitempty"`
	Episodes []EpisodeMeta `json:"episodes"`
}

// CatalogMetadata 目录服务解析结果
// 置信度为High时Seasons必然已填充，其余情况可能为空
type CatalogMetadata struct {
	ID                int           `json:"id"`
	Name              string        `json:"name"`
	OriginalName      string        `json:"original_name"`
	Year              int           `json:"year"`
	GenreIDs          []int         `json:"genre_ids,omitempty"`
	OriginCountry     []string      `json:"origin_country,omitempty"`
	OriginalLanguage  string        `json:"original_language,omitempty"`
	AlternativeTitles []AltTitle    `json:"alternative_titles,omitempty"`
	Translations      []Translation `json:"translations,omitempty"`
	Seasons           []SeasonMeta  `json:"seasons,omitempty"`
	Confidence        Confidence    `json:"confidence"`
	SearchLanguage    string        `json:"search_language,omitempty"`
}

// EpisodeTitle 按季号和集号查询分集标题，未找到返回空串
func (m *CatalogMetadata) EpisodeTitle(season, episode int) string {
	for _, s := range m.Seasons {
		if s.Number != season {
			continue
		}
		for _, e := range s.Episodes {
			if e.Number == episode {
				return e.Title
			}
		}
	}
	return ""
}
