package tmdb

// SearchTVResponse /search/tv 响应
type SearchTVResponse struct {
	Page         int        `json:"page"`
	Results      []TVResult `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// TVResult 搜索结果条目
type TVResult struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	FirstAirDate     string   `json:"first_air_date"`
	Overview         string   `json:"overview"`
	GenreIDs         []int    `json:"genre_ids"`
	OriginCountry    []string `json:"origin_country"`
	OriginalLanguage string   `json:"original_language"`
	Popularity       float64  `json:"popularity"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
}

// TVDetails /tv/{id} 响应
type TVDetails struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	FirstAirDate     string   `json:"first_air_date"`
	LastAirDate      string   `json:"last_air_date"`
	NumberOfSeasons  int      `json:"number_of_seasons"`
	NumberOfEpisodes int      `json:"number_of_episodes"`
	Overview         string   `json:"overview"`
	Genres           []Genre  `json:"genres"`
	OriginCountry    []string `json:"origin_country"`
	OriginalLanguage string   `json:"original_language"`
	Seasons          []Season `json:"seasons"`
}

// Season 季信息，/tv/{id}/season/{n} 时附带分集列表
type Season struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	SeasonNumber int       `json:"season_number"`
	EpisodeCount int       `json:"episode_count"`
	AirDate      string    `json:"air_date"`
	Overview     string    `json:"overview"`
	Episodes     []Episode `json:"episodes,omitempty"`
}

// Episode 分集信息
type Episode struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	EpisodeNumber int    `json:"episode_number"`
	SeasonNumber  int    `json:"season_number"`
	AirDate       string `json:"air_date"`
	Overview      string `json:"overview"`
}

// Genre 类型标签
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AlternativeTitlesResponse /tv/{id}/alternative_titles 响应
type AlternativeTitlesResponse struct {
	ID      int                `json:"id"`
	Results []AlternativeTitle `json:"results"`
}

// AlternativeTitle 别名条目
type AlternativeTitle struct {
	Title   string `json:"title"`
	Country string `json:"iso_3166_1"`
	Type    string `json:"type"`
}

// TranslationsResponse /tv/{id}/translations 响应
type TranslationsResponse struct {
	ID           int           `json:"id"`
	Translations []Translation `json:"translations"`
}

// Translation 翻译条目
type Translation struct {
	Country  string          `json:"iso_3166_1"`
	Language string          `json:"iso_639_1"`
	Data     TranslationData `json:"data"`
}

// TranslationData 翻译内容
type TranslationData struct {
	Name     string `json:"name"`
	Overview string `json:"overview"`
}

// ErrorResponse TMDB错误响应
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
