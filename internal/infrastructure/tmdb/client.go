package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/ratelimit"
	httputil "github.com/easayliu/emby-tv-organizer/pkg/httpclient"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	DefaultTimeout = 10 * time.Second

	// SearchPageSize TMDB搜索固定每页20条
	SearchPageSize = 20
)

// Client TMDB API客户端
// 所有出站请求共享同一个限速器，保证请求间隔不低于 1/qps
type Client struct {
	BaseURL     string
	APIKey      string
	httpClient  *http.Client
	rateLimiter *ratelimit.RateLimiter
}

// NewClient 创建TMDB客户端
// proxyAddr为空时直连
func NewClient(apiKey string, qps int, proxyAddr string) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("TMDB_API_KEY")
	}
	if qps <= 0 {
		qps = 10
	}

	httpClient, err := httputil.NewProxyClient(proxyAddr, DefaultTimeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseURL:     DefaultBaseURL,
		APIKey:      apiKey,
		httpClient:  httpClient,
		rateLimiter: ratelimit.NewRateLimiter(qps),
	}, nil
}

// SetQPS 动态设置QPS限制
func (c *Client) SetQPS(qps int) {
	if c.rateLimiter != nil {
		c.rateLimiter.SetQPS(qps)
	}
}

func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if c.APIKey == "" {
		return fmt.Errorf("TMDB API key is not set")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.APIKey)

	urlStr := fmt.Sprintf("%s%s?%s", c.BaseURL, endpoint, params.Encode())

	logger.Debug("TMDB API request", "endpoint", endpoint, "url", logger.SanitizeURL(urlStr))

	opts := httputil.DefaultOptions().
		WithContext(ctx).
		WithClient(c.httpClient)

	if err := httputil.GetJSON(urlStr, result, opts); err != nil {
		logger.Error("TMDB API request failed", "endpoint", endpoint, "error", err)
		return err
	}
	return nil
}

// SearchTV 搜索剧集
// year>0时带first_air_date_year过滤；page从1开始
func (c *Client) SearchTV(ctx context.Context, query string, year int, language string, page int) (*SearchTVResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "true")
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}
	if language != "" {
		params.Set("language", language)
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	var resp SearchTVResponse
	if err := c.makeRequest(ctx, "/search/tv", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search TV: %w", err)
	}

	return &resp, nil
}

// GetTVDetails 获取剧集详情
func (c *Client) GetTVDetails(ctx context.Context, tvID int, language string) (*TVDetails, error) {
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	var details TVDetails
	if err := c.makeRequest(ctx, fmt.Sprintf("/tv/%d", tvID), params, &details); err != nil {
		return nil, fmt.Errorf("failed to get TV details: %w", err)
	}

	return &details, nil
}

// GetAlternativeTitles 获取剧集别名列表
func (c *Client) GetAlternativeTitles(ctx context.Context, tvID int) (*AlternativeTitlesResponse, error) {
	var resp AlternativeTitlesResponse
	if err := c.makeRequest(ctx, fmt.Sprintf("/tv/%d/alternative_titles", tvID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get alternative titles: %w", err)
	}

	return &resp, nil
}

// GetTranslations 获取剧集翻译列表
func (c *Client) GetTranslations(ctx context.Context, tvID int) (*TranslationsResponse, error) {
	var resp TranslationsResponse
	if err := c.makeRequest(ctx, fmt.Sprintf("/tv/%d/translations", tvID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get translations: %w", err)
	}

	return &resp, nil
}

// GetSeasonDetails 获取季详情（含分集列表）
func (c *Client) GetSeasonDetails(ctx context.Context, tvID, seasonNumber int, language string) (*Season, error) {
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	var season Season
	if err := c.makeRequest(ctx, fmt.Sprintf("/tv/%d/season/%d", tvID, seasonNumber), params, &season); err != nil {
		return nil, fmt.Errorf("failed to get season details: %w", err)
	}

	return &season, nil
}
