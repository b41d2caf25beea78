package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/llm"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/ratelimit"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

const systemPrompt = `你是一个专业的媒体文件夹命名分析专家。用户会给你一个JSON数组，每个元素是一个电视剧文件夹名，可能附带首个文件名作为上下文（以" | "分隔）。
请为每个文件夹输出一个JSON对象，字段如下:
- "folder_name": 原始文件夹名（不含" | "之后的部分）
- "cn_name": 中文剧名，无法确定时为null
- "en_name": 英文或拉丁字母剧名，无法确定时为null
- "year": 首播年份（整数），无法确定时为null
- "tmdb_id": TMDB编号（整数），仅在文件夹名中明确标注时填写，否则为null

要求:
1. 剔除分辨率、编码、字幕组等发布信息，只保留剧名本身
2. 不要把季号并入剧名（如"第二季"、"S02"都不属于剧名）
3. 输出与输入等长的JSON数组，顺序与输入一致
4. 只输出纯JSON数组，不要附加任何说明文字`

// Input 单个文件夹的提取请求
type Input struct {
	FolderName string
	FirstFile  string // 可选，首个媒体文件名作为补充上下文
}

// rawResult LLM返回的动态JSON形态
// 数字字段可能是字符串，统一在归一化时做显式转换
type rawResult struct {
	FolderName string          `json:"folder_name"`
	CNName     json.RawMessage `json:"cn_name"`
	ZHName     json.RawMessage `json:"zh_name"` // 部分模型使用zh_name别名
	ENName     json.RawMessage `json:"en_name"`
	Year       json.RawMessage `json:"year"`
	TMDBID     json.RawMessage `json:"tmdb_id"`
}

// Extractor 批量LLM名称提取器
type Extractor struct {
	provider    llm.Provider
	batchSize   int
	rateLimiter *ratelimit.RateLimiter
}

// New 创建名称提取器
func New(provider llm.Provider, batchSize int, rateLimit float64) *Extractor {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &Extractor{
		provider:    provider,
		batchSize:   batchSize,
		rateLimiter: ratelimit.NewRateLimiterRPS(rateLimit),
	}
}

// Extract 批量提取文件夹名中的剧名信息
// 结果与输入一一对应且顺序一致；单个分片失败只影响该分片，对应项返回空结果
func (e *Extractor) Extract(ctx context.Context, inputs []Input) []media.ExtractedName {
	results := make([]media.ExtractedName, 0, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	logger.Info("Name extraction started", "folderCount", len(inputs), "batchSize", e.batchSize)

	for start := 0; start < len(inputs); start += e.batchSize {
		end := start + e.batchSize
		if end > len(inputs) {
			end = len(inputs)
		}
		chunk := inputs[start:end]

		chunkResults, err := e.extractChunk(ctx, chunk)
		if err != nil {
			logger.Warn("Extraction chunk failed, filling null results",
				"chunkStart", start, "chunkSize", len(chunk), "error", err)
			for _, in := range chunk {
				results = append(results, media.ExtractedName{FolderName: in.FolderName})
			}
			continue
		}
		results = append(results, chunkResults...)
	}

	logger.Info("Name extraction completed",
		"folderCount", len(inputs), "nonEmpty", countNonEmpty(results))
	return results
}

func (e *Extractor) extractChunk(ctx context.Context, chunk []Input) ([]media.ExtractedName, error) {
	if err := e.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	items := make([]string, 0, len(chunk))
	for _, in := range chunk {
		if in.FirstFile != "" {
			items = append(items, fmt.Sprintf("%s | 首个文件: %s", in.FolderName, in.FirstFile))
		} else {
			items = append(items, in.FolderName)
		}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal folder names: %w", err)
	}

	response, err := e.provider.Generate(ctx, string(payload),
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.1))
	if err != nil {
		return nil, err
	}

	raws, err := parseResultArray(response)
	if err != nil {
		logger.Debug("Malformed LLM response", "response", response, "error", err)
		return nil, err
	}

	return alignResults(chunk, raws), nil
}

// parseResultArray 从响应中定位首个'['到末尾']'之间的JSON数组
// 容忍模型在JSON前后附加说明文字
func parseResultArray(response string) ([]rawResult, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var raws []rawResult
	if err := json.Unmarshal([]byte(response[start:end+1]), &raws); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	return raws, nil
}

// alignResults 把模型输出对齐回输入顺序
// 模型可能重排、重复或漏掉条目，缺失的条目补空结果
func alignResults(chunk []Input, raws []rawResult) []media.ExtractedName {
	byName := make(map[string]*media.ExtractedName, len(raws))
	for i := range raws {
		extracted := normalizeRaw(&raws[i])
		if _, exists := byName[extracted.FolderName]; !exists {
			byName[extracted.FolderName] = extracted
		}
	}

	aligned := make([]media.ExtractedName, 0, len(chunk))
	for _, in := range chunk {
		if r, ok := byName[in.FolderName]; ok {
			aligned = append(aligned, *r)
		} else {
			logger.Debug("LLM omitted folder, filling null result", "folder", in.FolderName)
			aligned = append(aligned, media.ExtractedName{FolderName: in.FolderName})
		}
	}
	return aligned
}

// normalizeRaw 归一化单条模型输出
// 处理zh_name别名、字符串形式的数字、空字符串转null，
// 并剥掉模型原样回显的" | 首个文件: ..."富化后缀
func normalizeRaw(r *rawResult) *media.ExtractedName {
	folderName := r.FolderName
	if idx := strings.Index(folderName, " | "); idx >= 0 {
		folderName = folderName[:idx]
	}

	extracted := &media.ExtractedName{FolderName: folderName}

	cn := r.CNName
	if len(cn) == 0 || string(cn) == "null" {
		cn = r.ZHName
	}
	extracted.CNName = decodeString(cn)
	extracted.ENName = decodeString(r.ENName)
	extracted.Year = decodeInt(r.Year)
	extracted.TMDBID = decodeInt(r.TMDBID)

	if extracted.Year != nil && (*extracted.Year < 1900 || *extracted.Year > 2099) {
		extracted.Year = nil
	}
	return extracted
}

func decodeString(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return media.NormalizeString(s)
}

// decodeInt 数字或数字字符串都接受，其余形态视为缺失
func decodeInt(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n > 0 {
			return &n
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			return &parsed
		}
	}
	return nil
}

func countNonEmpty(results []media.ExtractedName) int {
	count := 0
	for i := range results {
		if !results[i].Empty() {
			count++
		}
	}
	return count
}
