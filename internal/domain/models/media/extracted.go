package media

import "strings"

// ExtractedName LLM从文件夹名中提取的结构化结果
// 除FolderName外的字段都允许缺失，空字符串一律归一化为nil
type ExtractedName struct {
	FolderName string  `json:"folder_name"`
	CNName     *string `json:"cn_name,omitempty"`
	ENName     *string `json:"en_name,omitempty"`
	Year       *int    `json:"year,omitempty"`
	TMDBID     *int    `json:"tmdb_id,omitempty"`
}

// Empty 所有可选字段是否都缺失
func (e *ExtractedName) Empty() bool {
	return e.CNName == nil && e.ENName == nil && e.Year == nil && e.TMDBID == nil
}

// Query 返回首选搜索词：优先中文名，其次英文名，都缺失返回空串
func (e *ExtractedName) Query() string {
	if e.CNName != nil && *e.CNName != "" {
		return *e.CNName
	}
	if e.ENName != nil && *e.ENName != "" {
		return *e.ENName
	}
	return ""
}

// NormalizeString 空串和纯空白归一化为nil
func NormalizeString(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
