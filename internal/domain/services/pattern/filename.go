package pattern

import (
	"fmt"
	"strings"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
)

// Windows和多数网络存储都不接受的文件名字符
var illegalCharReplacer = strings.NewReplacer(
	"<", "", ">", "", "\"", "", "/", "", "\\", "", "|", "", "?", "", "*", "",
)

// SanitizeName 清理文件名组件: 半角冒号转全角，剔除非法字符
func SanitizeName(s string) string {
	s = strings.ReplaceAll(s, ":", "：")
	s = illegalCharReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// BuildFileName 生成Emby/Plex规范文件名
// 格式: <Show> - SNNENN[-ENN] - <Episode Title>.<ext>，无标题时省略标题段
// showName非空时优先使用目录服务的规范名
func BuildFileName(ep *media.Episode, showName string) string {
	name := ep.ShowName
	if showName != "" {
		name = showName
	}

	var b strings.Builder
	b.WriteString(SanitizeName(name))
	fmt.Fprintf(&b, " - S%02dE%02d", ep.Season, ep.Number)
	if ep.EndNumber != nil {
		fmt.Fprintf(&b, "-E%02d", *ep.EndNumber)
	}
	if ep.CatalogTitle != "" {
		b.WriteString(" - ")
		b.WriteString(SanitizeName(ep.CatalogTitle))
	}
	b.WriteString(ep.Extension)

	return b.String()
}

// BuildShowDirName 生成节目目录名: <Name> (<Year>) {tmdb-<id>}
// 年份或id缺失时逐级降级，两者皆缺时只剩名称
func BuildShowDirName(name string, year, tmdbID int) string {
	cleaned := SanitizeName(name)
	switch {
	case year > 0 && tmdbID > 0:
		return fmt.Sprintf("%s (%d) {tmdb-%d}", cleaned, year, tmdbID)
	case year > 0:
		return fmt.Sprintf("%s (%d)", cleaned, year)
	case tmdbID > 0:
		return fmt.Sprintf("%s {tmdb-%d}", cleaned, tmdbID)
	}
	return cleaned
}

// BuildSeasonDirName 生成季目录名，季号不补零
func BuildSeasonDirName(season int) string {
	return fmt.Sprintf("Season %d", season)
}
