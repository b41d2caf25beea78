package pattern

import (
	"regexp"
	"strconv"

	strutil "github.com/easayliu/emby-tv-organizer/pkg/utils/string"
)

// Mode 季度提取模式
type Mode int

const (
	// ModeFolder 文件夹名: 先剔除"全NN集"类总集数标记
	ModeFolder Mode = iota
	// ModeFile 文件名
	ModeFile
)

const chineseNumeralClass = `零〇一壹二贰貳两兩三叁參参四肆五伍六陆陸七柒八捌九玖十拾百`

var (
	// "全36集"/"共12集"/"总24集"/"36集"都是总集数，不是季号
	episodeCountPattern = regexp.MustCompile(`[全共总總]?\d{1,4}\s*集`)

	seasonMarkerPattern   = regexp.MustCompile(`(?i)\bS(?:eason)?[\s._-]*(\d{1,4})\b`)
	cnSeasonPattern       = regexp.MustCompile(`第([` + chineseNumeralClass + `\d]{1,6})季`)
	cnBareSeasonPattern   = regexp.MustCompile(`([` + chineseNumeralClass + `\d]{1,6})季`)
	unitSeasonPattern     = regexp.MustCompile(`(\d{1,3})单元`)
	bareNumberPattern     = regexp.MustCompile(`\d{1,2}`)
	fourDigitYearPattern  = regexp.MustCompile(`(19|20)\d{2}`)
)

// ExtractSeason 从文本中提取季号
// 模式优先级: S/Season标记 > 第N季 > N季 > N单元 > 独立的1-99
// 全部落空时返回fallback
func ExtractSeason(text string, fallback int, mode Mode) int {
	cleaned := CleanMetadata(text, false)

	if mode == ModeFolder {
		cleaned = episodeCountPattern.ReplaceAllString(cleaned, " ")
	}

	if n, ok := matchSeasonMarker(cleaned); ok {
		return n
	}

	if m := cnSeasonPattern.FindStringSubmatch(cleaned); len(m) > 1 {
		if n := strutil.ChineseToNumber(m[1]); n > 0 && n <= 100 {
			return n
		}
	}

	if m := cnBareSeasonPattern.FindStringSubmatch(cleaned); len(m) > 1 {
		if n := strutil.ChineseToNumber(m[1]); n > 0 && n <= 100 {
			return n
		}
	}

	if m := unitSeasonPattern.FindStringSubmatch(cleaned); len(m) > 1 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 && n <= 100 {
			return n
		}
	}

	if n, ok := matchBareSeasonNumber(cleaned); ok {
		return n
	}

	return fallback
}

// HasExplicitSeason 判断文本是否带显式季标记，带则同时返回季号
// 集数兜底扫描用它把已识别的季号从候选池中排除
func HasExplicitSeason(text string) (int, bool) {
	cleaned := CleanMetadata(text, false)

	if n, ok := matchSeasonMarker(cleaned); ok {
		return n, true
	}
	if m := cnSeasonPattern.FindStringSubmatch(cleaned); len(m) > 1 {
		if n := strutil.ChineseToNumber(m[1]); n > 0 && n <= 100 {
			return n, true
		}
	}
	return 0, false
}

func matchSeasonMarker(text string) (int, bool) {
	for _, m := range seasonMarkerPattern.FindAllStringSubmatchIndex(text, -1) {
		capture := text[m[2]:m[3]]
		n, err := strconv.Atoi(capture)
		if err != nil || n > 100 {
			continue
		}
		// 形如"S2024"的4位年份不是季号
		if len(capture) == 4 && n >= 1900 && n <= 2099 {
			continue
		}
		return n, true
	}
	return 0, false
}

// matchBareSeasonNumber 兜底: 独立的1-99数字
// 与相邻数字连成更大数值、或是年份末位的匹配都拒绝
func matchBareSeasonNumber(text string) (int, bool) {
	for _, loc := range bareNumberPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isASCIIDigit(text[start-1]) {
			continue
		}
		if end < len(text) && isASCIIDigit(text[end]) {
			continue
		}
		// 周围存在4位年份时，避免把年份片段当季号
		windowStart := start - 4
		if windowStart < 0 {
			windowStart = 0
		}
		windowEnd := end + 4
		if windowEnd > len(text) {
			windowEnd = len(text)
		}
		if fourDigitYearPattern.MatchString(text[windowStart:windowEnd]) {
			continue
		}

		n, err := strconv.Atoi(text[start:end])
		if err != nil || n < 1 || n > 99 {
			continue
		}
		return n, true
	}
	return 0, false
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
