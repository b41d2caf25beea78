package pattern

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	strutil "github.com/easayliu/emby-tv-organizer/pkg/utils/string"
)

// EpisodeInfo 集号提取结果
type EpisodeInfo struct {
	Season int
	Start  int
	End    *int // 多集文件的结束集号，单集为nil
}

var (
	// 数字间空格折叠时需要保护的上下文
	protectYearAfterDigit = regexp.MustCompile(`(\d)\s+((?:19|20)\d{2})\b`)
	protectAfterMarker    = regexp.MustCompile(`(?i)([SE]\d{1,3})\s+(\d{1,3})\b`)
	digitSpaceDigit       = regexp.MustCompile(`(\d) (\d)`)

	// 多集模式，按顺序尝试
	multiSeasonRangePattern = regexp.MustCompile(
		`(?i)\bS(\d{1,2})(?:EP?)?(\d{2,3})\s*[-~]\s*S(\d{1,2})(?:EP?)?(\d{2,3})\b`)
	multiEpisodeRangePattern = regexp.MustCompile(
		`(?i)\bS(\d{1,2})E(\d{1,3})\s*[-~]\s*E(\d{1,3})\b`)
	multiCrossPattern = regexp.MustCompile(
		`\b(\d{1,2})x(\d{1,3})\s*[-~]\s*(\d{1,2})x(\d{1,3})\b`)
	multiConcatPattern = regexp.MustCompile(
		`(?i)\bS(\d{1,2})(?:EP?)(\d{1,3})(?:EP?)(\d{1,3})\b`)
	multiBareConcatPattern = regexp.MustCompile(
		`(?i)\bE(\d{1,3})E(\d{1,3})\b`)

	// 单集模式，按顺序尝试
	seasonEpisodePattern    = regexp.MustCompile(`(?i)S(\d{1,4})\s*EP?(\d{1,4})`)
	seasonDotEpisodePattern = regexp.MustCompile(`(?i)S(\d{1,4})\.E(\d{1,4})`)
	crossEpisodePattern     = regexp.MustCompile(`\b(\d{1,2})x(\d{1,3})\b`)
	cnEpisodePattern        = regexp.MustCompile(`第([` + chineseNumeralClass + `\d]{1,6})集`)
	cnBareEpisodePattern    = regexp.MustCompile(`([` + chineseNumeralClass + `]{1,6})集`)
	epPrefixPattern         = regexp.MustCompile(`(?i)\bEP\s*(\d{1,4})`)
	ePrefixPattern          = regexp.MustCompile(`(?i)\bE(?:pisode)?\s*(\d{1,4})`)
	dashPairPattern         = regexp.MustCompile(`\b(\d{1,4})\s*-\s*(\d{1,4})\b`)
	seasonBeforeDashPattern = regexp.MustCompile(`(?i)(^|[^a-z])s(eason)?[\s._-]*$`)

	digitRunPattern = regexp.MustCompile(`\d+`)

	codecWindowPattern = regexp.MustCompile(`(?i)[hx]26[45]`)
)

// 已知分辨率数值，兜底扫描时排除
var knownResolutions = map[int]struct{}{
	240: {}, 360: {}, 480: {}, 720: {}, 1080: {}, 1440: {}, 2160: {},
}

// ExtractEpisode 从文件名中提取(季,集)
// position为该文件在目录中的序号(从1开始)，一切模式落空时作为集号兜底
func ExtractEpisode(filename string, position int) EpisodeInfo {
	name := filename
	if media.IsMediaFile(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	cleaned := CleanMetadata(name, false)
	collapsed := collapseDigitSpaces(cleaned)

	if info, ok := matchMultiEpisode(collapsed); ok {
		return info
	}

	if info, ok := matchSingleEpisode(collapsed, name); ok {
		return info
	}

	if info, ok := scanBareNumber(collapsed, name); ok {
		return info
	}

	return EpisodeInfo{Season: 1, Start: position}
}

// collapseDigitSpaces 折叠"数字 空格 数字"，但保护两类上下文:
// 数字后跟年份(避免"01 2025"变成"012025")，以及S/E标记后的游离数字
func collapseDigitSpaces(s string) string {
	const sentinel = "\x00"

	s = protectYearAfterDigit.ReplaceAllString(s, "$1"+sentinel+"$2")
	s = protectAfterMarker.ReplaceAllString(s, "$1"+sentinel+"$2")

	for {
		next := digitSpaceDigit.ReplaceAllString(s, "$1$2")
		if next == s {
			break
		}
		s = next
	}

	return strings.ReplaceAll(s, sentinel, " ")
}

func matchMultiEpisode(text string) (EpisodeInfo, bool) {
	// SNNENN - SNNENN: 仅同季且end>start时成立
	if m := multiSeasonRangePattern.FindStringSubmatch(text); m != nil {
		s1, _ := strconv.Atoi(m[1])
		e1, _ := strconv.Atoi(m[2])
		s2, _ := strconv.Atoi(m[3])
		e2, _ := strconv.Atoi(m[4])
		if s1 == s2 && e2 > e1 {
			return EpisodeInfo{Season: s1, Start: e1, End: &e2}, true
		}
	}

	// SNNENN - ENN
	if m := multiEpisodeRangePattern.FindStringSubmatch(text); m != nil {
		s, _ := strconv.Atoi(m[1])
		e1, _ := strconv.Atoi(m[2])
		e2, _ := strconv.Atoi(m[3])
		if e2 > e1 {
			return EpisodeInfo{Season: s, Start: e1, End: &e2}, true
		}
	}

	// NNxNN - NNxNN
	if m := multiCrossPattern.FindStringSubmatch(text); m != nil {
		s1, _ := strconv.Atoi(m[1])
		e1, _ := strconv.Atoi(m[2])
		s2, _ := strconv.Atoi(m[3])
		e2, _ := strconv.Atoi(m[4])
		if s1 == s2 && e2 > e1 {
			return EpisodeInfo{Season: s1, Start: e1, End: &e2}, true
		}
	}

	// SNNENNENN 连写
	if m := multiConcatPattern.FindStringSubmatch(text); m != nil {
		s, _ := strconv.Atoi(m[1])
		e1, _ := strconv.Atoi(m[2])
		e2, _ := strconv.Atoi(m[3])
		if e2 > e1 {
			return EpisodeInfo{Season: s, Start: e1, End: &e2}, true
		}
	}

	// ENNENN，季默认为1
	if m := multiBareConcatPattern.FindStringSubmatch(text); m != nil {
		e1, _ := strconv.Atoi(m[1])
		e2, _ := strconv.Atoi(m[2])
		if e2 > e1 {
			return EpisodeInfo{Season: 1, Start: e1, End: &e2}, true
		}
	}

	return EpisodeInfo{}, false
}

func matchSingleEpisode(text, original string) (EpisodeInfo, bool) {
	if m := seasonEpisodePattern.FindStringSubmatch(text); m != nil {
		s, _ := strconv.Atoi(m[1])
		e, _ := strconv.Atoi(m[2])
		return EpisodeInfo{Season: s, Start: e}, true
	}

	if m := seasonDotEpisodePattern.FindStringSubmatch(text); m != nil {
		s, _ := strconv.Atoi(m[1])
		e, _ := strconv.Atoi(m[2])
		return EpisodeInfo{Season: s, Start: e}, true
	}

	if m := crossEpisodePattern.FindStringSubmatch(text); m != nil {
		s, _ := strconv.Atoi(m[1])
		e, _ := strconv.Atoi(m[2])
		return EpisodeInfo{Season: s, Start: e}, true
	}

	if m := cnEpisodePattern.FindStringSubmatch(text); m != nil {
		if e := strutil.ChineseToNumber(m[1]); e > 0 {
			return EpisodeInfo{Season: defaultSeason(original), Start: e}, true
		}
	}
	if m := cnBareEpisodePattern.FindStringSubmatch(text); m != nil {
		if e := strutil.ChineseToNumber(m[1]); e > 0 {
			return EpisodeInfo{Season: defaultSeason(original), Start: e}, true
		}
	}

	if m := epPrefixPattern.FindStringSubmatch(text); m != nil {
		e, _ := strconv.Atoi(m[1])
		return EpisodeInfo{Season: defaultSeason(original), Start: e}, true
	}

	if m := ePrefixPattern.FindStringSubmatch(text); m != nil {
		e, _ := strconv.Atoi(m[1])
		return EpisodeInfo{Season: defaultSeason(original), Start: e}, true
	}

	// NN-NN: 前方10字符内出现S/SEASON时按季-集解释，否则取第二个数作集号
	if m := dashPairPattern.FindStringSubmatchIndex(text); m != nil {
		first, _ := strconv.Atoi(text[m[2]:m[3]])
		second, _ := strconv.Atoi(text[m[4]:m[5]])

		prefixStart := m[0] - 10
		if prefixStart < 0 {
			prefixStart = 0
		}
		if seasonBeforeDashPattern.MatchString(strings.TrimSpace(text[prefixStart:m[0]])) {
			return EpisodeInfo{Season: first, Start: second}, true
		}
		return EpisodeInfo{Season: defaultSeason(original), Start: second}, true
	}

	return EpisodeInfo{}, false
}

func defaultSeason(original string) int {
	if s, ok := HasExplicitSeason(original); ok {
		return s
	}
	return 1
}

// scanBareNumber 最后的数字兜底扫描
// 过滤编码上下文、分辨率、年份和季号本身，幸存者取位置最靠后的，同位并列取较小值
func scanBareNumber(text, original string) (EpisodeInfo, bool) {
	season, hasSeason := HasExplicitSeason(original)
	if !hasSeason {
		season = 1
	}

	type candidate struct {
		value int
		pos   int
	}
	var candidates []candidate

	for _, loc := range digitRunPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if end-start > 3 {
			continue
		}

		if inCodecContext(text, start, end) {
			continue
		}

		n, err := strconv.Atoi(text[start:end])
		if err != nil {
			continue
		}
		if _, isRes := knownResolutions[n]; isRes {
			continue
		}
		if n >= 1900 && n <= 2099 {
			continue
		}
		if n < 1 || n > 300 {
			continue
		}
		if hasSeason && season != 1 && n == season {
			continue
		}

		candidates = append(candidates, candidate{value: n, pos: start})
	}

	if len(candidates) == 0 {
		return EpisodeInfo{}, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.pos > best.pos || (c.pos == best.pos && c.value < best.value) {
			best = c
		}
	}

	return EpisodeInfo{Season: season, Start: best.value}, true
}

// inCodecContext 判断数字是否处于视频编码标记的上下文中（如x264、[h265]）
func inCodecContext(text string, start, end int) bool {
	if start > 0 {
		switch text[start-1] {
		case 'h', 'H', 'x', 'X':
			return true
		}
	}
	if start > 1 && text[start-2] == '.' && (text[start-1] == 'x' || text[start-1] == 'X') {
		return true
	}
	if end < len(text) && text[end] == ']' {
		return true
	}

	windowStart := start - 5
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := end + 5
	if windowEnd > len(text) {
		windowEnd = len(text)
	}
	return codecWindowPattern.MatchString(text[windowStart:windowEnd])
}
