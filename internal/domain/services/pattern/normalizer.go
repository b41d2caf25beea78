package pattern

import (
	"regexp"
	"strings"
)

// 发布元数据的各类标记，统一替换为空格后再做数字提取
// 预编译避免重复编译
var (
	resolutionPattern  = regexp.MustCompile(`(?i)\b\d{3,4}[pi]\b`)
	kResolutionPattern = regexp.MustCompile(`(?i)\b[248]K\b`)

	videoCodecPattern = regexp.MustCompile(
		`(?i)\b(H\.?26[456]|x26[45]|HEVC|AVC|AV1|VP[89]|VC-1|MPEG-?[24]|ProRes|DNxH[DR]|Xvid|DivX)\b`)

	// 音频编码及其后缀声道布局（如 DDP5.1、DTS-HD MA 7.1、AAC 2.0）
	audioCodecPattern = regexp.MustCompile(
		`(?i)\b(E-?AC-?3|AC-?3|AAC|DTS-?HD(-?MA)?|DTS|DDP|TrueHD|Atmos|FLAC|MP3|Opus|Vorbis|PCM)` +
			`(\+)?([\s.]?[1-9]\.[01])?([\s.]?\d{1,2}ch)?\b`)

	hdrPlusPattern    = regexp.MustCompile(`(?i)\bHDR10\+`)
	hdrPattern        = regexp.MustCompile(`(?i)\b(HDR10|HDR|DoVi|DV)\b`)
	dolbyVisionPattern = regexp.MustCompile(`(?i)\bDolby[\s.]?Vision\b`)

	sourcePattern = regexp.MustCompile(
		`(?i)\b(WEB-?DL|WEB-?Rip|Blu-?Ray|BDRip|DVDRip|DVDScr|HDTV|UHDTV|CAM|TS|TC|SCR|UHD|Remux)\b`)

	streamServicePattern = regexp.MustCompile(
		`(?i)\b(NF|DSNP|AMZN|HMAX|HULU|ATVP|HBO|MAX|PCOK|PMTP|iTunes|CR|FUNi|STAN)\b`)

	audioTrackPattern = regexp.MustCompile(`(?i)\b\d+\s?Audios?\b`)
	fpsPattern        = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s?fps\b`)
	cnFpsPattern      = regexp.MustCompile(`\d+帧`)
	fileSizePattern   = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s?[KMGT]B\b`)

	standaloneYearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// preserve_years模式下仅剥离紧跟在元数据标记之后的年份
	tokenThenYearPattern = regexp.MustCompile(
		`(?i)\b(\d{3,4}[pi]|[248]K|WEB-?DL|WEB-?Rip|Blu-?Ray|BDRip|HDTV|UHD|Remux)[\s._-]+((19|20)\d{2})\b`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

var metadataPatterns = []*regexp.Regexp{
	resolutionPattern,
	kResolutionPattern,
	videoCodecPattern,
	audioCodecPattern,
	hdrPlusPattern,
	dolbyVisionPattern,
	hdrPattern,
	sourcePattern,
	streamServicePattern,
	audioTrackPattern,
	fpsPattern,
	cnFpsPattern,
	fileSizePattern,
}

// CleanMetadata 剥离发布元数据标记
// preserveYears为true时只删除紧跟元数据标记的年份，否则删除所有1900-2099的独立年份
// 幂等: CleanMetadata(CleanMetadata(x)) == CleanMetadata(x)
func CleanMetadata(s string, preserveYears bool) string {
	// 年份处理要在标记剥离之前，否则"1080p.2017"中的锚点已被替换
	if preserveYears {
		s = tokenThenYearPattern.ReplaceAllStringFunc(s, func(m string) string {
			return standaloneYearPattern.ReplaceAllString(m, " ")
		})
	} else {
		s = standaloneYearPattern.ReplaceAllString(s, " ")
	}

	for _, p := range metadataPatterns {
		s = p.ReplaceAllString(s, " ")
	}

	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
