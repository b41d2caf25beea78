package media

import (
	"path/filepath"
	"strings"
)

// 视频与字幕扩展名
// 字幕文件走同一套重命名管线，保证与改名后的视频并排落位
var mediaExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
	".m4v":  {},
	".ts":   {},
	".m2ts": {},
	".srt":  {},
	".ass":  {},
	".ssa":  {},
	".vtt":  {},
	".sub":  {},
	".idx":  {},
	".sup":  {},
	".pgs":  {},
}

// IsMediaFile 判断文件名是否为受支持的媒体文件（不区分大小写）
func IsMediaFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := mediaExtensions[ext]
	return ok
}

// IsSubtitleFile 判断是否为字幕文件
func IsSubtitleFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".srt", ".ass", ".ssa", ".vtt", ".sub", ".idx", ".sup", ".pgs":
		return true
	}
	return false
}
