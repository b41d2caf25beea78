package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

// Scanner 输入目录扫描器
// 枚举输入根目录的直接子目录并分类其结构，缓存结构快照
type Scanner struct {
	cache *FolderCache
}

// New 创建扫描器
func New() *Scanner {
	return &Scanner{cache: NewFolderCache()}
}

// Cache 返回扫描器持有的结构缓存
func (s *Scanner) Cache() *FolderCache {
	return s.cache
}

// Scan 枚举输入根目录的直接子目录，返回排序后的节目文件夹路径
// 输入目录不存在时返回错误；空目录返回空列表
func (s *Scanner) Scan(inputDir string) ([]string, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path is not a directory: %s", inputDir)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var folders []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folders = append(folders, filepath.Join(inputDir, entry.Name()))
	}
	sort.Strings(folders)

	for _, folder := range folders {
		s.Inspect(folder)
	}

	logger.Info("Input directory scanned", "inputDir", inputDir, "showFolders", len(folders))
	return folders, nil
}

// Inspect 获取目录的结构快照，优先读缓存
// 枚举失败时返回空快照而不是中断扫描
func (s *Scanner) Inspect(folder string) *FolderStructure {
	if fs, ok := s.cache.Get(folder); ok {
		return fs
	}

	fs := s.inspect(folder)
	s.cache.Put(fs)
	return fs
}

func (s *Scanner) inspect(folder string) *FolderStructure {
	fs := &FolderStructure{
		Path:       folder,
		FolderType: media.FolderTypeDirectFiles,
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		logger.Warn("Failed to enumerate folder, treating as empty", "folder", folder, "error", err)
		return fs
	}

	for _, entry := range entries {
		if entry.IsDir() {
			fs.SubDirs = append(fs.SubDirs, entry.Name())
		} else if media.IsMediaFile(entry.Name()) {
			fs.MediaFiles = append(fs.MediaFiles, entry.Name())
		}
	}
	sort.Strings(fs.MediaFiles)
	sort.Strings(fs.SubDirs)

	// 分类规则: 直接子级有媒体文件 -> DIRECT_FILES
	// 否则任一子目录含媒体文件 -> SEASON_SUBFOLDERS
	// 都没有时退化为DIRECT_FILES
	if len(fs.MediaFiles) == 0 {
		for _, sub := range fs.SubDirs {
			subFS := s.Inspect(filepath.Join(folder, sub))
			if len(subFS.MediaFiles) > 0 {
				fs.FolderType = media.FolderTypeSeasonSubfolders
				break
			}
		}
	}

	fs.FirstFile = s.findFirstFile(fs)
	return fs
}

// findFirstFile 返回首个媒体文件名，直接子级没有时按排序深度优先递归
// 用于给LLM提取器补充上下文
func (s *Scanner) findFirstFile(fs *FolderStructure) string {
	if len(fs.MediaFiles) > 0 {
		return fs.MediaFiles[0]
	}
	for _, sub := range fs.SubDirs {
		subFS := s.Inspect(filepath.Join(fs.Path, sub))
		if first := s.findFirstFile(subFS); first != "" {
			return first
		}
	}
	return ""
}
