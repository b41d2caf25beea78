package scanner

import (
	"sync"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
)

// FolderStructure 目录结构快照
// 扫描阶段懒加载填充，供模式提取和迁移规划复用，进程退出前不失效
type FolderStructure struct {
	Path       string
	FolderType media.FolderType
	MediaFiles []string // 直接子级的媒体文件名，已排序
	SubDirs    []string // 直接子级目录名，已排序
	FirstFile  string   // 首个媒体文件名，可能来自递归查找
}

// FolderCache 目录结构缓存，键为绝对路径
type FolderCache struct {
	mu      sync.RWMutex
	entries map[string]*FolderStructure
}

// NewFolderCache 创建目录结构缓存
func NewFolderCache() *FolderCache {
	return &FolderCache{
		entries: make(map[string]*FolderStructure),
	}
}

// Get 按路径取缓存项
func (c *FolderCache) Get(path string) (*FolderStructure, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fs, ok := c.entries[path]
	return fs, ok
}

// Put 写入缓存项
func (c *FolderCache) Put(fs *FolderStructure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fs.Path] = fs
}

// Len 当前缓存条目数
func (c *FolderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear 清空缓存
func (c *FolderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*FolderStructure)
}
