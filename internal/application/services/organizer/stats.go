package organizer

import "sync"

// 统计键
const (
	StatShowsTotal      = "shows_total"
	StatShowsPlanned    = "shows_planned"
	StatShowsSkipped    = "shows_skipped"
	StatEpisodesPlanned = "episodes_planned"
	StatEpisodesMoved   = "episodes_moved"
	StatEpisodesSkipped = "episodes_skipped"
	StatEpisodesErrored = "episodes_errored"
	StatFoldersRemoved  = "folders_removed"
)

// StatsCollector 并发安全的整理计数器
// 迁移工作池的多个goroutine同时写入
type StatsCollector struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewStatsCollector 创建计数器
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{counters: make(map[string]int)}
}

// Add 累加计数
func (s *StatsCollector) Add(key string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key] += delta
}

// Get 读取单个计数
func (s *StatsCollector) Get(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[key]
}

// Snapshot 导出计数副本
func (s *StatsCollector) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counters))
	for k, v := range s.counters {
		out[k] = v
	}
	return out
}

// Merge 把已有统计合并进来，执行阶段在预览统计的基础上继续累加
func (s *StatsCollector) Merge(stats map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range stats {
		s.counters[k] += v
	}
}
