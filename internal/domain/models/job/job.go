package job

import (
	"fmt"
	"time"
)

// Status 任务状态
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal 是否为终态，终态禁止再迁移
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// EpisodeStatus 单集迁移的终态标记
const (
	EpisodeStatusPlanned = "planned"
	EpisodeStatusMoved   = "moved"
	EpisodeStatusSkipped = "skipped"
	EpisodeStatusTimeout = "timeout"
	EpisodeStatusError   = "error"
)

// ProcessedEpisode 预览树中的分集节点
type ProcessedEpisode struct {
	Season      int    `json:"season"`
	Number      int    `json:"number"`
	EndNumber   *int   `json:"end_number,omitempty"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Title       string `json:"title,omitempty"`
	Selected    bool   `json:"selected"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

// ProcessedSeason 预览树中的季节点
type ProcessedSeason struct {
	Number       int                 `json:"number"`
	SourceFolder string              `json:"source_folder"`
	Selected     bool                `json:"selected"`
	Episodes     []*ProcessedEpisode `json:"episodes"`
}

// ProcessedShow 预览树中的节目节点
type ProcessedShow struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	TMDBID      int                `json:"tmdb_id"`
	Year        int                `json:"year"`
	Category    string             `json:"category,omitempty"`
	FolderType  string             `json:"folder_type"`
	SourceDir   string             `json:"source_dir"`
	TargetDir   string             `json:"target_dir"`
	Confidence  string             `json:"confidence"`
	Selected    bool               `json:"selected"`
	Seasons     []*ProcessedSeason `json:"seasons"`
}

// UnprocessedShow 未整理的节目及原因
type UnprocessedShow struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Job 一次整理任务的完整记录
// 通过JSON序列化存入TTL存储
type Job struct {
	ID               string            `json:"id"`
	Status           Status            `json:"status"`
	InputDir         string            `json:"input_dir"`
	OutputDir        string            `json:"output_dir"`
	Stats            map[string]int    `json:"stats"`
	ProcessedShows   []*ProcessedShow  `json:"processed_shows"`
	UnprocessedShows []UnprocessedShow `json:"unprocessed_shows"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Error            string            `json:"error,omitempty"`
}

// Transition 状态迁移，终态后的迁移请求返回错误
func (j *Job) Transition(to Status) error {
	if j.Status.Terminal() {
		return fmt.Errorf("job %s is already %s, cannot transition to %s", j.ID, j.Status, to)
	}
	j.Status = to
	j.UpdatedAt = time.Now()
	return nil
}

// FindShow 按节目ID查找预览树节点
func (j *Job) FindShow(showID string) *ProcessedShow {
	for _, s := range j.ProcessedShows {
		if s.ID == showID {
			return s
		}
	}
	return nil
}
