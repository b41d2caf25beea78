package repository

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
)

// JobRepository 任务记录的内存TTL存储
// 记录以JSON序列化后存入，读取时反序列化出独立副本，
// 调用方修改副本不会影响存储内容。超过保留时长的记录自动过期
type JobRepository struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewJobRepository 创建任务存储，ttlHours为0时默认保留24小时
func NewJobRepository(ttlHours int) *JobRepository {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	ttl := time.Duration(ttlHours) * time.Hour
	return &JobRepository{
		cache: gocache.New(ttl, 30*time.Minute),
		ttl:   ttl,
	}
}

// Save 写入或覆盖任务记录
func (r *JobRepository) Save(j *jobmodel.Job) error {
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to serialize job %s: %w", j.ID, err)
	}
	r.cache.Set(j.ID, data, gocache.DefaultExpiration)
	return nil
}

// Get 按ID读取任务，未找到或已过期返回(nil, nil)
func (r *JobRepository) Get(id string) (*jobmodel.Job, error) {
	raw, found := r.cache.Get(id)
	if !found {
		return nil, nil
	}

	var j jobmodel.Job
	if err := json.Unmarshal(raw.([]byte), &j); err != nil {
		return nil, fmt.Errorf("failed to deserialize job %s: %w", id, err)
	}
	return &j, nil
}

// List 返回所有未过期的任务，按创建时间倒序
func (r *JobRepository) List() ([]*jobmodel.Job, error) {
	items := r.cache.Items()
	jobs := make([]*jobmodel.Job, 0, len(items))
	for id, item := range items {
		var j jobmodel.Job
		if err := json.Unmarshal(item.Object.([]byte), &j); err != nil {
			return nil, fmt.Errorf("failed to deserialize job %s: %w", id, err)
		}
		jobs = append(jobs, &j)
	}

	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
	return jobs, nil
}

// Delete 删除任务记录
func (r *JobRepository) Delete(id string) {
	r.cache.Delete(id)
}
