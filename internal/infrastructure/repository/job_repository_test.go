package repository

import (
	"testing"
	"time"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
)

func TestSaveAndGet(t *testing.T) {
	repo := NewJobRepository(1)

	j := &jobmodel.Job{
		ID:     "j1",
		Status: jobmodel.StatusCompleted,
		Stats:  map[string]int{"episodes_moved": 3},
		ProcessedShows: []*jobmodel.ProcessedShow{
			{ID: "s1", Name: "一人之下", TMDBID: 68033},
		},
		CreatedAt: time.Now(),
	}
	if err := repo.Save(j); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := repo.Get("j1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got == nil || got.ID != "j1" || got.Stats["episodes_moved"] != 3 {
		t.Fatalf("Get() = %+v", got)
	}
	if len(got.ProcessedShows) != 1 || got.ProcessedShows[0].Name != "一人之下" {
		t.Errorf("preview tree not round-tripped: %+v", got.ProcessedShows)
	}

	// 读出的是副本，改动不回写存储
	got.Stats["episodes_moved"] = 99
	again, _ := repo.Get("j1")
	if again.Stats["episodes_moved"] != 3 {
		t.Error("stored job should be isolated from returned copy")
	}
}

func TestGetMissing(t *testing.T) {
	repo := NewJobRepository(1)
	got, err := repo.Get("missing")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Errorf("Get(missing) = %+v, want nil", got)
	}
}

func TestListOrdering(t *testing.T) {
	repo := NewJobRepository(1)
	base := time.Now()

	for i, id := range []string{"old", "mid", "new"} {
		j := &jobmodel.Job{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Save(j); err != nil {
			t.Fatal(err)
		}
	}

	jobs, err := repo.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("List() = %d jobs, want 3", len(jobs))
	}
	// 创建时间倒序
	if jobs[0].ID != "new" || jobs[2].ID != "old" {
		t.Errorf("order = [%s, %s, %s]", jobs[0].ID, jobs[1].ID, jobs[2].ID)
	}
}

func TestDelete(t *testing.T) {
	repo := NewJobRepository(1)
	if err := repo.Save(&jobmodel.Job{ID: "j1"}); err != nil {
		t.Fatal(err)
	}
	repo.Delete("j1")
	if got, _ := repo.Get("j1"); got != nil {
		t.Errorf("deleted job still present: %+v", got)
	}
}
