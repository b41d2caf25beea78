package organizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/domain/services/scanner"
)

func seasonShow(sourceDir, targetDir string, eps ...*jobmodel.ProcessedEpisode) *jobmodel.ProcessedShow {
	return &jobmodel.ProcessedShow{
		ID: "show-1", Name: "某剧", FolderType: string(media.FolderTypeDirectFiles),
		SourceDir: sourceDir, TargetDir: targetDir, Selected: true,
		Seasons: []*jobmodel.ProcessedSeason{
			{Number: 1, SourceFolder: sourceDir, Selected: true, Episodes: eps},
		},
	}
}

func plannedEpisode(src, dst string) *jobmodel.ProcessedEpisode {
	return &jobmodel.ProcessedEpisode{
		Season: 1, Number: 1, Source: src, Destination: dst,
		Selected: true, Status: jobmodel.EpisodeStatusPlanned,
	}
}

func TestExecuteMovesAndCleansUp(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "某剧")
	dstRoot := filepath.Join(root, "out")
	mkFiles(t, src, "E01.mkv", "E02.mkv")

	sc := scanner.New()
	sc.Inspect(src) // 预扫描，清理判定依赖该快照

	show := seasonShow(src, dstRoot,
		plannedEpisode(filepath.Join(src, "E01.mkv"), filepath.Join(dstRoot, "某剧 - S01E01.mkv")),
		plannedEpisode(filepath.Join(src, "E02.mkv"), filepath.Join(dstRoot, "某剧 - S01E02.mkv")),
	)
	show.Seasons[0].Episodes[1].Number = 2

	j := &jobmodel.Job{ID: "j1", Stats: map[string]int{}, ProcessedShows: []*jobmodel.ProcessedShow{show}}
	e := NewExecutor()
	if err := e.Execute(context.Background(), j, sc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	for _, ep := range show.Seasons[0].Episodes {
		if ep.Status != jobmodel.EpisodeStatusMoved {
			t.Errorf("episode %d status = %s, want moved", ep.Number, ep.Status)
		}
		if _, err := os.Stat(ep.Destination); err != nil {
			t.Errorf("destination missing: %v", err)
		}
	}
	if j.Stats[StatEpisodesMoved] != 2 {
		t.Errorf("moved = %d, want 2", j.Stats[StatEpisodesMoved])
	}
	// 全部迁出后源目录被清理
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source folder should be removed, stat err = %v", err)
	}
}

func TestExecuteSkipsExistingDestination(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "某剧")
	dstRoot := filepath.Join(root, "out")
	mkFiles(t, src, "E01.mkv")
	mkFiles(t, dstRoot, "某剧 - S01E01.mkv") // 目标已存在

	sc := scanner.New()
	sc.Inspect(src)

	show := seasonShow(src, dstRoot,
		plannedEpisode(filepath.Join(src, "E01.mkv"), filepath.Join(dstRoot, "某剧 - S01E01.mkv")))

	j := &jobmodel.Job{ID: "j1", Stats: map[string]int{}, ProcessedShows: []*jobmodel.ProcessedShow{show}}
	if err := NewExecutor().Execute(context.Background(), j, sc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	ep := show.Seasons[0].Episodes[0]
	if ep.Status != jobmodel.EpisodeStatusSkipped {
		t.Errorf("status = %s, want skipped", ep.Status)
	}
	if j.Stats[StatEpisodesErrored] != 0 {
		t.Errorf("errors = %d, want 0", j.Stats[StatEpisodesErrored])
	}
	// 源文件保留，源目录不清理
	if _, err := os.Stat(filepath.Join(src, "E01.mkv")); err != nil {
		t.Errorf("source should remain: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source folder should remain: %v", err)
	}
}

func TestExecuteHonorsSelection(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "某剧")
	dstRoot := filepath.Join(root, "out")
	mkFiles(t, src, "E01.mkv")

	sc := scanner.New()
	sc.Inspect(src)

	show := seasonShow(src, dstRoot,
		plannedEpisode(filepath.Join(src, "E01.mkv"), filepath.Join(dstRoot, "某剧 - S01E01.mkv")))
	// 集勾选了但季被取消，季优先
	show.Seasons[0].Selected = false

	j := &jobmodel.Job{ID: "j1", Stats: map[string]int{}, ProcessedShows: []*jobmodel.ProcessedShow{show}}
	if err := NewExecutor().Execute(context.Background(), j, sc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	ep := show.Seasons[0].Episodes[0]
	if ep.Status != jobmodel.EpisodeStatusPlanned {
		t.Errorf("deselected season episode status = %s, want planned", ep.Status)
	}
	if _, err := os.Stat(filepath.Join(src, "E01.mkv")); err != nil {
		t.Errorf("source should remain: %v", err)
	}
}

func TestExecuteMissingSourceIsError(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "某剧")
	dstRoot := filepath.Join(root, "out")
	mkFiles(t, src, "E01.mkv")

	sc := scanner.New()
	sc.Inspect(src)

	show := seasonShow(src, dstRoot,
		plannedEpisode(filepath.Join(src, "不存在.mkv"), filepath.Join(dstRoot, "某剧 - S01E01.mkv")))

	j := &jobmodel.Job{ID: "j1", Stats: map[string]int{}, ProcessedShows: []*jobmodel.ProcessedShow{show}}
	if err := NewExecutor().Execute(context.Background(), j, sc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	ep := show.Seasons[0].Episodes[0]
	if ep.Status != jobmodel.EpisodeStatusError || ep.Reason == "" {
		t.Errorf("episode = %+v, want error status with reason", ep)
	}
	if j.Stats[StatEpisodesErrored] != 1 {
		t.Errorf("errors = %d, want 1", j.Stats[StatEpisodesErrored])
	}
}

func TestExecuteSeasonDirCreatedBeforeMoves(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "某剧")
	dstRoot := filepath.Join(root, "out")
	mkFiles(t, src, "E01.mkv")

	sc := scanner.New()
	sc.Inspect(src)

	seasonDir := filepath.Join(dstRoot, "某剧 (2020)", "Season 1")
	show := seasonShow(src, dstRoot,
		plannedEpisode(filepath.Join(src, "不存在.mkv"), filepath.Join(seasonDir, "某剧 - S01E01.mkv")))

	j := &jobmodel.Job{ID: "j1", Stats: map[string]int{}, ProcessedShows: []*jobmodel.ProcessedShow{show}}
	if err := NewExecutor().Execute(context.Background(), j, sc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	// 季目录在任何迁移动作之前就位，单集失败不影响
	if fi, err := os.Stat(seasonDir); err != nil || !fi.IsDir() {
		t.Errorf("season directory should exist: %v", err)
	}
	if show.Seasons[0].Episodes[0].Status != jobmodel.EpisodeStatusError {
		t.Errorf("status = %s, want error", show.Seasons[0].Episodes[0].Status)
	}
}

func TestStatsCollector(t *testing.T) {
	s := NewStatsCollector()
	s.Add(StatEpisodesMoved, 2)
	s.Add(StatEpisodesMoved, 1)
	s.Merge(map[string]int{StatEpisodesMoved: 1, StatShowsPlanned: 4})

	if got := s.Get(StatEpisodesMoved); got != 4 {
		t.Errorf("moved = %d, want 4", got)
	}
	snap := s.Snapshot()
	snap[StatShowsPlanned] = 100
	if s.Get(StatShowsPlanned) != 4 {
		t.Error("snapshot should be a copy")
	}
}
