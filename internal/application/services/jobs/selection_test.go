package jobs

import (
	"testing"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
)

func boolPtr(b bool) *bool { return &b }

func previewJob() *jobmodel.Job {
	return &jobmodel.Job{
		ID: "preview",
		ProcessedShows: []*jobmodel.ProcessedShow{
			{
				ID: "show-a", Selected: true,
				Seasons: []*jobmodel.ProcessedSeason{
					{Number: 1, Selected: true, Episodes: []*jobmodel.ProcessedEpisode{
						{Season: 1, Number: 1, Selected: true},
						{Season: 1, Number: 2, Selected: true},
					}},
					{Number: 2, Selected: true, Episodes: []*jobmodel.ProcessedEpisode{
						{Season: 2, Number: 1, Selected: true},
					}},
				},
			},
			{ID: "show-b", Selected: true},
		},
	}
}

func TestSelectionApply(t *testing.T) {
	j := previewJob()
	sel := &Selection{Shows: []ShowSelection{
		{ID: "show-b", Selected: boolPtr(false)},
		{
			ID:       "show-a",
			Seasons:  []SeasonSelection{{Number: 2, Selected: boolPtr(false)}},
			Episodes: []EpisodeSelection{{Season: 1, Number: 2, Selected: false}},
		},
	}}

	sel.Apply(j)

	if j.FindShow("show-b").Selected {
		t.Error("show-b should be deselected")
	}
	showA := j.FindShow("show-a")
	if !showA.Selected {
		t.Error("show-a should keep default selection")
	}
	if showA.Seasons[1].Selected {
		t.Error("season 2 should be deselected")
	}
	if showA.Seasons[0].Episodes[0].Selected != true {
		t.Error("episode 1x01 should keep default selection")
	}
	if showA.Seasons[0].Episodes[1].Selected {
		t.Error("episode 1x02 should be deselected")
	}
}

func TestSelectionUnknownNodesIgnored(t *testing.T) {
	j := previewJob()
	sel := &Selection{Shows: []ShowSelection{
		{ID: "missing", Selected: boolPtr(false)},
		{ID: "show-a", Seasons: []SeasonSelection{{Number: 99, Selected: boolPtr(false)}}},
	}}

	sel.Apply(j)

	for _, show := range j.ProcessedShows {
		if !show.Selected {
			t.Errorf("show %s should remain selected", show.ID)
		}
	}
}
