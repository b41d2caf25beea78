package jobs

import (
	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
)

// Selection 执行时对预览树的勾选调整
// 未提及的节点保持预览时的勾选状态。季的勾选优先级高于集:
// 季被取消后，该季下的集一律不执行
type Selection struct {
	Shows []ShowSelection `json:"shows"`
}

// ShowSelection 节目级勾选
type ShowSelection struct {
	ID       string             `json:"id"`
	Selected *bool              `json:"selected,omitempty"`
	Seasons  []SeasonSelection  `json:"seasons,omitempty"`
	Episodes []EpisodeSelection `json:"episodes,omitempty"`
}

// SeasonSelection 季级勾选
type SeasonSelection struct {
	Number   int   `json:"number"`
	Selected *bool `json:"selected,omitempty"`
}

// EpisodeSelection 集级勾选
type EpisodeSelection struct {
	Season   int  `json:"season"`
	Number   int  `json:"number"`
	Selected bool `json:"selected"`
}

// Apply 把勾选结果套用到任务的预览树上
func (s *Selection) Apply(j *jobmodel.Job) {
	for _, ss := range s.Shows {
		show := j.FindShow(ss.ID)
		if show == nil {
			continue
		}

		if ss.Selected != nil {
			show.Selected = *ss.Selected
		}

		for _, seasonSel := range ss.Seasons {
			for _, season := range show.Seasons {
				if season.Number == seasonSel.Number && seasonSel.Selected != nil {
					season.Selected = *seasonSel.Selected
				}
			}
		}

		for _, epSel := range ss.Episodes {
			for _, season := range show.Seasons {
				for _, ep := range season.Episodes {
					if ep.Season == epSel.Season && ep.Number == epSel.Number {
						ep.Selected = epSel.Selected
					}
				}
			}
		}
	}
}
