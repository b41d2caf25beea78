package resolver

import (
	"context"
	"fmt"
	"testing"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/tmdb"
)

// fakeCatalog 可编程的假目录客户端
type fakeCatalog struct {
	searchFn    func(query string, year int, language string, page int) *tmdb.SearchTVResponse
	details     map[int]*tmdb.TVDetails
	altTitles   map[int][]tmdb.AlternativeTitle
	translation map[int][]tmdb.Translation
	seasons     map[[2]int]*tmdb.Season

	searchCalls int
}

func (f *fakeCatalog) SearchTV(ctx context.Context, query string, year int, language string, page int) (*tmdb.SearchTVResponse, error) {
	f.searchCalls++
	if f.searchFn == nil {
		return &tmdb.SearchTVResponse{Page: page}, nil
	}
	resp := f.searchFn(query, year, language, page)
	if resp == nil {
		resp = &tmdb.SearchTVResponse{Page: page}
	}
	return resp, nil
}

func (f *fakeCatalog) GetTVDetails(ctx context.Context, tvID int, language string) (*tmdb.TVDetails, error) {
	if d, ok := f.details[tvID]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("tv %d not found", tvID)
}

func (f *fakeCatalog) GetAlternativeTitles(ctx context.Context, tvID int) (*tmdb.AlternativeTitlesResponse, error) {
	return &tmdb.AlternativeTitlesResponse{ID: tvID, Results: f.altTitles[tvID]}, nil
}

func (f *fakeCatalog) GetTranslations(ctx context.Context, tvID int) (*tmdb.TranslationsResponse, error) {
	return &tmdb.TranslationsResponse{ID: tvID, Translations: f.translation[tvID]}, nil
}

func (f *fakeCatalog) GetSeasonDetails(ctx context.Context, tvID, seasonNumber int, language string) (*tmdb.Season, error) {
	if s, ok := f.seasons[[2]int{tvID, seasonNumber}]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("season %d of tv %d not found", seasonNumber, tvID)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func singleResult(id int, name, airDate string) func(string, int, string, int) *tmdb.SearchTVResponse {
	return func(query string, year int, language string, page int) *tmdb.SearchTVResponse {
		return &tmdb.SearchTVResponse{
			Page:         1,
			Results:      []tmdb.TVResult{{ID: id, Name: name, OriginalName: name, FirstAirDate: airDate}},
			TotalPages:   1,
			TotalResults: 1,
		}
	}
}

func TestResolveByTMDBID(t *testing.T) {
	fake := &fakeCatalog{
		details: map[int]*tmdb.TVDetails{
			68033: {
				ID: 68033, Name: "一人之下", OriginalName: "一人之下",
				FirstAirDate: "2016-07-09",
				Seasons:      []tmdb.Season{{SeasonNumber: 1}},
			},
		},
		seasons: map[[2]int]*tmdb.Season{
			{68033, 1}: {
				SeasonNumber: 1, AirDate: "2016-07-09",
				Episodes: []tmdb.Episode{{EpisodeNumber: 1, Name: "异人"}},
			},
		},
	}
	r := New(fake, []string{"zh-CN"}, 5)

	meta, err := r.Resolve(context.Background(), &Request{FolderName: "一人之下", TMDBID: intPtr(68033)})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if meta == nil || meta.Confidence != media.ConfidenceHigh {
		t.Fatalf("id-based resolve should be high confidence, got %+v", meta)
	}
	if meta.Year != 2016 {
		t.Errorf("year = %d, want 2016", meta.Year)
	}
	if title := meta.EpisodeTitle(1, 1); title != "异人" {
		t.Errorf("episode title = %q, want 异人", title)
	}
	if fake.searchCalls != 0 {
		t.Errorf("id path should not search, did %d searches", fake.searchCalls)
	}
}

func TestResolveSingleResultHighConfidence(t *testing.T) {
	fake := &fakeCatalog{
		searchFn: singleResult(100, "一人之下", "2016-07-09"),
		details: map[int]*tmdb.TVDetails{
			100: {ID: 100, Name: "一人之下", FirstAirDate: "2016-07-09", Seasons: []tmdb.Season{{SeasonNumber: 2}}},
		},
		seasons: map[[2]int]*tmdb.Season{
			{100, 2}: {SeasonNumber: 2, AirDate: "2017-11-01"},
		},
	}
	r := New(fake, []string{"zh-CN", "en-US"}, 5)

	meta, err := r.Resolve(context.Background(), &Request{
		FolderName: "一人之下第二季",
		CNName:     strPtr("一人之下"),
		Year:       intPtr(2016),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if meta == nil || meta.Confidence != media.ConfidenceHigh {
		t.Fatalf("confidence = %+v, want high", meta)
	}
	if len(meta.Seasons) != 1 || meta.Seasons[0].Number != 2 {
		t.Errorf("seasons not populated: %+v", meta.Seasons)
	}
}

func TestResolveNameNotInFolderIsLow(t *testing.T) {
	// 名称校验对唯一候选同样生效: 候选的所有名称都没出现在
	// 文件夹名里时，即便年份吻合也只能是low
	fake := &fakeCatalog{
		searchFn: singleResult(100, "权力的游戏", "2011-04-17"),
		details:  map[int]*tmdb.TVDetails{},
	}
	r := New(fake, []string{"zh-CN"}, 5)

	meta, err := r.Resolve(context.Background(), &Request{
		FolderName: "完全无关的目录名",
		CNName:     strPtr("权力的游戏"),
		Year:       intPtr(2011),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if meta == nil || meta.Confidence != media.ConfidenceLow {
		t.Fatalf("confidence = %+v, want low", meta)
	}
}

func TestResolveYearConflictIsLow(t *testing.T) {
	fake := &fakeCatalog{
		searchFn: singleResult(100, "某剧", "1990-01-01"),
		details:  map[int]*tmdb.TVDetails{},
	}
	r := New(fake, []string{"zh-CN"}, 5)

	meta, err := r.Resolve(context.Background(), &Request{
		FolderName: "某剧 2020",
		CNName:     strPtr("某剧"),
		Year:       intPtr(2020),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if meta == nil || meta.Confidence != media.ConfidenceLow {
		t.Fatalf("confidence = %+v, want low", meta)
	}
}

func TestResolveYearRetry(t *testing.T) {
	fake := &fakeCatalog{}
	fake.searchFn = func(query string, year int, language string, page int) *tmdb.SearchTVResponse {
		// 带年份过滤一无所获，去掉年份后命中
		if year != 0 {
			return nil
		}
		return singleResult(100, "某剧", "2019-05-01")(query, year, language, page)
	}
	fake.details = map[int]*tmdb.TVDetails{
		100: {ID: 100, Name: "某剧", FirstAirDate: "2019-05-01"},
	}
	r := New(fake, []string{"zh-CN"}, 5)

	meta, err := r.Resolve(context.Background(), &Request{
		FolderName: "某剧 2020",
		CNName:     strPtr("某剧"),
		Year:       intPtr(2020),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if meta == nil || meta.Confidence != media.ConfidenceHigh {
		t.Fatalf("confidence = %+v, want high after year retry", meta)
	}
}

func TestResolvePrefersChineseName(t *testing.T) {
	fake := &fakeCatalog{
		searchFn: singleResult(100, "The Outsider", "2016-07-09"),
		altTitles: map[int][]tmdb.AlternativeTitle{
			100: {{Title: "一人之下", Country: "CN"}},
		},
		details: map[int]*tmdb.TVDetails{
			100: {ID: 100, Name: "The Outsider", FirstAirDate: "2016-07-09"},
		},
	}
	r := New(fake, []string{"zh-CN"}, 5)

	meta, err := r.Resolve(context.Background(), &Request{
		FolderName: "一人之下",
		CNName:     strPtr("一人之下"),
		Year:       intPtr(2016),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if meta == nil || meta.Confidence != media.ConfidenceHigh {
		t.Fatalf("confidence = %+v, want high", meta)
	}
	if meta.Name != "一人之下" {
		t.Errorf("name = %q, want 一人之下", meta.Name)
	}
}

func TestResolveSeasonYearValidation(t *testing.T) {
	newFake := func(seasonAirDate string) *fakeCatalog {
		return &fakeCatalog{
			searchFn: singleResult(100, "某剧", "2010-01-01"),
			details: map[int]*tmdb.TVDetails{
				100: {ID: 100, Name: "某剧", FirstAirDate: "2010-01-01", Seasons: []tmdb.Season{{SeasonNumber: 2}}},
			},
			seasons: map[[2]int]*tmdb.Season{
				{100, 2}: {SeasonNumber: 2, AirDate: seasonAirDate},
			},
		}
	}

	tests := []struct {
		name          string
		seasonAirDate string
		expected      media.Confidence
	}{
		{name: "季播出年吻合保持high", seasonAirDate: "2017-01-01", expected: media.ConfidenceHigh},
		{name: "首播年季年都不吻合降级low", seasonAirDate: "2011-01-01", expected: media.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(newFake(tt.seasonAirDate), []string{"zh-CN"}, 5)
			meta, err := r.Resolve(context.Background(), &Request{
				FolderName:     "某剧 第二季 2017",
				CNName:         strPtr("某剧"),
				Year:           intPtr(2017),
				FolderType:     media.FolderTypeDirectFiles,
				DetectedSeason: 2,
			})
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if meta == nil || meta.Confidence != tt.expected {
				t.Fatalf("confidence = %+v, want %s", meta, tt.expected)
			}
		})
	}
}

func TestResolvePaginationFanOut(t *testing.T) {
	page1 := make([]tmdb.TVResult, tmdb.SearchPageSize)
	for i := range page1 {
		page1[i] = tmdb.TVResult{ID: 200 + i, Name: fmt.Sprintf("无关剧%d", i), FirstAirDate: "2020-01-01"}
	}

	fake := &fakeCatalog{
		details: map[int]*tmdb.TVDetails{},
	}
	fake.searchFn = func(query string, year int, language string, page int) *tmdb.SearchTVResponse {
		if page == 1 {
			return &tmdb.SearchTVResponse{Page: 1, Results: page1, TotalPages: 2, TotalResults: 21}
		}
		return &tmdb.SearchTVResponse{
			Page:         2,
			Results:      []tmdb.TVResult{{ID: 999, Name: "重复剧", OriginalName: "重复剧", FirstAirDate: "2020-03-01"}},
			TotalPages:   2,
			TotalResults: 21,
		}
	}
	fake.details[999] = &tmdb.TVDetails{ID: 999, Name: "重复剧", FirstAirDate: "2020-03-01"}
	r := New(fake, []string{"zh-CN"}, 5)

	meta, err := r.Resolve(context.Background(), &Request{
		FolderName: "重复剧 2020",
		CNName:     strPtr("重复剧"),
		Year:       intPtr(2020),
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if meta == nil || meta.ID != 999 {
		t.Fatalf("should find match on page 2, got %+v", meta)
	}
	if meta.Confidence != media.ConfidenceHigh {
		t.Errorf("confidence = %s, want high", meta.Confidence)
	}
}

func TestResolveCaching(t *testing.T) {
	fake := &fakeCatalog{
		searchFn: singleResult(100, "某剧", "2019-05-01"),
		details: map[int]*tmdb.TVDetails{
			100: {ID: 100, Name: "某剧", FirstAirDate: "2019-05-01"},
		},
	}
	r := New(fake, []string{"zh-CN"}, 5)

	req := &Request{FolderName: "某剧", CNName: strPtr("某剧"), Year: intPtr(2019)}
	if _, err := r.Resolve(context.Background(), req); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	calls := fake.searchCalls

	if _, err := r.Resolve(context.Background(), req); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if fake.searchCalls != calls {
		t.Errorf("cached resolve should not search again: %d -> %d", calls, fake.searchCalls)
	}
}

func TestResolveNoQueryReturnsNil(t *testing.T) {
	r := New(&fakeCatalog{}, []string{"zh-CN"}, 5)
	meta, err := r.Resolve(context.Background(), &Request{FolderName: "乱码文件夹"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if meta != nil {
		t.Errorf("no query should resolve to nil, got %+v", meta)
	}
}
