package extractor

import (
	"context"
	"fmt"
	"testing"

	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/llm"
)

// fakeProvider 可编程的假LLM
type fakeProvider struct {
	responses []string
	calls     int
	err       error
}

func (f *fakeProvider) Name() string      { return "fake" }
func (f *fakeProvider) IsAvailable() bool { return true }

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.responses) {
		return "[]", nil
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func TestExtract(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`[
			{"folder_name": "一人之下第二季", "cn_name": "一人之下", "en_name": "The Outsider", "year": 2016, "tmdb_id": 68033},
			{"folder_name": "Breaking.Bad.S01", "cn_name": "绝命毒师", "en_name": "Breaking Bad", "year": "2008", "tmdb_id": null}
		]`,
	}}
	e := New(provider, 20, 0)

	results := e.Extract(context.Background(), []Input{
		{FolderName: "一人之下第二季"},
		{FolderName: "Breaking.Bad.S01"},
	})

	if len(results) != 2 {
		t.Fatalf("Extract() returned %d results, want 2", len(results))
	}
	if results[0].CNName == nil || *results[0].CNName != "一人之下" {
		t.Errorf("cn_name = %v, want 一人之下", results[0].CNName)
	}
	if results[0].TMDBID == nil || *results[0].TMDBID != 68033 {
		t.Errorf("tmdb_id = %v, want 68033", results[0].TMDBID)
	}
	// 字符串形式的年份也要接受
	if results[1].Year == nil || *results[1].Year != 2008 {
		t.Errorf("year = %v, want 2008", results[1].Year)
	}
	if results[1].TMDBID != nil {
		t.Errorf("tmdb_id = %v, want nil", results[1].TMDBID)
	}
}

func TestExtractTolerantParsing(t *testing.T) {
	// 模型在JSON前后加说明文字、用zh_name别名、回显富化后缀
	provider := &fakeProvider{responses: []string{
		"好的，解析结果如下:\n[{\"folder_name\": \"某剧 | 首个文件: E01.mkv\", \"zh_name\": \"某剧\", \"en_name\": null, \"year\": null, \"tmdb_id\": null}]\n以上。",
	}}
	e := New(provider, 20, 0)

	results := e.Extract(context.Background(), []Input{{FolderName: "某剧", FirstFile: "E01.mkv"}})

	if len(results) != 1 {
		t.Fatalf("Extract() returned %d results, want 1", len(results))
	}
	if results[0].FolderName != "某剧" {
		t.Errorf("folder_name = %q, want 某剧", results[0].FolderName)
	}
	if results[0].CNName == nil || *results[0].CNName != "某剧" {
		t.Errorf("zh_name alias not honored: %v", results[0].CNName)
	}
}

func TestExtractChunkFailureFillsNulls(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("upstream unavailable")}
	e := New(provider, 20, 0)

	inputs := []Input{{FolderName: "a"}, {FolderName: "b"}}
	results := e.Extract(context.Background(), inputs)

	if len(results) != 2 {
		t.Fatalf("Extract() returned %d results, want 2", len(results))
	}
	for i, r := range results {
		if !r.Empty() {
			t.Errorf("result %d should be empty, got %+v", i, r)
		}
		if r.FolderName != inputs[i].FolderName {
			t.Errorf("result %d folder = %q, want %q", i, r.FolderName, inputs[i].FolderName)
		}
	}
}

func TestExtractAlignsOmittedEntries(t *testing.T) {
	// 模型漏掉了第二个条目
	provider := &fakeProvider{responses: []string{
		`[{"folder_name": "a", "cn_name": "甲", "en_name": null, "year": null, "tmdb_id": null}]`,
	}}
	e := New(provider, 20, 0)

	results := e.Extract(context.Background(), []Input{{FolderName: "a"}, {FolderName: "b"}})

	if len(results) != 2 {
		t.Fatalf("Extract() returned %d results, want 2", len(results))
	}
	if results[0].CNName == nil || *results[0].CNName != "甲" {
		t.Errorf("first result = %+v", results[0])
	}
	if !results[1].Empty() || results[1].FolderName != "b" {
		t.Errorf("omitted entry should be null-filled, got %+v", results[1])
	}
}

func TestExtractBatching(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`[{"folder_name": "a", "cn_name": "甲", "en_name": null, "year": null, "tmdb_id": null},
		  {"folder_name": "b", "cn_name": "乙", "en_name": null, "year": null, "tmdb_id": null}]`,
		`[{"folder_name": "c", "cn_name": "丙", "en_name": null, "year": null, "tmdb_id": null}]`,
	}}
	e := New(provider, 2, 0)

	results := e.Extract(context.Background(), []Input{
		{FolderName: "a"}, {FolderName: "b"}, {FolderName: "c"},
	})

	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
	if len(results) != 3 {
		t.Fatalf("Extract() returned %d results, want 3", len(results))
	}
	if results[2].CNName == nil || *results[2].CNName != "丙" {
		t.Errorf("third result = %+v", results[2])
	}
}
