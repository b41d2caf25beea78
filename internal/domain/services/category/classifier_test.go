package category

import (
	"testing"

	"github.com/easayliu/emby-tv-organizer/internal/domain/models/media"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/config"
)

func defaultRules() []config.CategoryRule {
	return []config.CategoryRule{
		{Name: "动漫", GenreIDs: "16", OriginCountry: "JP,CN"},
		{Name: "纪录片", GenreIDs: "99"},
		{Name: "国产剧", OriginCountry: "CN,TW,HK"},
		{Name: "欧美剧", OriginalLanguage: "en"},
		{Name: "其他"},
	}
}

func TestClassify(t *testing.T) {
	c := New(defaultRules())

	tests := []struct {
		name     string
		meta     media.CatalogMetadata
		expected string
	}{
		{
			name:     "日本动画",
			meta:     media.CatalogMetadata{GenreIDs: []int{16, 10759}, OriginCountry: []string{"JP"}},
			expected: "动漫",
		},
		{
			name:     "国产动画按声明顺序命中动漫",
			meta:     media.CatalogMetadata{GenreIDs: []int{16}, OriginCountry: []string{"CN"}},
			expected: "动漫",
		},
		{
			name:     "美国动画不满足国家条件落到后续规则",
			meta:     media.CatalogMetadata{GenreIDs: []int{16}, OriginCountry: []string{"US"}, OriginalLanguage: "en"},
			expected: "欧美剧",
		},
		{
			name:     "国产真人剧",
			meta:     media.CatalogMetadata{GenreIDs: []int{18}, OriginCountry: []string{"CN"}},
			expected: "国产剧",
		},
		{
			name:     "兜底规则",
			meta:     media.CatalogMetadata{GenreIDs: []int{18}, OriginCountry: []string{"KR"}, OriginalLanguage: "ko"},
			expected: "其他",
		},
		{
			name:     "国家码大小写不敏感",
			meta:     media.CatalogMetadata{GenreIDs: []int{99}, OriginCountry: []string{"gb"}},
			expected: "纪录片",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(&tt.meta); got != tt.expected {
				t.Errorf("Classify() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClassifyNoRuleMatched(t *testing.T) {
	c := New([]config.CategoryRule{{Name: "动漫", GenreIDs: "16"}})
	meta := media.CatalogMetadata{GenreIDs: []int{18}}
	if got := c.Classify(&meta); got != "" {
		t.Errorf("Classify() = %q, want empty", got)
	}
}

func TestClassifyFallbackDeclaredFirst(t *testing.T) {
	// 兜底规则写在最前面也不遮蔽后面的条件规则
	c := New([]config.CategoryRule{
		{Name: "其他"},
		{Name: "动漫", GenreIDs: "16"},
	})

	anime := media.CatalogMetadata{GenreIDs: []int{16}}
	if got := c.Classify(&anime); got != "动漫" {
		t.Errorf("Classify() = %q, want 动漫", got)
	}
	drama := media.CatalogMetadata{GenreIDs: []int{18}}
	if got := c.Classify(&drama); got != "其他" {
		t.Errorf("Classify() = %q, want 其他", got)
	}
}

func TestMatchTokens(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		values   []string
		expected bool
	}{
		{name: "单值命中", expr: "16", values: []string{"16", "18"}, expected: true},
		{name: "逗号或关系", expr: "10764,10767", values: []string{"10767"}, expected: true},
		{name: "区间命中", expr: "2015-2020", values: []string{"2018"}, expected: true},
		{name: "区间未命中", expr: "2015-2020", values: []string{"2021"}, expected: false},
		{name: "排除项命中则失败", expr: "16,!10762", values: []string{"16", "10762"}, expected: false},
		{name: "纯排除项全通过", expr: "!99", values: []string{"18"}, expected: true},
		{name: "无肯定命中", expr: "16", values: []string{"18"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchTokens(tt.expr, tt.values); got != tt.expected {
				t.Errorf("matchTokens(%q, %v) = %v, want %v", tt.expr, tt.values, got, tt.expected)
			}
		})
	}
}

func TestClassifyReleaseYearRange(t *testing.T) {
	c := New([]config.CategoryRule{
		{Name: "经典剧", ReleaseYear: "1990-2009"},
		{Name: "新剧"},
	})

	old := media.CatalogMetadata{Year: 1999}
	if got := c.Classify(&old); got != "经典剧" {
		t.Errorf("Classify(1999) = %q, want 经典剧", got)
	}
	recent := media.CatalogMetadata{Year: 2022}
	if got := c.Classify(&recent); got != "新剧" {
		t.Errorf("Classify(2022) = %q, want 新剧", got)
	}
}
