package pattern

import "testing"

func TestCleanMetadata(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		preserveYears bool
		expected      string
	}{
		{
			name:     "分辨率编码年份全剥离",
			input:    "Twelve S01E01 2025 1080p x265",
			expected: "Twelve S01E01",
		},
		{
			name:     "音频编码带声道布局",
			input:    "Show DDP5.1 Atmos 2Audios",
			expected: "Show",
		},
		{
			name:     "HDR10+与DV",
			input:    "Show HDR10+ DV",
			expected: "Show",
		},
		{
			name:     "4K与流媒体标记",
			input:    "Show 4K NF WEB-DL",
			expected: "Show",
		},
		{
			name:     "中文帧率与文件大小",
			input:    "某剧 60帧 12GB",
			expected: "某剧",
		},
		{
			name:          "保留年份模式下普通年份不动",
			input:         "少年歌行 2018",
			preserveYears: true,
			expected:      "少年歌行 2018",
		},
		{
			name:          "保留年份模式下标记后的年份剥离",
			input:         "Show 1080p 2017 WEB-DL",
			preserveYears: true,
			expected:      "Show",
		},
		{
			name:     "剥离年份模式",
			input:    "少年歌行 2018",
			expected: "少年歌行",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMetadata(tt.input, tt.preserveYears); got != tt.expected {
				t.Errorf("CleanMetadata(%q, %v) = %q, want %q", tt.input, tt.preserveYears, got, tt.expected)
			}
		})
	}
}

func TestCleanMetadataIdempotent(t *testing.T) {
	inputs := []string{
		"Twelve S01E01 2025 1080p x265",
		"Show HDR10+ DDP5.1 WEB-DL 2160p",
		"一人之下第二季 全24集 4K",
	}
	for _, input := range inputs {
		once := CleanMetadata(input, false)
		twice := CleanMetadata(once, false)
		if once != twice {
			t.Errorf("CleanMetadata not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
