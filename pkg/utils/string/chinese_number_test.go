package strutil

import "testing"

func TestChineseToNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "阿拉伯数字", input: "12", expected: 12},
		{name: "单字-一", input: "一", expected: 1},
		{name: "单字-两", input: "两", expected: 2},
		{name: "单字-十", input: "十", expected: 10},
		{name: "大写-贰", input: "贰", expected: 2},
		{name: "繁体-陸", input: "陸", expected: 6},
		{name: "十X格式", input: "十五", expected: 15},
		{name: "X十格式", input: "二十", expected: 20},
		{name: "X十Y格式", input: "二十五", expected: 25},
		{name: "大写组合", input: "叁十", expected: 30},
		{name: "空串", input: "", expected: 0},
		{name: "非数字", input: "季", expected: 0},
		{name: "非法组合", input: "十十", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChineseToNumber(tt.input); got != tt.expected {
				t.Errorf("ChineseToNumber(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsChineseNumeral(t *testing.T) {
	for _, r := range "一二三十拾壹兩" {
		if !IsChineseNumeral(r) {
			t.Errorf("IsChineseNumeral(%q) = false, want true", r)
		}
	}
	for _, r := range "季集abc1" {
		if IsChineseNumeral(r) {
			t.Errorf("IsChineseNumeral(%q) = true, want false", r)
		}
	}
}
