package logger

import "testing"

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "空串", input: "", expected: ""},
		{name: "短token全掩码", input: "abc", expected: "***"},
		{name: "长token保留首尾", input: "sk-1234567890ab", expected: "sk-1*******90ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskToken(tt.input); got != tt.expected {
				t.Errorf("MaskToken(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for _, key := range []string{"api_key", "BotToken", "password", "Authorization"} {
		if !IsSensitiveKey(key) {
			t.Errorf("IsSensitiveKey(%q) = false, want true", key)
		}
	}
	for _, key := range []string{"folder", "jobID", "season"} {
		if IsSensitiveKey(key) {
			t.Errorf("IsSensitiveKey(%q) = true, want false", key)
		}
	}
}

func TestSanitizeArgs(t *testing.T) {
	args := SanitizeArgs("folder", "一人之下", "api_key", "sk-1234567890ab")
	if args[1] != "一人之下" {
		t.Errorf("normal value changed: %v", args[1])
	}
	if args[3] == "sk-1234567890ab" {
		t.Errorf("sensitive value not masked: %v", args[3])
	}
}

func TestSanitizeURL(t *testing.T) {
	url := "https://api.themoviedb.org/3/search/tv?query=x&api_key=0123456789abcdef&page=1"
	got := SanitizeURL(url)
	if got == url {
		t.Error("api_key should be masked")
	}
	if want := "0123********cdef"; !contains(got, want) {
		t.Errorf("SanitizeURL() = %q, want to contain %q", got, want)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
