package segment

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "早上好。", "早上好。"},
		{"collapses runs", "今天  天气\t不错", "今天 天气 不错"},
		{"trims ends", "  你好  ", "你好"},
		{"newlines", "第一行\n第二行", "第一行 第二行"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitPunctuation(t *testing.T) {
	got := Split("早上好。今天天气不错，适合出门。", 10)
	want := []string{"早上好。", "今天天气不错，", "适合出门。"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitLengthCut(t *testing.T) {
	got := Split("这是一段没有标点符号用来测试按长度切分的文本内容", 10)
	want := []string{"这是一段没有标点符号", "用来测试按长度切分的", "文本内容"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitEmpty(t *testing.T) {
	if got := Split("", 10); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
	if got := Split("   \t\n", 10); got != nil {
		t.Errorf("expected nil for whitespace-only text, got %v", got)
	}
}

func TestSplitHalfWidthPunctuation(t *testing.T) {
	got := Split("Hello, world! How are you?", 30)
	want := []string{"Hello,", "world!", "How are you?"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// no chunk exceeds maxChars and no non-space character is lost
func TestSplitInvariants(t *testing.T) {
	texts := []string{
		"早上好。今天天气不错，适合出门。",
		"这是一段没有标点符号用来测试按长度切分的文本内容",
		"短句。然后是一个特别特别特别特别特别特别特别长的没有停顿的句子",
		"A mixed 中英文 sentence, with punctuation! 以及中文标点。",
	}
	for _, text := range texts {
		for _, maxChars := range []int{5, 10, 14} {
			chunks := Split(text, maxChars)
			var joined strings.Builder
			for i, c := range chunks {
				if n := utf8.RuneCountInString(c); n > maxChars {
					t.Errorf("Split(%q, %d) chunk %d has %d runes: %q", text, maxChars, i, n, c)
				}
				joined.WriteString(c)
			}
			want := strings.ReplaceAll(Clean(text), " ", "")
			if got := strings.ReplaceAll(joined.String(), " ", ""); got != want {
				t.Errorf("Split(%q, %d) lost characters:\n got %q\nwant %q", text, maxChars, got, want)
			}
		}
	}
}

func TestCutRunes(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxChars int
		want     []string
	}{
		{"fits", "你好", 10, []string{"你好"}},
		{"exact", "一二三四五", 5, []string{"一二三四五"}},
		{"remainder", "一二三四五六七", 3, []string{"一二三", "四五六", "七"}},
		{"even", "abcdef", 3, []string{"abc", "def"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cutRunes(tt.in, tt.maxChars)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d parts, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("part %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
