package script

import "testing"

func TestAdaptMap(t *testing.T) {
	tests := []struct {
		name        string
		m           map[string]any
		wantTitle   string
		wantSummary string
		wantSource  string
	}{
		{
			"standard keys",
			map[string]any{"title": "标题", "summary": "摘要", "source": "知乎"},
			"标题", "摘要", "知乎",
		},
		{
			"content as summary",
			map[string]any{"title": "标题", "content": "正文"},
			"标题", "正文", "",
		},
		{
			"desc as summary",
			map[string]any{"title": "标题", "desc": "描述"},
			"标题", "描述", "",
		},
		{
			"summary wins over content",
			map[string]any{"summary": "摘要", "content": "正文"},
			"", "摘要", "",
		},
		{
			"non-string values ignored",
			map[string]any{"title": 42, "summary": "摘要"},
			"", "摘要", "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := AdaptMap(tt.m)
			if got := item.Title(); got != tt.wantTitle {
				t.Errorf("Title() = %q, want %q", got, tt.wantTitle)
			}
			if got := item.Summary(); got != tt.wantSummary {
				t.Errorf("Summary() = %q, want %q", got, tt.wantSummary)
			}
			if got := item.Source(); got != tt.wantSource {
				t.Errorf("Source() = %q, want %q", got, tt.wantSource)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	compiled := &CompilerOutput{
		Opening: "开场白",
		Closing: "结束语",
		News:    []CompilerItem{{Title: "标题", Content: "内容"}},
	}
	if _, ok := Select(compiled, nil).(*compilerProducer); !ok {
		t.Error("expected the compiler producer for usable output")
	}

	if _, ok := Select(nil, nil).(*fallbackProducer); !ok {
		t.Error("expected the fallback producer without compiler output")
	}

	empty := &CompilerOutput{Opening: "开场白", Closing: "结束语"}
	if _, ok := Select(empty, nil).(*fallbackProducer); !ok {
		t.Error("expected the fallback producer for output with no topics")
	}

	noOpening := &CompilerOutput{
		Closing: "结束语",
		News:    []CompilerItem{{Title: "标题"}},
	}
	if _, ok := Select(noOpening, nil).(*fallbackProducer); !ok {
		t.Error("expected the fallback producer when the opening is missing")
	}
}
