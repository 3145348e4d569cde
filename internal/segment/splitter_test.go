package segment

import (
	"context"
	"errors"
	"testing"
)

// fakeSegmenter plays the remote provider in tests.
type fakeSegmenter struct {
	chunks []string
	err    error
	calls  int
}

func (f *fakeSegmenter) Segment(_ context.Context, _ string, _ int) ([]string, error) {
	f.calls++
	return f.chunks, f.err
}

func TestSplitterLocalOnly(t *testing.T) {
	s := NewSplitter(10, nil, nil)
	got := s.Split(context.Background(), "早上好。今天天气不错，适合出门。")
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

func TestSplitterPrefersRemote(t *testing.T) {
	remote := &fakeSegmenter{chunks: []string{"早上好。", "今天天气不错，适合出门。"}}
	s := NewSplitter(14, remote, nil)
	got := s.Split(context.Background(), "早上好。今天天气不错，适合出门。")
	if len(got) != 2 {
		t.Fatalf("expected remote answer, got %v", got)
	}
	if got[1] != "今天天气不错，适合出门。" {
		t.Errorf("expected remote chunk, got %q", got[1])
	}
}

func TestSplitterRemoteErrorFallsBack(t *testing.T) {
	remote := &fakeSegmenter{err: errors.New("quota exceeded")}
	s := NewSplitter(10, remote, nil)
	got := s.Split(context.Background(), "早上好。今天天气不错，适合出门。")
	if len(got) != 3 {
		t.Fatalf("expected local fallback with 3 chunks, got %v", got)
	}
}

func TestSplitterRejectsLossyRemote(t *testing.T) {
	// remote drops a character, so the local splitter has to take over
	remote := &fakeSegmenter{chunks: []string{"早上好。", "今天天气不错，"}}
	s := NewSplitter(10, remote, nil)
	got := s.Split(context.Background(), "早上好。今天天气不错，适合出门。")
	want := []string{"早上好。", "今天天气不错，", "适合出门。"}
	if len(got) != len(want) {
		t.Fatalf("expected local fallback, got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitterResplitsOverlongRemote(t *testing.T) {
	remote := &fakeSegmenter{chunks: []string{"这是一段没有标点符号用来测试按长度切分的文本内容"}}
	s := NewSplitter(10, remote, nil)
	got := s.Split(context.Background(), "这是一段没有标点符号用来测试按长度切分的文本内容")
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

func TestSplitterCaches(t *testing.T) {
	remote := &fakeSegmenter{chunks: []string{"早上好。"}}
	s := NewSplitter(10, remote, nil)

	first := s.Split(context.Background(), "早上好。")
	second := s.Split(context.Background(), " 早上好。 ") // same text after cleaning
	if remote.calls != 1 {
		t.Errorf("expected 1 remote call, got %d", remote.calls)
	}
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("expected identical cached answer, got %v and %v", first, second)
	}
}

func TestSplitterEmptyText(t *testing.T) {
	remote := &fakeSegmenter{chunks: []string{"x"}}
	s := NewSplitter(10, remote, nil)
	if got := s.Split(context.Background(), "   "); got != nil {
		t.Errorf("expected nil for blank text, got %v", got)
	}
	if remote.calls != 0 {
		t.Errorf("remote should not be consulted for blank text, got %d calls", remote.calls)
	}
}
