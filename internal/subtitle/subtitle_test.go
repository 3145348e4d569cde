package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTrackSingleBlock(t *testing.T) {
	sub := Track([]TimedBlock{
		{Duration: 3.0, Chunks: []string{"早上好。", "今天天气不错，"}},
	})
	if len(sub.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sub.Entries))
	}

	if sub.Entries[0].StartTime != 0 {
		t.Errorf("first entry starts at %v, want 0", sub.Entries[0].StartTime)
	}
	// entries tile the block: each starts where the previous ended
	if sub.Entries[1].StartTime != sub.Entries[0].EndTime {
		t.Errorf("entry 1 starts at %v, previous ended at %v",
			sub.Entries[1].StartTime, sub.Entries[0].EndTime)
	}
	// the last chunk snaps to the block end
	if sub.Entries[1].EndTime != 3*time.Second {
		t.Errorf("last entry ends at %v, want 3s", sub.Entries[1].EndTime)
	}
	// the longer chunk holds the screen longer
	first := sub.Entries[0].EndTime - sub.Entries[0].StartTime
	second := sub.Entries[1].EndTime - sub.Entries[1].StartTime
	if second <= first {
		t.Errorf("expected the longer chunk to last longer: %v vs %v", first, second)
	}
}

func TestTrackBlocksAreConsecutive(t *testing.T) {
	sub := Track([]TimedBlock{
		{Duration: 2.0, Chunks: []string{"第一块"}},
		{Duration: 1.5, Chunks: []string{"第二块"}},
	})
	if len(sub.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sub.Entries))
	}
	if sub.Entries[0].EndTime != 2*time.Second {
		t.Errorf("first block ends at %v, want 2s", sub.Entries[0].EndTime)
	}
	if sub.Entries[1].StartTime != 2*time.Second {
		t.Errorf("second block starts at %v, want 2s", sub.Entries[1].StartTime)
	}
	if sub.Entries[1].EndTime != 3500*time.Millisecond {
		t.Errorf("second block ends at %v, want 3.5s", sub.Entries[1].EndTime)
	}
}

func TestTrackSkipsChunklessBlocks(t *testing.T) {
	// a chunkless block still advances the clock
	sub := Track([]TimedBlock{
		{Duration: 1.0},
		{Duration: 2.0, Chunks: []string{"字幕"}},
	})
	if len(sub.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(sub.Entries))
	}
	if sub.Entries[0].StartTime != 1*time.Second {
		t.Errorf("entry starts at %v, want 1s", sub.Entries[0].StartTime)
	}
}

func TestWriteSRT(t *testing.T) {
	sub := &Subtitle{Entries: []Entry{
		{StartTime: 0, EndTime: 1500 * time.Millisecond, Text: "早上好。"},
		{StartTime: 1500 * time.Millisecond, EndTime: 3 * time.Second, Text: "今天天气不错。"},
	}}

	path := filepath.Join(t.TempDir(), "episode.srt")
	if err := WriteSRT(sub, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read SRT: %v", err)
	}
	got := string(data)

	want := "1\n00:00:00,000 --> 00:00:01,500\n早上好。\n\n" +
		"2\n00:00:01,500 --> 00:00:03,000\n今天天气不错。\n\n"
	if got != want {
		t.Errorf("SRT mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestWriteSRTCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "episode.srt")
	sub := &Subtitle{Entries: []Entry{
		{EndTime: time.Second, Text: "字幕"},
	}}
	if err := WriteSRT(sub, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected SRT file: %v", err)
	}
}

func TestFormatSRTTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{1500 * time.Millisecond, "00:00:01,500"},
		{61 * time.Second, "00:01:01,000"},
		{time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond, "01:02:03,045"},
	}
	for _, tt := range tests {
		if got := formatSRTTime(tt.d); got != tt.want {
			t.Errorf("formatSRTTime(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}

func TestTrackEmpty(t *testing.T) {
	sub := Track(nil)
	if len(sub.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(sub.Entries))
	}
	path := filepath.Join(t.TempDir(), "empty.srt")
	if err := WriteSRT(sub, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.TrimSpace(string(data)) != "" {
		t.Errorf("expected empty SRT, got %q", data)
	}
}
