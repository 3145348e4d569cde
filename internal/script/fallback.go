package script

import (
	"fmt"
	"strings"
	"time"
)

// fallbackProducer builds a rule-based script directly from raw news items
// when the compiler output is absent or malformed.
type fallbackProducer struct {
	items []Item

	// overridable clock for tests
	now func() time.Time
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "星期一",
	time.Tuesday:   "星期二",
	time.Wednesday: "星期三",
	time.Thursday:  "星期四",
	time.Friday:    "星期五",
	time.Saturday:  "星期六",
	time.Sunday:    "星期日",
}

func (p *fallbackProducer) Blocks() ([]*Block, error) {
	now := time.Now
	if p.now != nil {
		now = p.now
	}

	var topics []*Block
	for _, item := range p.items {
		title := strings.TrimSpace(item.Title())
		summary := strings.TrimSpace(item.Summary())
		if title == "" && summary == "" {
			continue
		}
		topics = append(topics, &Block{
			Scene: SceneTopic,
			Title: title,
		})
		b := topics[len(topics)-1]
		b.Index = len(topics)
		switch {
		case summary == "":
			b.Text = fmt.Sprintf("第%d条新闻：%s。", b.Index, title)
		case title == "":
			b.Text = fmt.Sprintf("第%d条新闻：%s", b.Index, summary)
		default:
			b.Text = fmt.Sprintf("第%d条新闻：%s。%s", b.Index, title, summary)
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("no usable news items for fallback script")
	}
	for _, b := range topics {
		b.Total = len(topics)
	}

	t := now()
	dateStr := fmt.Sprintf("%02d月%02d日", int(t.Month()), t.Day())
	opening := fmt.Sprintf(
		"欢迎收听听闻天下，今天是%s，%s。每日五分钟，听闻天下事。",
		dateStr, weekdayNames[t.Weekday()],
	)
	closing := "以上就是今天的新闻播报，感谢收听听闻天下，我们明天再见。"

	blocks := make([]*Block, 0, len(topics)+2)
	blocks = append(blocks, &Block{Scene: SceneIntro, Text: opening})
	blocks = append(blocks, topics...)
	blocks = append(blocks, &Block{Scene: SceneOutro, Text: closing})
	return blocks, nil
}
